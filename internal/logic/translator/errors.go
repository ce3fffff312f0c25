package translator

import "errors"

var (
	ErrListObjects = errors.New("list objects")
	ErrEmit        = errors.New("emit model")
	ErrInvalidCron = errors.New("invalid export schedule")
	ErrNoEmitters  = errors.New("no emitters configured")
)
