package pinger

import "errors"

var (
	ErrNilPinger         = errors.New("pinger is nil")
	ErrUnknownPinger     = errors.New("pinger not registered")
	ErrAlreadyRegistered = errors.New("pinger already registered")
)
