package ecsjson

import "errors"

var (
	ErrReadInput = errors.New("read additional input")
	ErrOverlay   = errors.New("apply additional input")
	ErrWrite     = errors.New("write definition")
)
