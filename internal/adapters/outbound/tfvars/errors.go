package tfvars

import "errors"

var ErrWrite = errors.New("write tfvars")
