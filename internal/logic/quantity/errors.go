package quantity

import "errors"

var (
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrCapacityInfeasible = errors.New("no capacity tier fits the request")
)
