package ship

import "errors"

// Domain errors for ship state operations.
var (
	// ErrInvalidHullGeometry indicates non-positive or physically implausible hull inputs.
	ErrInvalidHullGeometry = errors.New("ship: invalid hull geometry")

	// ErrInvalidOperand indicates a cargo or ballast operation with bad arguments.
	ErrInvalidOperand = errors.New("ship: invalid operand")
)
