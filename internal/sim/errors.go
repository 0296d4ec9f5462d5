package sim

import "errors"

var (
	// ErrConfig reports invalid construction parameters: zero dimensions,
	// an empty population or more species than the naming scheme supports.
	ErrConfig = errors.New("sim: invalid configuration")

	// ErrOutOfBounds reports a coordinate outside the grid.
	ErrOutOfBounds = errors.New("sim: coordinate out of bounds")
)
