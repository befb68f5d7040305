package engine

import "errors"

var (
	// ErrShape is returned when the working solution, the grid and the weight
	// table disagree in length.
	ErrShape = errors.New("engine: vector length mismatch")

	// ErrEdgeExhausted is returned when a boundary schedule runs out before the
	// sweep reaches the initial layer.
	ErrEdgeExhausted = errors.New("engine: boundary schedule exhausted")

	// ErrOutOfGrid is returned by Result lookups outside the priced range.
	ErrOutOfGrid = errors.New("engine: price outside grid")
)
