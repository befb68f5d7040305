package lattice

import "errors"

var (
	// ErrZeroStep is returned when the horizontal or vertical step count is below 1.
	ErrZeroStep = errors.New("lattice: step count must be at least 1")

	// ErrPriceRange is returned when s_min >= s_max.
	ErrPriceRange = errors.New("lattice: s_min must be below s_max")

	// ErrDirection is returned for an option direction other than "c" or "p".
	ErrDirection = errors.New("lattice: direction must be c or p")

	// ErrBadInput covers negative strike, maturity or volatility.
	ErrBadInput = errors.New("lattice: invalid market input")
)
