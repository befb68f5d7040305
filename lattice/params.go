package lattice

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Option directions.
const (
	Call = "c" // call
	Put  = "p" // put
)

// Params holds the market and grid inputs of one lattice.
type Params struct {
	D         string  `json:"direction"`  // option direction, call: c put: p
	HorizStep int     `json:"horiz_step"` // number of time layers H
	VertStep  int     `json:"vert_step"`  // number of price intervals N
	SMin      float64 `json:"s_min"`      // lowest underlying price of the grid
	SMax      float64 `json:"s_max"`      // highest underlying price of the grid
	K         float64 `json:"strike_price"`
	T         float64 `json:"rest_time"` // years to maturity
	R         float64 `json:"price_rate"`
	V         float64 `json:"volatility"`
	Q         float64 `json:"dividend_yield"`
}

func NewParams(direction string, horizStep, vertStep int, sMin, sMax, k, t, r, v, q float64) *Params {
	return &Params{
		D:         strings.ToLower(direction),
		HorizStep: horizStep,
		VertStep:  vertStep,
		SMin:      sMin,
		SMax:      sMax,
		K:         k,
		T:         t,
		R:         r,
		V:         v,
		Q:         q,
	}
}

// Default returns the demo configuration: a four month put struck at 21 on a
// 10 x 8 lattice.
func Default() *Params {
	iterations := 8
	return NewParams(Put, iterations, iterations+2, 0, 40, 21, 0.33333, 0.1, 0.4, 0)
}

// Validate reports configuration errors. It does not check scheme stability.
func (p *Params) Validate() error {
	if p.HorizStep < 1 || p.VertStep < 1 {
		return fmt.Errorf("%w: horiz_step=%d vert_step=%d", ErrZeroStep, p.HorizStep, p.VertStep)
	}
	if !(p.SMin < p.SMax) {
		return fmt.Errorf("%w: s_min=%v s_max=%v", ErrPriceRange, p.SMin, p.SMax)
	}
	if p.D != Call && p.D != Put {
		return fmt.Errorf("%w: %q", ErrDirection, p.D)
	}
	if p.K < 0 || p.T <= 0 || p.V < 0 {
		return fmt.Errorf("%w: k=%v t=%v v=%v", ErrBadInput, p.K, p.T, p.V)
	}
	return nil
}

// Ds is the distance between two neighbouring grid prices.
func (p *Params) Ds() float64 {
	return (p.SMax - p.SMin) / float64(p.VertStep)
}

// Dt is the length of one time layer in years.
func (p *Params) Dt() float64 {
	return p.T / float64(p.HorizStep)
}

// Grid returns the VertStep+1 equidistant prices from SMin to SMax.
// Both endpoints are exact.
func (p *Params) Grid() []float64 {
	return floats.Span(make([]float64, p.VertStep+1), p.SMin, p.SMax)
}

// TerminalPayoff is the option value at maturity for every grid price.
func (p *Params) TerminalPayoff() []float64 {
	grid := p.Grid()
	res := make([]float64, len(grid))
	for i, s := range grid {
		if p.D == Call {
			res[i] = math.Max(0, s-p.K)
		} else {
			res[i] = math.Max(0, p.K-s)
		}
	}
	return res
}

// EdgeBoundary is the option value at SMin for the layers t = 0..H-1, earliest
// layer first. The engine consumes it from the tail.
func (p *Params) EdgeBoundary() []float64 {
	return p.boundary(p.SMin)
}

// FarBoundary is the analytic option value at SMax for the layers t = 0..H-1.
func (p *Params) FarBoundary() []float64 {
	return p.boundary(p.SMax)
}

func (p *Params) boundary(s float64) []float64 {
	dt := p.Dt()
	res := make([]float64, 0, p.HorizStep)
	for t := 0; t < p.HorizStep; t++ {
		tau := float64(p.HorizStep-t) * dt
		strike := p.K * math.Exp(-tau*p.R)
		spot := s * math.Exp(-tau*p.Q)
		if p.D == Call {
			res = append(res, math.Max(0, spot-strike))
		} else {
			res = append(res, math.Max(0, strike-spot))
		}
	}
	return res
}
