// Package volatility inverts the finite-difference lattice for volatility.
package volatility

import (
	"errors"
	"fmt"
	"math"

	"github.com/charlerive/fdpricer/engine"
	"github.com/charlerive/fdpricer/lattice"
)

const MaxExecTimes = 100

// ErrNoConvergence is returned when the target price lies outside the prices
// of the volatility bracket or the iteration budget runs out.
var ErrNoConvergence = errors.New("volatility: implied volatility did not converge")

type Solver struct {
	Params    *lattice.Params
	S         float64 // underlying price the target refers to
	IvMax     float64
	IvMin     float64
	OpEpsilon float64 // price tolerance
	Options   engine.Options
}

func NewSolver(p *lattice.Params, s, ivMin, ivMax float64) *Solver {
	return &Solver{
		Params:    p,
		S:         s,
		IvMin:     ivMin,
		IvMax:     ivMax,
		OpEpsilon: 0.000001,
		Options:   engine.DefaultOptions(),
	}
}

// PriceAt runs the sweep with volatility iv and reads the value at S.
func (s *Solver) PriceAt(iv float64) (float64, error) {
	p := *s.Params
	p.V = iv
	opts := s.Options
	res, err := engine.Price(&p, &opts)
	if err != nil {
		return 0, err
	}
	return res.Interpolate(s.S)
}

// Solve finds the volatility whose lattice price at S equals op. The first
// iterations interpolate linearly inside the bracket, later ones bisect.
func (s *Solver) Solve(op float64) (float64, error) {
	ivMax, ivMin := s.IvMax, s.IvMin
	opMax, err := s.PriceAt(ivMax)
	if err != nil {
		return 0, err
	}
	opMin, err := s.PriceAt(ivMin)
	if err != nil {
		return 0, err
	}
	if op > opMax+s.OpEpsilon || op < opMin-s.OpEpsilon {
		return 0, fmt.Errorf("%w: price %v outside [%v, %v]", ErrNoConvergence, op, opMin, opMax)
	}
	if math.Abs(op-opMax) <= s.OpEpsilon {
		return ivMax, nil
	}
	if math.Abs(op-opMin) <= s.OpEpsilon {
		return ivMin, nil
	}

	iv := ivMin + (op-opMin)*(ivMax-ivMin)/(opMax-opMin)
	for execCount := 0; execCount < MaxExecTimes; execCount++ {
		cur, err := s.PriceAt(iv)
		if err != nil {
			return 0, err
		}
		if math.Abs(op-cur) <= s.OpEpsilon {
			return iv, nil
		}

		if cur < op {
			ivMin, opMin = iv, cur
		} else {
			ivMax, opMax = iv, cur
		}

		if execCount >= 5 {
			iv = (ivMax + ivMin) / 2
		} else {
			iv = ivMin + (op-opMin)*(ivMax-ivMin)/(opMax-opMin)
		}
	}
	return 0, fmt.Errorf("%w: %d iterations, last iv %v", ErrNoConvergence, MaxExecTimes, iv)
}
