// Package engine runs the backward sweep of the explicit finite-difference
// scheme, one time layer per step, from maturity down to the initial time.
package engine

import (
	"fmt"
	"log"

	"github.com/charlerive/fdpricer/coefficient"
	"gonum.org/v1/gonum/mat"
)

// FarEdge selects how the value at the top of the price grid is set each step.
type FarEdge int

const (
	// FarEdgeZero appends a 0 placeholder after the last interior point.
	FarEdgeZero FarEdge = iota

	// FarEdgeAnalytic injects the analytic value at s_max from FarLayer.
	FarEdgeAnalytic
)

// StepFunc observes one transition. edge is the value injected at index 0 and
// layer the freshly computed solution; layer must not be modified.
type StepFunc func(counter int, edge float64, layer *mat.VecDense)

type FDEngine struct {
	HorizStep int
	DsList    []float64
	Weights   *coefficient.Weights
	EdgeLayer []float64 // value at s_min per layer, consumed from the tail
	FarLayer  []float64 // value at s_max per layer, only read with FarEdgeAnalytic
	Counter   int

	FarEdge FarEdge
	Trace   bool
	OnStep  StepFunc
}

func NewFDEngine(horizStep int, dsList []float64, weights *coefficient.Weights, edgeLayer []float64) *FDEngine {
	return &FDEngine{
		HorizStep: horizStep,
		DsList:    dsList,
		Weights:   weights,
		EdgeLayer: append([]float64(nil), edgeLayer...),
	}
}

// Done reports whether the sweep has reached the initial layer.
func (e *FDEngine) Done() bool {
	return e.Counter == e.HorizStep
}

// Step computes the layer below cur and advances the counter. cur is left
// untouched, the returned vector is newly allocated.
func (e *FDEngine) Step(cur *mat.VecDense) (*mat.VecDense, error) {
	n := cur.Len()
	if n < 2 || e.Weights.Len() < n-1 {
		return nil, fmt.Errorf("%w: solution=%d weights=%d", ErrShape, n, e.Weights.Len())
	}
	if len(e.EdgeLayer) == 0 {
		return nil, fmt.Errorf("%w: edge layer empty at step %d of %d", ErrEdgeExhausted, e.Counter, e.HorizStep)
	}
	if e.FarEdge == FarEdgeAnalytic && len(e.FarLayer) == 0 {
		return nil, fmt.Errorf("%w: far layer empty at step %d of %d", ErrEdgeExhausted, e.Counter, e.HorizStep)
	}

	next := mat.NewVecDense(n, nil)
	edge := e.EdgeLayer[len(e.EdgeLayer)-1]
	next.SetVec(0, edge)
	for i := 1; i < n-1; i++ {
		next.SetVec(i, mat.Dot(e.Weights.RowView(i), cur.SliceVec(i-1, i+2)))
	}
	if e.FarEdge == FarEdgeAnalytic {
		next.SetVec(n-1, e.FarLayer[len(e.FarLayer)-1])
		e.FarLayer = e.FarLayer[:len(e.FarLayer)-1]
	}

	e.Counter++
	e.EdgeLayer = e.EdgeLayer[:len(e.EdgeLayer)-1]

	if e.Trace {
		log.Printf("step: %d/%d, edge: %+v, layer: %+v", e.Counter, e.HorizStep, edge, next.RawVector().Data)
	}
	if e.OnStep != nil {
		e.OnStep(e.Counter, edge, next)
	}
	return next, nil
}

// Evaluate sweeps from boundary, the terminal payoff, until Done and labels
// the final layer with the grid prices.
func (e *FDEngine) Evaluate(boundary []float64) (*Result, error) {
	if len(boundary) < 2 || len(boundary) != len(e.DsList) {
		return nil, fmt.Errorf("%w: boundary=%d grid=%d", ErrShape, len(boundary), len(e.DsList))
	}
	cur := mat.NewVecDense(len(boundary), append([]float64(nil), boundary...))
	for !e.Done() {
		next, err := e.Step(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return NewResult(e.DsList, cur.RawVector().Data, e.Counter), nil
}
