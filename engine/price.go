package engine

import (
	"github.com/charlerive/fdpricer/coefficient"
	"github.com/charlerive/fdpricer/lattice"
)

// Options configures Price.
//
// FarEdgeZero keeps the 0 placeholder at s_max, FarEdgeAnalytic injects
// lattice.Params.FarBoundary instead. Trace logs every layer through the
// standard logger. OnStep, when set, is called after each transition.
type Options struct {
	FarEdge FarEdge
	Trace   bool
	OnStep  StepFunc
}

func DefaultOptions() Options {
	return Options{FarEdge: FarEdgeZero}
}

// NewFromParams wires the grid, boundaries and weights of p into an engine.
// p is assumed valid.
func NewFromParams(p *lattice.Params, opts *Options) *FDEngine {
	if opts == nil {
		o := DefaultOptions()
		opts = &o
	}
	weights := coefficient.NewBuilder(p.VertStep, p.Dt(), p.R, p.V).WithOffset(p.SMin, p.Ds()).Build()
	e := NewFDEngine(p.HorizStep, p.Grid(), weights, p.EdgeBoundary())
	e.FarEdge = opts.FarEdge
	if opts.FarEdge == FarEdgeAnalytic {
		e.FarLayer = p.FarBoundary()
	}
	e.Trace = opts.Trace
	e.OnStep = opts.OnStep
	return e
}

// Price validates p and runs the full sweep from the terminal payoff.
func Price(p *lattice.Params, opts *Options) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return NewFromParams(p, opts).Evaluate(p.TerminalPayoff())
}
