package engine_test

import (
	"testing"

	"github.com/charlerive/fdpricer/blackscholes"
	"github.com/charlerive/fdpricer/coefficient"
	"github.com/charlerive/fdpricer/engine"
	"github.com/charlerive/fdpricer/lattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPrice_Demo(t *testing.T) {
	p := lattice.Default()
	var steps []int
	opts := engine.DefaultOptions()
	opts.OnStep = func(counter int, _ float64, _ *mat.VecDense) { steps = append(steps, counter) }

	res, err := engine.Price(p, &opts)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, steps)
	assert.Equal(t, 8, res.Steps)
	require.Len(t, res.Points, 11)

	want := []float64{
		20.311544880635957, 16.312948224620047, 12.313541749731675, 8.337568077769507,
		4.633429631036404, 1.9755589981055166, 0.7143154292842091, 0.23098402188438058,
		0.06819718934907186, 0.017685362172974027, 0,
	}
	for i, v := range res.Values() {
		assert.InDelta(t, want[i], v, 1e-9, "grid index %d", i)
		assert.GreaterOrEqual(t, v, 0.0)
	}

	bs := blackscholes.NewBS("p", 20, p.K, p.T, p.R, p.Q, p.V)
	assert.InDelta(t, bs.Price, res.Points[5].V, 0.05)
	t.Logf("fdm: %+v, bs: %+v", res.Points[5], bs.Price)
}

func TestResult_MapKeys(t *testing.T) {
	res, err := engine.Price(lattice.Default(), nil)
	require.NoError(t, err)

	m := res.Map()
	require.Len(t, m, 11)
	for i, key := range []string{"0", "4", "8", "12", "16", "20", "24", "28", "32", "36", "40"} {
		v, ok := m[key]
		require.True(t, ok, "missing key %s", key)
		assert.Equal(t, res.Points[i].V, v)
	}
}

func TestPrice_StepCount(t *testing.T) {
	for _, h := range []int{1, 2, 5, 8, 50} {
		p := lattice.NewParams("p", h, 10, 0, 40, 21, 0.33333, 0.1, 0.4, 0)
		last := 0
		opts := engine.Options{OnStep: func(counter int, _ float64, _ *mat.VecDense) {
			assert.Equal(t, last+1, counter)
			last = counter
		}}
		res, err := engine.Price(p, &opts)
		require.NoError(t, err)
		assert.Equal(t, h, last)
		assert.Equal(t, h, res.Steps)
	}
}

func TestPrice_Deterministic(t *testing.T) {
	a, err := engine.Price(lattice.Default(), nil)
	require.NoError(t, err)
	b, err := engine.Price(lattice.Default(), nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFDEngine_BoundaryInjection(t *testing.T) {
	p := lattice.Default()
	edge := p.EdgeBoundary()
	w := coefficient.NewBuilder(p.VertStep, p.Dt(), p.R, p.V).Build()
	e := engine.NewFDEngine(p.HorizStep, p.Grid(), w, edge)
	e.OnStep = func(counter int, injected float64, layer *mat.VecDense) {
		want := edge[len(edge)-counter]
		assert.Equal(t, want, injected, "step %d", counter)
		assert.Equal(t, want, layer.AtVec(0))
		assert.Equal(t, 0.0, layer.AtVec(layer.Len()-1))
		assert.Len(t, e.EdgeLayer, len(edge)-counter)
		assert.Equal(t, p.VertStep+1, layer.Len())
	}
	_, err := e.Evaluate(p.TerminalPayoff())
	require.NoError(t, err)
	assert.True(t, e.Done())
	assert.Empty(t, e.EdgeLayer)
	// the engine pops its own copy of the schedule
	assert.Equal(t, p.EdgeBoundary(), edge)
	assert.Len(t, edge, p.HorizStep)
}

func TestFDEngine_StepLeavesInputIntact(t *testing.T) {
	p := lattice.Default()
	e := engine.NewFromParams(p, nil)
	payoff := p.TerminalPayoff()
	cur := mat.NewVecDense(len(payoff), append([]float64(nil), payoff...))

	next, err := e.Step(cur)
	require.NoError(t, err)
	assert.Equal(t, payoff, cur.RawVector().Data)
	assert.NotSame(t, cur, next)
	assert.Equal(t, 1, e.Counter)

	w := coefficient.NewBuilder(p.VertStep, p.Dt(), p.R, p.V).Build()
	for i := 1; i < len(payoff)-1; i++ {
		want := payoff[i-1]*w.Down(i) + payoff[i]*w.Self(i) + payoff[i+1]*w.Up(i)
		assert.InDelta(t, want, next.AtVec(i), 1e-12)
	}
}

func TestFDEngine_EvaluateWhenDone(t *testing.T) {
	p := lattice.Default()
	e := engine.NewFromParams(p, nil)
	e.Counter = e.HorizStep
	res, err := e.Evaluate(p.TerminalPayoff())
	require.NoError(t, err)
	assert.Equal(t, p.TerminalPayoff(), res.Values())
	assert.Equal(t, p.Grid(), res.Coordinates())
}

func TestFDEngine_EdgeExhausted(t *testing.T) {
	p := lattice.Default()
	e := engine.NewFromParams(p, nil)
	e.EdgeLayer = e.EdgeLayer[:3]
	_, err := e.Evaluate(p.TerminalPayoff())
	assert.ErrorIs(t, err, engine.ErrEdgeExhausted)
	assert.Equal(t, 3, e.Counter)

	opts := engine.Options{FarEdge: engine.FarEdgeAnalytic}
	e = engine.NewFromParams(p, &opts)
	e.FarLayer = nil
	_, err = e.Evaluate(p.TerminalPayoff())
	assert.ErrorIs(t, err, engine.ErrEdgeExhausted)
}

func TestFDEngine_Shape(t *testing.T) {
	p := lattice.Default()
	e := engine.NewFromParams(p, nil)
	_, err := e.Evaluate([]float64{1, 2, 3})
	assert.ErrorIs(t, err, engine.ErrShape)
	_, err = e.Evaluate(nil)
	assert.ErrorIs(t, err, engine.ErrShape)

	short := coefficient.NewBuilder(3, p.Dt(), p.R, p.V).Build()
	e = engine.NewFDEngine(p.HorizStep, p.Grid(), short, p.EdgeBoundary())
	_, err = e.Evaluate(p.TerminalPayoff())
	assert.ErrorIs(t, err, engine.ErrShape)
}

func TestPrice_InvalidParams(t *testing.T) {
	p := lattice.Default()
	p.HorizStep = 0
	_, err := engine.Price(p, nil)
	assert.ErrorIs(t, err, lattice.ErrZeroStep)

	p = lattice.Default()
	p.SMax = p.SMin
	_, err = engine.Price(p, nil)
	assert.ErrorIs(t, err, lattice.ErrPriceRange)
}

func TestPrice_PutMonotone(t *testing.T) {
	sets := []*lattice.Params{
		lattice.Default(),
		lattice.NewParams("p", 50, 20, 0, 100, 50, 0.5, 0.05, 0.3, 0),
		lattice.NewParams("p", 200, 40, 0, 40, 21, 0.33333, 0.1, 0.4, 0),
		lattice.NewParams("p", 30, 15, 0, 60, 30, 1, 0.03, 0.25, 0),
	}
	for _, p := range sets {
		res, err := engine.Price(p, nil)
		require.NoError(t, err)
		values := res.Values()
		for i := 1; i < len(values); i++ {
			assert.LessOrEqual(t, values[i], values[i-1], "%+v at %d", p, i)
			assert.GreaterOrEqual(t, values[i], 0.0)
		}
	}
}

func TestPrice_FarEdgeAnalytic(t *testing.T) {
	// for a put the analytic far edge is 0 and both modes agree
	p := lattice.NewParams("p", 50, 20, 0, 100, 50, 0.5, 0.05, 0.3, 0)
	zero, err := engine.Price(p, nil)
	require.NoError(t, err)
	opts := engine.Options{FarEdge: engine.FarEdgeAnalytic}
	analytic, err := engine.Price(p, &opts)
	require.NoError(t, err)
	assert.Equal(t, zero.Values(), analytic.Values())

	// a call needs the analytic edge to converge
	c := lattice.NewParams("c", 200, 40, 0, 80, 21, 0.33333, 0.1, 0.4, 0)
	res, err := engine.Price(c, &opts)
	require.NoError(t, err)
	for _, s := range []float64{16, 20, 22, 24} {
		got, err := res.Interpolate(s)
		require.NoError(t, err)
		want := blackscholes.NewBS("c", s, c.K, c.T, c.R, c.Q, c.V).Price
		assert.InDelta(t, want, got, 0.01, "call at %v", s)
	}
	last := res.Points[len(res.Points)-1].V
	assert.InDelta(t, c.FarBoundary()[0], last, 1e-12)
}

func TestPrice_Convergence(t *testing.T) {
	p := lattice.NewParams("p", 200, 40, 0, 40, 21, 0.33333, 0.1, 0.4, 0)
	res, err := engine.Price(p, nil)
	require.NoError(t, err)

	for _, i := range []int{16, 20, 24} {
		pt := res.Points[i]
		bs := blackscholes.NewBS("p", pt.S, p.K, p.T, p.R, p.Q, p.V)
		assert.InDelta(t, bs.Price, pt.V, 0.015, "price at %v", pt.S)
	}

	bs := blackscholes.NewBS("p", 20, p.K, p.T, p.R, p.Q, p.V)
	delta, err := res.Delta(20)
	require.NoError(t, err)
	assert.InDelta(t, bs.Delta, delta, 0.005)
	gamma, err := res.Gamma(20)
	require.NoError(t, err)
	assert.InDelta(t, bs.Gamma, gamma, 0.002)
}

func TestPrice_ShiftedGrid(t *testing.T) {
	full := lattice.NewParams("p", 200, 40, 0, 40, 21, 0.33333, 0.1, 0.4, 0)
	shifted := lattice.NewParams("p", 200, 30, 10, 40, 21, 0.33333, 0.1, 0.4, 0)
	require.Equal(t, full.Ds(), shifted.Ds())

	a, err := engine.Price(full, nil)
	require.NoError(t, err)
	b, err := engine.Price(shifted, nil)
	require.NoError(t, err)
	require.Len(t, b.Points, 31)
	assert.Equal(t, 10.0, b.Points[0].S)

	for _, s := range []float64{12, 16, 20, 24, 28} {
		got, err := b.Interpolate(s)
		require.NoError(t, err)
		want := blackscholes.NewBS("p", s, shifted.K, shifted.T, shifted.R, shifted.Q, shifted.V).Price
		assert.InDelta(t, want, got, 0.015, "shifted grid at %v", s)

		ref, err := a.Interpolate(s)
		require.NoError(t, err)
		assert.InDelta(t, ref, got, 1e-3, "grids disagree at %v", s)
	}
}
