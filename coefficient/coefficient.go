// Package coefficient builds the stencil weights of the explicit
// finite-difference scheme for the Black–Scholes operator.
//
// For grid index i the next layer value is
//
//	down(i)*V[i-1] + self(i)*V[i] + up(i)*V[i+1]
//
// with every weight discounted by 1/(1+r*dt). The closed forms are taken at
// j = J0 + i where J0 = s_min/ds, so that j*ds is the grid price of index i.
package coefficient

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	colDown = iota
	colSelf
	colUp
)

type Builder struct {
	ArrLen int     // highest grid index, the builder emits ArrLen+1 weights
	J0     float64 // grid offset s_min/ds, 0 for a grid starting at 0
	Dt     float64 // time step
	R      float64 // risk free rate
	V      float64 // volatility
}

func NewBuilder(arrLen int, dt, r, v float64) *Builder {
	return &Builder{
		ArrLen: arrLen,
		Dt:     dt,
		R:      r,
		V:      v,
	}
}

// WithOffset sets the grid offset to sMin/ds and returns b.
func (b *Builder) WithOffset(sMin, ds float64) *Builder {
	b.J0 = sMin / ds
	return b
}

func (b *Builder) discount() float64 {
	return 1 + b.R*b.Dt
}

// DownWeights returns the weight of the lower neighbour for i = 0..ArrLen.
func (b *Builder) DownWeights() []float64 {
	res := make([]float64, 0, b.ArrLen+1)
	for i := 0; i <= b.ArrLen; i++ {
		fi := b.J0 + float64(i)
		res = append(res, (-0.5*b.R*b.Dt*fi+0.5*math.Pow(b.V, 2)*b.Dt*math.Pow(fi, 2))/b.discount())
	}
	return res
}

// SelfWeights returns the weight of the point itself for i = 0..ArrLen.
func (b *Builder) SelfWeights() []float64 {
	res := make([]float64, 0, b.ArrLen+1)
	for i := 0; i <= b.ArrLen; i++ {
		fi := b.J0 + float64(i)
		res = append(res, (1-math.Pow(b.V, 2)*math.Pow(fi, 2)*b.Dt)/b.discount())
	}
	return res
}

// UpWeights returns the weight of the upper neighbour for i = 0..ArrLen.
func (b *Builder) UpWeights() []float64 {
	res := make([]float64, 0, b.ArrLen+1)
	for i := 0; i <= b.ArrLen; i++ {
		fi := b.J0 + float64(i)
		res = append(res, (0.5*b.R*b.Dt*fi+0.5*math.Pow(b.V, 2)*b.Dt*math.Pow(fi, 2))/b.discount())
	}
	return res
}

// Build computes all three weight vectors in one run.
func (b *Builder) Build() *Weights {
	down, self, up := b.DownWeights(), b.SelfWeights(), b.UpWeights()
	m := mat.NewDense(b.ArrLen+1, 3, nil)
	for i := 0; i <= b.ArrLen; i++ {
		m.Set(i, colDown, down[i])
		m.Set(i, colSelf, self[i])
		m.Set(i, colUp, up[i])
	}
	return &Weights{m: m}
}

// Weights is the read-only stencil table. Row i holds (down, self, up) of
// grid index i.
type Weights struct {
	m *mat.Dense
}

func (w *Weights) Len() int {
	r, _ := w.m.Dims()
	return r
}

func (w *Weights) Down(i int) float64 { return w.m.At(i, colDown) }
func (w *Weights) Self(i int) float64 { return w.m.At(i, colSelf) }
func (w *Weights) Up(i int) float64   { return w.m.At(i, colUp) }

// RowView returns the (down, self, up) weights of index i as a vector, ready
// for mat.Dot against the matching three point neighbourhood.
func (w *Weights) RowView(i int) mat.Vector {
	return w.m.RowView(i)
}
