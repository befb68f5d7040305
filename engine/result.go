package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Point is the option value V at grid price S. Key is the shortest decimal
// text that round-trips S.
type Point struct {
	S   float64 `json:"s"`
	Key string  `json:"key"`
	V   float64 `json:"value"`
}

// Result is the initial layer of a finished sweep in grid order.
type Result struct {
	Points []Point `json:"points"`
	Steps  int     `json:"steps"`
}

func NewResult(dsList, values []float64, steps int) *Result {
	points := make([]Point, len(dsList))
	for i, s := range dsList {
		points[i] = Point{
			S:   s,
			Key: decimal.NewFromFloat(s).String(),
			V:   values[i],
		}
	}
	return &Result{Points: points, Steps: steps}
}

// Map returns the values keyed by grid price text.
func (r *Result) Map() map[string]float64 {
	res := make(map[string]float64, len(r.Points))
	for _, p := range r.Points {
		res[p.Key] = p.V
	}
	return res
}

// Values returns the option values in grid order.
func (r *Result) Values() []float64 {
	res := make([]float64, len(r.Points))
	for i, p := range r.Points {
		res[i] = p.V
	}
	return res
}

// Coordinates returns the grid prices in order.
func (r *Result) Coordinates() []float64 {
	res := make([]float64, len(r.Points))
	for i, p := range r.Points {
		res[i] = p.S
	}
	return res
}

// Interpolate returns the value at s, linear between the two enclosing grid
// prices.
func (r *Result) Interpolate(s float64) (float64, error) {
	n := len(r.Points)
	if n == 0 || math.IsNaN(s) || s < r.Points[0].S || s > r.Points[n-1].S {
		return 0, fmt.Errorf("%w: %v", ErrOutOfGrid, s)
	}
	j := sort.Search(n, func(i int) bool { return r.Points[i].S >= s })
	if r.Points[j].S == s {
		return r.Points[j].V, nil
	}
	lo, hi := r.Points[j-1], r.Points[j]
	w := (s - lo.S) / (hi.S - lo.S)
	return lo.V + w*(hi.V-lo.V), nil
}

// Delta is the central difference dV/dS at interior index i.
func (r *Result) Delta(i int) (float64, error) {
	if i < 1 || i >= len(r.Points)-1 {
		return 0, fmt.Errorf("%w: index %d", ErrOutOfGrid, i)
	}
	lo, hi := r.Points[i-1], r.Points[i+1]
	return (hi.V - lo.V) / (hi.S - lo.S), nil
}

// Gamma is the central second difference d2V/dS2 at interior index i.
func (r *Result) Gamma(i int) (float64, error) {
	if i < 1 || i >= len(r.Points)-1 {
		return 0, fmt.Errorf("%w: index %d", ErrOutOfGrid, i)
	}
	lo, mid, hi := r.Points[i-1], r.Points[i], r.Points[i+1]
	ds := (hi.S - lo.S) / 2
	return (hi.V - 2*mid.V + lo.V) / (ds * ds), nil
}
