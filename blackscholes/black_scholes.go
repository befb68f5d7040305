package blackscholes

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Black–Scholes–Merton model with continuous dividend yield
// see wiki: https://en.wikipedia.org/wiki/Black%E2%80%93Scholes_model
type BSM struct {
	D     string  `json:"direction"`      // direction, call: c put: p
	S     float64 `json:"subject_price"`  // price of the underlying
	X     float64 `json:"strike_price"`   // strike price
	T     float64 `json:"rest_time"`      // years to maturity
	R     float64 `json:"price_rate"`     // risk free rate
	Q     float64 `json:"dividend_yield"` // continuous dividend yield
	Iv    float64 `json:"volatility"`     // annualised volatility
	D1    float64 `json:"d1"`
	D2    float64 `json:"d2"`
	Nd1   float64 `json:"nd1"` // standard normal density at d1
	Price float64 `json:"option_price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
}

func NewBS(direction string, S, X, T, r, q, iv float64) *BSM {
	bsm := BSM{
		D:  strings.ToLower(direction),
		S:  S,
		X:  X,
		T:  T,
		R:  r,
		Q:  q,
		Iv: iv,
	}
	bsm.init()
	return &bsm
}

func (bsm *BSM) init() {
	if bsm.T <= 0 || bsm.Iv <= 0 || bsm.S <= 0 {
		bsm.intrinsic()
		return
	}
	bsm.calcD1()
	bsm.calcD2()
	bsm.Nd1 = distuv.UnitNormal.Prob(bsm.D1)
	bsm.calcPrice()
	bsm.calcDelta()
	bsm.calcGamma()
}

// intrinsic handles the degenerate inputs: the discounted forward payoff.
func (bsm *BSM) intrinsic() {
	fwd := bsm.S*math.Exp(-bsm.Q*bsm.T) - bsm.X*math.Exp(-bsm.R*bsm.T)
	if bsm.D == "c" {
		bsm.Price = math.Max(0, fwd)
		if fwd > 0 {
			bsm.Delta = math.Exp(-bsm.Q * bsm.T)
		}
	} else {
		bsm.Price = math.Max(0, -fwd)
		if fwd < 0 {
			bsm.Delta = -math.Exp(-bsm.Q * bsm.T)
		}
	}
}

func (bsm *BSM) calcD1() {
	bsm.D1 = (math.Log(bsm.S/bsm.X) + (bsm.R-bsm.Q+math.Pow(bsm.Iv, 2)/2)*bsm.T) / (bsm.Iv * math.Sqrt(bsm.T))
}

func (bsm *BSM) calcD2() {
	bsm.D2 = bsm.D1 - bsm.Iv*math.Sqrt(bsm.T)
}

func (bsm *BSM) calcPrice() {
	spot := bsm.S * math.Exp(-bsm.Q*bsm.T)
	strike := bsm.X * math.Exp(-bsm.R*bsm.T)
	if bsm.D == "c" {
		bsm.Price = spot*Cdf(bsm.D1) - strike*Cdf(bsm.D2)
	} else if bsm.D == "p" {
		bsm.Price = strike*Cdf(-bsm.D2) - spot*Cdf(-bsm.D1)
	}
}

func (bsm *BSM) calcDelta() {
	if bsm.D == "c" {
		bsm.Delta = math.Exp(-bsm.Q*bsm.T) * Cdf(bsm.D1)
	} else if bsm.D == "p" {
		bsm.Delta = math.Exp(-bsm.Q*bsm.T) * (Cdf(bsm.D1) - 1)
	}
}

func (bsm *BSM) calcGamma() {
	bsm.Gamma = math.Exp(-bsm.Q*bsm.T) * bsm.Nd1 / (bsm.S * bsm.Iv * math.Sqrt(bsm.T))
}

// Cdf is the standard normal cumulative distribution function.
func Cdf(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}
