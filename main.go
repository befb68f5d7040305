package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/charlerive/fdpricer/blackscholes"
	"github.com/charlerive/fdpricer/engine"
	"github.com/charlerive/fdpricer/lattice"
)

func main() {
	p := lattice.Default()
	log.Printf("params: %+v", p)

	res, err := engine.Price(p, nil)
	if err != nil {
		log.Fatalf("price: %s", err)
	}

	out, err := json.MarshalIndent(res.Points, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %s", err)
	}
	fmt.Println(string(out))

	fdm, err := res.Interpolate(p.K)
	if err != nil {
		log.Fatalf("interpolate: %s", err)
	}
	bsm := blackscholes.NewBS(p.D, p.K, p.K, p.T, p.R, p.Q, p.V)
	log.Printf("steps: %d, fdm at strike: %+v, bsm: %+v, diff: %+v", res.Steps, fdm, bsm.Price, fdm-bsm.Price)
}
