// Package stargen generates stars: it samples a birth mass from a power-law
// initial mass function and derives main-sequence properties from it.
package stargen

import (
	"math"
	"math/rand/v2"
)

const (
	// MinMass and MaxMass bound the mass function domain, in solar masses.
	MinMass = 0.1
	MaxMass = 300.0

	// DefaultExponent is the power-law slope a in f(x) = x^a.
	DefaultExponent = -1.3
)

// IMF is the initial mass function f(x) = x^a restricted to
// [MinMass, MaxMass], with its normalized CDF and inverse.
type IMF struct {
	a  float64
	k  float64 // a + 1
	lo float64 // MinMass^(a+1)
	c  float64 // (MaxMass^(a+1) - MinMass^(a+1)) / (a+1)
}

func NewIMF(a float64) IMF {
	m := IMF{a: a, k: a + 1}
	if m.k == 0 {
		m.c = math.Log(MaxMass / MinMass)
		return m
	}
	m.lo = math.Pow(MinMass, m.k)
	m.c = (math.Pow(MaxMass, m.k) - m.lo) / m.k
	return m
}

func (m IMF) Exponent() float64 { return m.a }

// CDF is the probability that a sampled mass is at most x.
func (m IMF) CDF(x float64) float64 {
	switch {
	case x <= MinMass:
		return 0
	case x >= MaxMass:
		return 1
	case m.k == 0:
		return math.Log(x/MinMass) / m.c
	}
	return (math.Pow(x, m.k) - m.lo) / (m.k * m.c)
}

// InvCDF maps a uniform variate y in [0, 1] to a mass. The result is kept
// inside the domain so rounding never produces an out of range mass.
func (m IMF) InvCDF(y float64) float64 {
	var x float64
	if m.k == 0 {
		x = MinMass * math.Exp(m.c*y)
	} else {
		x = math.Pow(m.lo+m.k*m.c*y, 1/m.k)
	}
	return min(max(x, MinMass), MaxMass)
}

// Sample draws one mass.
func (m IMF) Sample(rng *rand.Rand) float64 {
	return m.InvCDF(rng.Float64())
}
