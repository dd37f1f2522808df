package stargen

import (
	"math/rand/v2"

	"github.com/plus3/interstellar/ident"
)

// Star is a generated star with its content-derived id.
type Star struct {
	ID ident.LongId
	Properties
}

// Generator produces main-sequence stars. It is not safe for concurrent
// use; give each goroutine its own.
type Generator struct {
	rng     *rand.Rand
	imf     IMF
	formula Formula
}

func NewGenerator(rng *rand.Rand, imf IMF, formula Formula) *Generator {
	return &Generator{rng: rng, imf: imf, formula: formula}
}

// NewSeeded is a Generator over a PCG source seeded with seed.
func NewSeeded(seed uint64, imf IMF, formula Formula) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), imf, formula)
}

func (g *Generator) Rand() *rand.Rand { return g.rng }

// Generate samples a mass and derives a main-sequence star from it.
func (g *Generator) Generate() (Star, error) {
	props, err := g.formula.Derive(MainSequence, g.imf.Sample(g.rng))
	if err != nil {
		return Star{}, err
	}
	return FromProperties(props)
}

// FromProperties attaches the derived id to p.
func FromProperties(p Properties) (Star, error) {
	id, err := p.ID()
	if err != nil {
		return Star{}, err
	}
	return Star{ID: id, Properties: p}, nil
}
