package infer

import (
	"errors"
	"math"

	"github.com/gonum/floats"

	"bitbucket.org/Davydov/heredity/model"
)

// ErrNoConsistentEvidence is returned when no hypothesis with a
// positive probability agrees with the observations.
var ErrNoConsistentEvidence = errors.New("no hypothesis is consistent with the evidence")

// Distribution stores the probability of every copy number and of
// trait absence (Trait[0]) and presence (Trait[1]).
type Distribution struct {
	Gene  [model.NCopies]float64
	Trait [2]float64
}

// P returns the probability of the trait state.
func (d Distribution) P(trait bool) float64 {
	if trait {
		return d.Trait[1]
	}
	return d.Trait[0]
}

// Carrier returns the probability of at least one copy.
func (d Distribution) Carrier() float64 {
	return d.Gene[1] + d.Gene[2]
}

// scale divides the values by their sum.
func scale(v []float64) error {
	s := floats.Sum(v)
	if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return ErrNoConsistentEvidence
	}
	floats.Scale(1/s, v)
	return nil
}

// Marginals stores a distribution per individual ID.
type Marginals []Distribution

// NewMarginals creates zero marginals for n individuals.
func NewMarginals(n int) Marginals {
	return make(Marginals, n)
}

// Update adds probability p of the hypothesis to the copy number and
// the trait of every individual.
func (m Marginals) Update(h Hypothesis, p float64) {
	all := Full(len(m))
	h.ZeroGene(all).Each(func(id int) { m[id].Gene[0] += p })
	h.OneGene.Each(func(id int) { m[id].Gene[1] += p })
	h.TwoGenes.Each(func(id int) { m[id].Gene[2] += p })
	h.NoTrait(all).Each(func(id int) { m[id].Trait[0] += p })
	h.HaveTrait.Each(func(id int) { m[id].Trait[1] += p })
}

// Add adds other marginals of the same length.
func (m Marginals) Add(other Marginals) {
	if len(m) != len(other) {
		panic("marginals length mismatch")
	}
	for id := range m {
		floats.Add(m[id].Gene[:], other[id].Gene[:])
		floats.Add(m[id].Trait[:], other[id].Trait[:])
	}
}

// Normalize rescales every distribution to sum to one.
func (m Marginals) Normalize() error {
	for id := range m {
		if err := scale(m[id].Gene[:]); err != nil {
			return err
		}
		if err := scale(m[id].Trait[:]); err != nil {
			return err
		}
	}
	return nil
}
