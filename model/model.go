// Package model provides the conditional probability tables of the
// heredity network: the unconditional gene copy prior, the trait
// emission table and the mutation rate.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/carbocation/pfx"
	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

// NCopies is the number of possible gene copy counts (0, 1 and 2).
const NCopies = 3

// sumTolerance is the maximum deviation of a distribution sum from 1.
const sumTolerance = 1e-9

// ErrInvalidModel is returned when probability tables are malformed.
var ErrInvalidModel = errors.New("invalid probability model")

// Model stores the probability tables. Trait rows are indexed by the
// number of gene copies, columns by trait absence (0) and presence
// (1). A Model is passed by value and never modified by inference.
type Model struct {
	// Gene is the unconditional probability of 0, 1 and 2 copies.
	Gene [NCopies]float64 `json:"gene"`
	// Trait is P(trait | copies).
	Trait [NCopies][2]float64 `json:"trait"`
	// Mutation is the probability that a transmitted allele flips.
	Mutation float64 `json:"mutation"`
}

// Default returns the reference model.
func Default() Model {
	return Model{
		Gene: [NCopies]float64{0.96, 0.03, 0.01},
		Trait: [NCopies][2]float64{
			{0.99, 0.01},
			{0.44, 0.56},
			{0.35, 0.65},
		},
		Mutation: 0.01,
	}
}

// probability checks that p is a probability.
func probability(p float64) bool {
	return p >= 0 && p <= 1 && !math.IsNaN(p)
}

// distribution checks that all values are probabilities summing to one.
func distribution(name string, d []float64) error {
	for i, p := range d {
		if !probability(p) {
			return fmt.Errorf("%w: %s[%d]=%v is not a probability", ErrInvalidModel, name, i, p)
		}
	}
	if s := floats.Sum(d); math.Abs(s-1) > sumTolerance {
		return fmt.Errorf("%w: %s sums to %v", ErrInvalidModel, name, s)
	}
	return nil
}

// Validate checks the probability tables.
func (m Model) Validate() error {
	if err := distribution("gene", m.Gene[:]); err != nil {
		return err
	}
	for c := range m.Trait {
		if err := distribution(fmt.Sprintf("trait[%d]", c), m.Trait[c][:]); err != nil {
			return err
		}
	}
	if !probability(m.Mutation) {
		return fmt.Errorf("%w: mutation=%v is not a probability", ErrInvalidModel, m.Mutation)
	}
	return nil
}

// Transmit returns the probability that a parent with the given
// number of copies passes the variant allele to a child. A parent
// with a single copy passes it with probability 0.5 regardless of
// the mutation rate.
func (m Model) Transmit(copies int) float64 {
	switch copies {
	case 0:
		return m.Mutation
	case 1:
		return 0.5
	case 2:
		return 1 - m.Mutation
	}
	panic(fmt.Sprintf("incorrect number of copies: %d", copies))
}

// Child returns the distribution of the child copy number given
// copy numbers of the mother and the father.
func (m Model) Child(mother, father int) (res [NCopies]float64) {
	pm := m.Transmit(mother)
	pf := m.Transmit(father)
	res[0] = (1 - pm) * (1 - pf)
	res[1] = pm*(1-pf) + pf*(1-pm)
	res[2] = pm * pf
	return
}

// Emission returns P(trait | copies).
func (m Model) Emission(copies int, trait bool) float64 {
	if trait {
		return m.Trait[copies][1]
	}
	return m.Trait[copies][0]
}

// TraitPrior returns the trait distribution of an individual without
// known ancestry: the gene prior times the emission matrix.
func (m Model) TraitPrior() (res [2]float64) {
	gene := m.Gene
	prior := mat64.NewDense(1, NCopies, gene[:])
	emission := mat64.NewDense(NCopies, 2, nil)
	for c := range m.Trait {
		emission.Set(c, 0, m.Trait[c][0])
		emission.Set(c, 1, m.Trait[c][1])
	}
	var mix mat64.Dense
	mix.Mul(prior, emission)
	res[0] = mix.At(0, 0)
	res[1] = mix.At(0, 1)
	return
}

// String returns a short model description.
func (m Model) String() string {
	return fmt.Sprintf("gene=%v trait=%v mutation=%v", m.Gene, m.Trait, m.Mutation)
}

// Read decodes a JSON model. Keys missing in the document keep their
// default values. The result is validated.
func Read(rd io.Reader) (Model, error) {
	m := Default()
	dec := json.NewDecoder(rd)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return Model{}, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if err := m.Validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// ReadFile reads a JSON model from a file.
func ReadFile(fn string) (Model, error) {
	f, err := os.Open(fn)
	if err != nil {
		return Model{}, pfx.Err(err)
	}
	defer f.Close()
	return Read(f)
}
