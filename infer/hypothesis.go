package infer

import (
	"fmt"

	"bitbucket.org/Davydov/heredity/pedigree"
)

// Hypothesis is a complete assignment of gene copy numbers and trait
// expression. Individuals in neither OneGene nor TwoGenes have no
// copies; individuals outside of HaveTrait don't express the trait.
type Hypothesis struct {
	OneGene   Set
	TwoGenes  Set
	HaveTrait Set
}

// Copies returns the number of gene copies of an individual.
func (h Hypothesis) Copies(id int) int {
	switch {
	case h.TwoGenes.Has(id):
		return 2
	case h.OneGene.Has(id):
		return 1
	}
	return 0
}

// HasTrait returns true if an individual expresses the trait.
func (h Hypothesis) HasTrait(id int) bool {
	return h.HaveTrait.Has(id)
}

// ZeroGene returns individuals of all without gene copies.
func (h Hypothesis) ZeroGene(all Set) Set {
	return all.Minus(h.OneGene).Minus(h.TwoGenes)
}

// NoTrait returns individuals of all without the trait.
func (h Hypothesis) NoTrait(all Set) Set {
	return all.Minus(h.HaveTrait)
}

func (h Hypothesis) String() string {
	return fmt.Sprintf("one=%v two=%v trait=%v", h.OneGene, h.TwoGenes, h.HaveTrait)
}

// Enumerator generates hypotheses consistent with the observed
// traits of a pedigree.
type Enumerator struct {
	all     Set
	present Set
	absent  Set
}

// NewEnumerator creates an Enumerator for a pedigree.
func NewEnumerator(ped *pedigree.Pedigree) *Enumerator {
	e := &Enumerator{all: Full(ped.Len())}
	for _, p := range ped.People() {
		switch p.Trait {
		case pedigree.Present:
			e.present = e.present.Add(p.ID)
		case pedigree.Absent:
			e.absent = e.absent.Add(p.ID)
		}
	}
	return e
}

// All returns the set of all individuals.
func (e *Enumerator) All() Set {
	return e.all
}

// Consistent returns false if haveTrait contradicts an observation.
func (e *Enumerator) Consistent(haveTrait Set) bool {
	return haveTrait&e.present == e.present && haveTrait&e.absent == 0
}

// TraitSets returns subsets of individuals expressing the trait
// which agree with the observations, in increasing order. Individuals
// observed without the trait are never included.
func (e *Enumerator) TraitSets() []Set {
	res := make([]Set, 0, 1<<uint(e.all.Len()-e.present.Len()-e.absent.Len()))
	for _, haveTrait := range Powerset(e.all.Minus(e.absent)) {
		if e.Consistent(haveTrait) {
			res = append(res, haveTrait)
		}
	}
	return res
}

// EachTwoGenes calls fn for every consistent hypothesis with the given
// set of individuals carrying a single copy. traits should be
// obtained from TraitSets.
func (e *Enumerator) EachTwoGenes(oneGene Set, traits []Set, fn func(Hypothesis)) {
	Subsets(e.all.Minus(oneGene), func(twoGenes Set) {
		for _, haveTrait := range traits {
			fn(Hypothesis{
				OneGene:   oneGene,
				TwoGenes:  twoGenes,
				HaveTrait: haveTrait,
			})
		}
	})
}

// Each calls fn for every hypothesis consistent with the observations.
func (e *Enumerator) Each(fn func(Hypothesis)) {
	traits := e.TraitSets()
	Subsets(e.all, func(oneGene Set) {
		e.EachTwoGenes(oneGene, traits, fn)
	})
}
