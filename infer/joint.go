package infer

import (
	"bitbucket.org/Davydov/heredity/model"
	"bitbucket.org/Davydov/heredity/pedigree"
)

// Evaluator computes joint probabilities of hypotheses.
type Evaluator struct {
	model model.Model
	// parents stores mother and father IDs, -1 for founders.
	parents [][2]int
	// order lists ancestors before descendants.
	order []int
	// child[mother][father] is the child copy number distribution.
	child [model.NCopies][model.NCopies][model.NCopies]float64
}

// NewEvaluator creates an Evaluator for a pedigree and a model.
func NewEvaluator(ped *pedigree.Pedigree, m model.Model) *Evaluator {
	ev := &Evaluator{
		model:   m,
		parents: make([][2]int, ped.Len()),
		order:   ped.Order(),
	}
	for id := range ev.parents {
		mother, father, ok := ped.Parents(id)
		if !ok {
			mother, father = -1, -1
		}
		ev.parents[id] = [2]int{mother, father}
	}
	for mother := 0; mother < model.NCopies; mother++ {
		for father := 0; father < model.NCopies; father++ {
			ev.child[mother][father] = m.Child(mother, father)
		}
	}
	return ev
}

// Gene returns the probability of the individual copy number given
// copy numbers of the parents in the hypothesis.
func (ev *Evaluator) Gene(h Hypothesis, id int) float64 {
	c := h.Copies(id)
	par := ev.parents[id]
	if par[0] < 0 {
		return ev.model.Gene[c]
	}
	return ev.child[h.Copies(par[0])][h.Copies(par[1])][c]
}

// Joint returns the probability that every individual has the copy
// number and the trait given by the hypothesis. Factors are
// multiplied in the ancestor-first order.
func (ev *Evaluator) Joint(h Hypothesis) float64 {
	p := 1.0
	for _, id := range ev.order {
		p *= ev.Gene(h, id) * ev.model.Emission(h.Copies(id), h.HasTrait(id))
	}
	return p
}
