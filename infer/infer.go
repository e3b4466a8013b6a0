// Package infer computes exact posterior distributions of gene copy
// numbers and trait expression in a pedigree.
//
// All the hypotheses (copy number and trait of every individual)
// consistent with the observed traits are enumerated, their joint
// probabilities are summed per individual and normalized. The number
// of hypotheses grows as 3^n*2^u, where n is the number of
// individuals and u is the number of unobserved traits, therefore
// only small pedigrees can be analysed.
package infer

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/heredity/model"
	"bitbucket.org/Davydov/heredity/pedigree"
)

var log = logging.MustGetLogger("infer")

const (
	// MaxPeople is the maximum pedigree size supported by Set.
	MaxPeople = 62
	// slowPeople is the pedigree size after which enumeration
	// takes noticeable time.
	slowPeople = 10
)

// ErrTooLarge is returned for pedigrees which cannot be enumerated.
var ErrTooLarge = errors.New("pedigree is too large")

// Result stores posterior distributions.
type Result struct {
	// Names are individual names, indexed by ID.
	Names []string
	// Marginals are normalized posterior distributions.
	Marginals Marginals
	// Evidence is the total probability of the hypotheses
	// consistent with observations, i.e. the probability of the
	// observed traits.
	Evidence float64
	// Hypotheses is the number of hypotheses evaluated.
	Hypotheses int64
	// Model is the model used for the computations.
	Model model.Model

	index map[string]int
}

// Get returns posterior distributions of an individual.
func (r *Result) Get(name string) (Distribution, bool) {
	id, ok := r.index[name]
	if !ok {
		return Distribution{}, false
	}
	return r.Marginals[id], true
}

// LnL returns log-probability of the observations.
func (r *Result) LnL() float64 {
	return math.Log(r.Evidence)
}

// partial is a result of a single worker.
type partial struct {
	marginals  Marginals
	evidence   float64
	hypotheses int64
}

// add evaluates a hypothesis and accumulates its probability.
func (pt *partial) add(ev *Evaluator, h Hypothesis) {
	p := ev.Joint(h)
	pt.marginals.Update(h, p)
	pt.evidence += p
	pt.hypotheses++
}

// Infer computes posterior distributions using a single thread.
func Infer(ped *pedigree.Pedigree, m model.Model) (*Result, error) {
	return InferParallel(ped, m, 1)
}

// InferParallel computes posterior distributions using nWorkers
// goroutines. Sets of single copy carriers are split between the
// workers, every worker accumulates probabilities separately and the
// results are summed in the worker order, so the result only depends
// on the number of workers.
func InferParallel(ped *pedigree.Pedigree, m model.Model, nWorkers int) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	n := ped.Len()
	if n > MaxPeople {
		return nil, fmt.Errorf("%w: %d individuals, maximum is %d", ErrTooLarge, n, MaxPeople)
	}
	if n > slowPeople {
		log.Warningf("Enumeration for %d individuals can take very long", n)
	}
	if nWorkers < 1 {
		nWorkers = 1
	}

	enum := NewEnumerator(ped)
	ev := NewEvaluator(ped, m)
	traits := enum.TraitSets()
	log.Infof("Pedigree: %s", ped)
	prior := m.TraitPrior()
	log.Infof("Trait prior: absent=%v, present=%v", prior[0], prior[1])
	log.Infof("%d trait sets consistent with the observations", len(traits))

	parts := make([]partial, nWorkers)
	for w := range parts {
		parts[w].marginals = NewMarginals(n)
	}

	if nWorkers == 1 {
		enum.Each(func(h Hypothesis) {
			parts[0].add(ev, h)
		})
	} else {
		var wg sync.WaitGroup
		for w := range parts {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				pt := &parts[w]
				k := 0
				Subsets(enum.All(), func(oneGene Set) {
					if k%nWorkers == w {
						enum.EachTwoGenes(oneGene, traits, func(h Hypothesis) {
							pt.add(ev, h)
						})
					}
					k++
				})
			}(w)
		}
		wg.Wait()
	}

	res := &Result{
		Names:     ped.Names(),
		Marginals: parts[0].marginals,
		Model:     m,
		index:     make(map[string]int, n),
	}
	for w := range parts {
		if w > 0 {
			res.Marginals.Add(parts[w].marginals)
		}
		res.Evidence += parts[w].evidence
		res.Hypotheses += parts[w].hypotheses
	}
	for id, name := range res.Names {
		res.index[name] = id
	}
	log.Infof("Evaluated %d hypotheses, lnL=%v", res.Hypotheses, res.LnL())

	if err := res.Marginals.Normalize(); err != nil {
		return nil, err
	}
	return res, nil
}
