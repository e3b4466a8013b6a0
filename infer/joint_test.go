package infer

import (
	"testing"

	"bitbucket.org/Davydov/heredity/model"
)

func TestJoint(tst *testing.T) {
	ped := parse(tst, family0)
	ev := NewEvaluator(ped, model.Default())
	harry, _ := ped.Lookup("Harry")
	james, _ := ped.Lookup("James")

	h := Hypothesis{
		OneGene:   Of(harry.ID),
		TwoGenes:  Of(james.ID),
		HaveTrait: Of(james.ID),
	}
	// Harry: 0.9802 * 0.44, James: 0.01 * 0.65, Lily: 0.96 * 0.99
	p := ev.Joint(h)
	tst.Log("p =", p)
	if !appreq(p, 0.0026643247488, 1e-12) {
		tst.Error("Expected 0.0026643247488, got", p)
	}
}

func TestJointOrder(tst *testing.T) {
	// children listed before the parents
	ped := parse(tst, family0)
	ev := NewEvaluator(ped, model.Default())
	harry, _ := ped.Lookup("Harry")
	pos := make(map[int]int)
	for i, id := range ev.order {
		pos[id] = i
	}
	if len(ev.order) != ped.Len() {
		tst.Fatal("Wrong evaluation order:", ev.order)
	}
	m, f, _ := ped.Parents(harry.ID)
	if pos[harry.ID] < pos[m] || pos[harry.ID] < pos[f] {
		tst.Error("Harry is evaluated before the parents:", ev.order)
	}
}

func TestJointRange(tst *testing.T) {
	ped := parse(tst, family2)
	ev := NewEvaluator(ped, model.Default())
	n := 0
	NewEnumerator(ped).Each(func(h Hypothesis) {
		p := ev.Joint(h)
		if !(p > 0 && p <= 1) {
			tst.Errorf("%v: p=%v", h, p)
		}
		n++
	})
	tst.Log("hypotheses:", n)
}

func TestHypothesis(tst *testing.T) {
	all := Full(4)
	h := Hypothesis{OneGene: Of(0), TwoGenes: Of(2), HaveTrait: Of(2, 3)}
	if h.Copies(0) != 1 || h.Copies(1) != 0 || h.Copies(2) != 2 {
		tst.Error("Wrong copies")
	}
	if h.ZeroGene(all) != Of(1, 3) {
		tst.Error("Wrong zero gene set:", h.ZeroGene(all))
	}
	if h.NoTrait(all) != Of(0, 1) {
		tst.Error("Wrong no trait set:", h.NoTrait(all))
	}
}

func TestEnumerator(tst *testing.T) {
	ped := parse(tst, family0)
	e := NewEnumerator(ped)
	harry, _ := ped.Lookup("Harry")
	james, _ := ped.Lookup("James")
	lily, _ := ped.Lookup("Lily")

	if e.Consistent(Of(lily.ID)) || e.Consistent(0) || !e.Consistent(Of(james.ID)) {
		tst.Error("Wrong evidence filter")
	}
	traits := e.TraitSets()
	if len(traits) != 2 {
		tst.Fatal("Expected 2 trait sets, got", traits)
	}
	if traits[0] != Of(james.ID) || traits[1] != Of(james.ID, harry.ID) {
		tst.Error("Wrong trait sets order:", traits)
	}
	for _, t := range traits {
		if !t.Has(james.ID) || t.Has(lily.ID) {
			tst.Error("Inconsistent trait set:", t)
		}
	}

	seen := make(map[Hypothesis]bool)
	e.Each(func(h Hypothesis) {
		if seen[h] {
			tst.Error("Duplicate hypothesis:", h)
		}
		if h.OneGene&h.TwoGenes != 0 {
			tst.Error("Overlapping gene sets:", h)
		}
		if !e.Consistent(h.HaveTrait) {
			tst.Error("Inconsistent hypothesis:", h)
		}
		seen[h] = true
	})
	if len(seen) != 54 {
		tst.Error("Expected 54 hypotheses, got", len(seen))
	}
}

func TestMarginals(tst *testing.T) {
	m := NewMarginals(2)
	m.Update(Hypothesis{OneGene: Of(0), HaveTrait: Of(1)}, 0.2)
	m.Update(Hypothesis{TwoGenes: Of(0, 1)}, 0.6)
	if m[0].Gene != [3]float64{0, 0.2, 0.6} || m[1].Trait != [2]float64{0.6, 0.2} {
		tst.Error("Wrong accumulation:", m)
	}

	other := NewMarginals(2)
	other.Update(Hypothesis{}, 0.2)
	m.Add(other)
	if err := m.Normalize(); err != nil {
		tst.Fatal("Error normalizing:", err)
	}
	if !appreq(m[0].Gene[0], 0.2, smallDiff) || !appreq(m[0].Gene[2], 0.6, smallDiff) {
		tst.Error("Wrong normalization:", m[0])
	}

	if err := NewMarginals(1).Normalize(); err != ErrNoConsistentEvidence {
		tst.Error("Expected no consistent evidence error, got", err)
	}
}
