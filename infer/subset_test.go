package infer

import (
	"reflect"
	"testing"
)

func TestPowerset(tst *testing.T) {
	for n := 0; n <= 10; n++ {
		s := Full(n)
		ps := Powerset(s)
		if len(ps) != 1<<uint(n) {
			tst.Fatalf("n=%d: expected %d subsets, got %d", n, 1<<uint(n), len(ps))
		}
		if ps[0] != 0 {
			tst.Errorf("n=%d: first subset is not empty: %v", n, ps[0])
		}
		if ps[len(ps)-1] != s {
			tst.Errorf("n=%d: last subset is not full: %v", n, ps[len(ps)-1])
		}
		seen := make(map[Set]bool, len(ps))
		for _, sub := range ps {
			if seen[sub] {
				tst.Errorf("n=%d: duplicate subset %v", n, sub)
			}
			if sub.Minus(s) != 0 {
				tst.Errorf("n=%d: %v is not a subset of %v", n, sub, s)
			}
			seen[sub] = true
		}
	}
}

func TestPowersetSparse(tst *testing.T) {
	s := Of(1, 4, 6)
	ps := Powerset(s)
	exp := []Set{0, Of(1), Of(4), Of(1, 4), Of(6), Of(1, 6), Of(4, 6), Of(1, 4, 6)}
	if !reflect.DeepEqual(ps, exp) {
		tst.Error("Expected", exp, "got", ps)
	}
}

func TestSet(tst *testing.T) {
	s := Of(0, 3, 5)
	if !s.Has(3) || s.Has(2) || s.Len() != 3 {
		tst.Error("Wrong set:", s)
	}
	if !reflect.DeepEqual(s.IDs(), []int{0, 3, 5}) {
		tst.Error("Wrong IDs:", s.IDs())
	}
	if s.Minus(Of(3)) != Of(0, 5) {
		tst.Error("Wrong difference:", s.Minus(Of(3)))
	}
	var each []int
	s.Each(func(id int) {
		each = append(each, id)
	})
	if !reflect.DeepEqual(each, []int{0, 3, 5}) {
		tst.Error("Wrong Each order:", each)
	}
	if s.String() != "{0,3,5}" {
		tst.Error("Wrong string:", s)
	}
	if Full(MaxPeople).Len() != MaxPeople {
		tst.Error("Wrong full set length:", Full(MaxPeople).Len())
	}
}
