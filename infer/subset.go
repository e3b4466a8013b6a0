package infer

import (
	"math/bits"
	"strconv"
	"strings"
)

// Set is a set of individual IDs stored as a bit mask.
type Set uint64

// Of creates a set from IDs.
func Of(ids ...int) (s Set) {
	for _, id := range ids {
		s = s.Add(id)
	}
	return
}

// Full returns the set of IDs 0..n-1.
func Full(n int) Set {
	return Set(1)<<uint(n) - 1
}

// Has returns true if id is in the set.
func (s Set) Has(id int) bool {
	return s&(1<<uint(id)) != 0
}

// Add returns the set with id added.
func (s Set) Add(id int) Set {
	return s | 1<<uint(id)
}

// Minus returns elements of s which are not in o.
func (s Set) Minus(o Set) Set {
	return s &^ o
}

// Len returns the number of elements.
func (s Set) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Each calls fn for every element in increasing order.
func (s Set) Each(fn func(id int)) {
	for v := uint64(s); v != 0; v &= v - 1 {
		fn(bits.TrailingZeros64(v))
	}
}

// IDs returns elements in increasing order.
func (s Set) IDs() []int {
	ids := make([]int, 0, s.Len())
	s.Each(func(id int) {
		ids = append(ids, id)
	})
	return ids
}

func (s Set) String() string {
	ids := s.IDs()
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = strconv.Itoa(id)
	}
	return "{" + strings.Join(strs, ",") + "}"
}

// Subsets calls fn for every subset of s, starting with the empty
// set and finishing with s itself.
func Subsets(s Set, fn func(Set)) {
	sub := Set(0)
	for {
		fn(sub)
		if sub == s {
			return
		}
		// next subset in the increasing order
		sub = (sub - s) & s
	}
}

// Powerset returns all 2^n subsets of s in the order of Subsets.
func Powerset(s Set) []Set {
	res := make([]Set, 0, 1<<uint(s.Len()))
	Subsets(s, func(sub Set) {
		res = append(res, sub)
	})
	return res
}
