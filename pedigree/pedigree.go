// Package pedigree stores individuals of a family together with
// their parents and observed traits.
package pedigree

import (
	"errors"
	"fmt"
	"strings"
)

// Trait is an observed trait state.
type Trait int

// Trait states.
const (
	// Unknown means the trait was not observed.
	Unknown Trait = iota
	// Absent means the individual doesn't express the trait.
	Absent
	// Present means the individual expresses the trait.
	Present
)

// Trait markers used in the input tables.
const (
	markerPresent = "1"
	markerAbsent  = "0"
)

var (
	// ErrMalformed is returned for an invalid input record.
	ErrMalformed = errors.New("malformed pedigree record")
	// ErrEmpty is returned for a pedigree without individuals.
	ErrEmpty = errors.New("empty pedigree")
)

// ParseTrait converts a trait marker to a Trait.
func ParseTrait(s string) (Trait, error) {
	switch strings.TrimSpace(s) {
	case markerPresent:
		return Present, nil
	case markerAbsent:
		return Absent, nil
	case "":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("unknown trait marker %q", s)
}

// Known returns true if the trait was observed.
func (t Trait) Known() bool {
	return t != Unknown
}

// Marker returns the input table marker for the trait.
func (t Trait) Marker() string {
	switch t {
	case Present:
		return markerPresent
	case Absent:
		return markerAbsent
	}
	return ""
}

func (t Trait) String() string {
	switch t {
	case Present:
		return "present"
	case Absent:
		return "absent"
	}
	return "unknown"
}

// Person is a single individual.
type Person struct {
	// ID is the position of the person in the pedigree.
	ID     int
	Name   string
	Mother string
	Father string
	Trait  Trait

	mother int
	father int
}

// IsFounder returns true if the parents are not in the pedigree.
func (p *Person) IsFounder() bool {
	return p.mother < 0
}

// Record is a single row of the input table. Empty Mother and Father
// mean no recorded parents, Trait is "1", "0" or empty.
type Record struct {
	Name   string `json:"name"`
	Mother string `json:"mother,omitempty"`
	Father string `json:"father,omitempty"`
	Trait  string `json:"trait,omitempty"`
}

// Pedigree is an immutable collection of individuals.
type Pedigree struct {
	people []*Person
	byName map[string]*Person
	order  []int
}

// malformed creates a record error.
func malformed(i int, name, format string, args ...interface{}) error {
	return fmt.Errorf("record %d (%q): %w: %s", i+1, name, ErrMalformed, fmt.Sprintf(format, args...))
}

// New validates records and creates a pedigree.
func New(records []Record) (*Pedigree, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	ped := &Pedigree{
		people: make([]*Person, 0, len(records)),
		byName: make(map[string]*Person, len(records)),
	}

	for i, r := range records {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, malformed(i, name, "empty name")
		}
		if _, ok := ped.byName[name]; ok {
			return nil, malformed(i, name, "duplicate name")
		}
		trait, err := ParseTrait(r.Trait)
		if err != nil {
			return nil, malformed(i, name, "%v", err)
		}
		p := &Person{
			ID:     i,
			Name:   name,
			Mother: strings.TrimSpace(r.Mother),
			Father: strings.TrimSpace(r.Father),
			Trait:  trait,
			mother: -1,
			father: -1,
		}
		ped.people = append(ped.people, p)
		ped.byName[name] = p
	}

	// parents can be listed after their children, resolve them
	// once all the names are known.
	for i, p := range ped.people {
		switch {
		case p.Mother == "" && p.Father == "":
			continue
		case p.Mother == "" || p.Father == "":
			return nil, malformed(i, p.Name, "both parents or none should be given")
		case p.Mother == p.Name || p.Father == p.Name:
			return nil, malformed(i, p.Name, "person is their own parent")
		case p.Mother == p.Father:
			return nil, malformed(i, p.Name, "%q is both mother and father", p.Mother)
		}
		mother, ok := ped.byName[p.Mother]
		if !ok {
			return nil, malformed(i, p.Name, "unknown mother %q", p.Mother)
		}
		father, ok := ped.byName[p.Father]
		if !ok {
			return nil, malformed(i, p.Name, "unknown father %q", p.Father)
		}
		p.mother = mother.ID
		p.father = father.ID
	}

	if err := ped.setOrder(); err != nil {
		return nil, err
	}
	return ped, nil
}

// setOrder computes the order in which all the ancestors of a person
// come before the person. Individuals left out are part of a cycle.
func (ped *Pedigree) setOrder() error {
	n := len(ped.people)
	ped.order = make([]int, 0, n)
	children := make([][]int, n)
	waiting := make([]int, n)
	awaiting := make([]int, 0, n)

	for _, p := range ped.people {
		if p.IsFounder() {
			awaiting = append(awaiting, p.ID)
			continue
		}
		waiting[p.ID] = 2
		children[p.mother] = append(children[p.mother], p.ID)
		children[p.father] = append(children[p.father], p.ID)
	}

	for len(awaiting) > 0 {
		id := awaiting[0]
		awaiting = awaiting[1:]
		ped.order = append(ped.order, id)
		for _, child := range children[id] {
			waiting[child]--
			if waiting[child] == 0 {
				awaiting = append(awaiting, child)
			}
		}
	}

	if len(ped.order) != n {
		for id, w := range waiting {
			if w > 0 {
				return malformed(id, ped.people[id].Name, "person is their own ancestor")
			}
		}
	}
	return nil
}

// Len returns the number of individuals.
func (ped *Pedigree) Len() int {
	return len(ped.people)
}

// Person returns the individual with the given ID.
func (ped *Pedigree) Person(id int) *Person {
	return ped.people[id]
}

// People returns all individuals in the input order. The slice must
// not be modified.
func (ped *Pedigree) People() []*Person {
	return ped.people
}

// Lookup returns an individual by name.
func (ped *Pedigree) Lookup(name string) (*Person, bool) {
	p, ok := ped.byName[name]
	return p, ok
}

// Names returns names in the input order.
func (ped *Pedigree) Names() []string {
	names := make([]string, len(ped.people))
	for i, p := range ped.people {
		names[i] = p.Name
	}
	return names
}

// Parents returns IDs of the mother and the father. ok is false for
// founders.
func (ped *Pedigree) Parents(id int) (mother, father int, ok bool) {
	p := ped.people[id]
	if p.IsFounder() {
		return -1, -1, false
	}
	return p.mother, p.father, true
}

// Observed returns the number of individuals with a known trait.
func (ped *Pedigree) Observed() (n int) {
	for _, p := range ped.people {
		if p.Trait.Known() {
			n++
		}
	}
	return
}

// Order returns IDs so that parents always precede their children.
func (ped *Pedigree) Order() []int {
	return ped.order
}

// Records converts the pedigree back to input records.
func (ped *Pedigree) Records() []Record {
	records := make([]Record, len(ped.people))
	for i, p := range ped.people {
		records[i] = Record{
			Name:   p.Name,
			Mother: p.Mother,
			Father: p.Father,
			Trait:  p.Trait.Marker(),
		}
	}
	return records
}

// String returns a short pedigree description.
func (ped *Pedigree) String() string {
	founders := 0
	for _, p := range ped.people {
		if p.IsFounder() {
			founders++
		}
	}
	return fmt.Sprintf("%d individuals, %d founders, %d observed traits",
		ped.Len(), founders, ped.Observed())
}
