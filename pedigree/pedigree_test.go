package pedigree

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const family0 = `name,mother,father,trait
Harry,Lily,James,
James,,,1
Lily,,,0
`

func TestParse(tst *testing.T) {
	ped, err := Parse(strings.NewReader(family0))
	if err != nil {
		tst.Fatal("Error parsing pedigree:", err)
	}
	tst.Log("Got pedigree:", ped)

	if ped.Len() != 3 {
		tst.Fatal("Expected 3 individuals, got", ped.Len())
	}
	if ped.Observed() != 2 {
		tst.Error("Expected 2 observed traits, got", ped.Observed())
	}

	harry, ok := ped.Lookup("Harry")
	if !ok {
		tst.Fatal("Harry not found")
	}
	if harry.IsFounder() || harry.Trait != Unknown {
		tst.Error("Wrong Harry:", harry)
	}
	mother, father, ok := ped.Parents(harry.ID)
	if !ok || ped.Person(mother).Name != "Lily" || ped.Person(father).Name != "James" {
		tst.Error("Wrong parents of Harry:", mother, father)
	}

	james, _ := ped.Lookup("James")
	if !james.IsFounder() || james.Trait != Present {
		tst.Error("Wrong James:", james)
	}
	if _, _, ok := ped.Parents(james.ID); ok {
		tst.Error("James shouldn't have parents")
	}

	if !reflect.DeepEqual(ped.Names(), []string{"Harry", "James", "Lily"}) {
		tst.Error("Wrong names order:", ped.Names())
	}
}

func TestColumnOrder(tst *testing.T) {
	data := "trait,father,name,extra,mother\n0,,Ann,x,\n,Bob,Cid,y,Ann\n1,,Bob,z,\n"
	ped, err := Parse(strings.NewReader(data))
	if err != nil {
		tst.Fatal("Error parsing pedigree:", err)
	}
	cid, _ := ped.Lookup("Cid")
	if cid.Mother != "Ann" || cid.Father != "Bob" || cid.Trait != Unknown {
		tst.Error("Wrong columns:", cid)
	}
}

func TestOrder(tst *testing.T) {
	// children listed before their parents.
	records := []Record{
		{Name: "c", Mother: "a", Father: "b"},
		{Name: "d", Mother: "c", Father: "e"},
		{Name: "a"},
		{Name: "b"},
		{Name: "e"},
	}
	ped, err := New(records)
	if err != nil {
		tst.Fatal("Error creating pedigree:", err)
	}
	seen := make(map[int]bool)
	for _, id := range ped.Order() {
		if mother, father, ok := ped.Parents(id); ok && (!seen[mother] || !seen[father]) {
			tst.Error("Parent after child:", ped.Person(id).Name)
		}
		seen[id] = true
	}
	if len(ped.Order()) != ped.Len() {
		tst.Error("Incomplete order:", ped.Order())
	}
}

func TestMalformed(tst *testing.T) {
	cases := map[string][]Record{
		"empty name":  {{Name: " "}},
		"duplicate":   {{Name: "a"}, {Name: "a"}},
		"one parent":  {{Name: "a"}, {Name: "b", Mother: "a"}},
		"own parent":  {{Name: "a"}, {Name: "b", Mother: "a", Father: "b"}},
		"same parent": {{Name: "a"}, {Name: "b", Mother: "a", Father: "a"}},
		"unknown":     {{Name: "a"}, {Name: "b", Mother: "a", Father: "c"}},
		"trait":       {{Name: "a", Trait: "yes"}},
		"cycle": {
			{Name: "a"},
			{Name: "b", Mother: "a", Father: "c"},
			{Name: "c", Mother: "a", Father: "b"},
		},
	}
	for name, records := range cases {
		_, err := New(records)
		tst.Log(name, ":", err)
		if !errors.Is(err, ErrMalformed) {
			tst.Errorf("%s: expected malformed record error, got %v", name, err)
		}
	}

	if _, err := New(nil); !errors.Is(err, ErrEmpty) {
		tst.Error("Expected empty pedigree error, got", err)
	}
	if _, err := Parse(strings.NewReader("")); !errors.Is(err, ErrEmpty) {
		tst.Error("Expected empty pedigree error, got", err)
	}
	if _, err := Parse(strings.NewReader("name,mother,trait\na,,\n")); !errors.Is(err, ErrMalformed) {
		tst.Error("Expected missing column error, got", err)
	}
}

func TestWriteCSV(tst *testing.T) {
	ped, err := Parse(strings.NewReader(family0))
	if err != nil {
		tst.Fatal("Error parsing pedigree:", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ped.Records()); err != nil {
		tst.Fatal("Error writing pedigree:", err)
	}
	ped2, err := Parse(&buf)
	if err != nil {
		tst.Fatal("Error parsing written pedigree:", err)
	}
	if !reflect.DeepEqual(ped.Records(), ped2.Records()) {
		tst.Error("Records differ:", ped.Records(), ped2.Records())
	}
}

func TestParseTrait(tst *testing.T) {
	for s, exp := range map[string]Trait{"1": Present, "0": Absent, "": Unknown, " 1 ": Present} {
		t, err := ParseTrait(s)
		if err != nil || t != exp {
			tst.Errorf("ParseTrait(%q) = %v, %v", s, t, err)
		}
	}
	if _, err := ParseTrait("2"); err == nil {
		tst.Error("Expected error for marker 2")
	}
}

func TestHashName(tst *testing.T) {
	data := "name,mother,father,trait\n#1,,,1\nKid,#1,Dad,\nDad,,,0\n"
	ped, err := Parse(strings.NewReader(data))
	if err != nil {
		tst.Fatal("Error parsing pedigree:", err)
	}
	mother, ok := ped.Lookup("#1")
	if !ok || mother.Trait != Present {
		tst.Fatal("Individual #1 wasn't read:", ped.Names())
	}
	kid, _ := ped.Lookup("Kid")
	if m, _, ok := ped.Parents(kid.ID); !ok || m != mother.ID {
		tst.Error("Wrong mother of Kid:", m)
	}
}
