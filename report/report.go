// Package report formats posterior distributions.
package report

import (
	"bufio"
	"io"
	"strconv"

	"bitbucket.org/Davydov/heredity/infer"
)

// Precision is the number of decimals in the text report.
const Precision = 4

// format formats a probability.
func format(p float64) string {
	return strconv.FormatFloat(p, 'f', Precision, 64)
}

// Write prints posterior distributions of every individual. Copy
// numbers are listed from two to zero and the trait presence before
// the absence.
func Write(w io.Writer, res *infer.Result) error {
	bw := bufio.NewWriter(w)
	for id, name := range res.Names {
		d := res.Marginals[id]
		bw.WriteString(name + ":\n")
		bw.WriteString("  Gene:\n")
		for c := len(d.Gene) - 1; c >= 0; c-- {
			bw.WriteString("    " + strconv.Itoa(c) + ": " + format(d.Gene[c]) + "\n")
		}
		bw.WriteString("  Trait:\n")
		bw.WriteString("    True: " + format(d.P(true)) + "\n")
		bw.WriteString("    False: " + format(d.P(false)) + "\n")
	}
	return bw.Flush()
}

// Person is a posterior summary of a single individual.
type Person struct {
	Name string `json:"name"`
	// Gene is the probability of 0, 1 and 2 gene copies.
	Gene []float64 `json:"gene"`
	// Trait is the probability of the trait presence.
	Trait float64 `json:"trait"`
}

// People converts a result to a list of individual summaries.
func People(res *infer.Result) []Person {
	people := make([]Person, len(res.Names))
	for id, name := range res.Names {
		d := res.Marginals[id]
		people[id] = Person{
			Name:  name,
			Gene:  append([]float64(nil), d.Gene[:]...),
			Trait: d.P(true),
		}
	}
	return people
}
