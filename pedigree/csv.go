package pedigree

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/carbocation/pfx"
)

// Column names of the input table.
const (
	ColName   = "name"
	ColMother = "mother"
	ColFather = "father"
	ColTrait  = "trait"
)

var columns = []string{ColName, ColMother, ColFather, ColTrait}

// ReadCSV reads records from a comma separated table with a header.
// Columns are located by the header names, their order is not
// important and extra columns are ignored.
func ReadCSV(rd io.Reader) ([]Record, error) {
	r := csv.NewReader(rd)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}

	pos := make(map[string]int, len(columns))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range columns {
		if _, ok := pos[c]; !ok {
			return nil, fmt.Errorf("%w: no %q column in the header", ErrMalformed, c)
		}
	}

	records := make([]Record, 0, 10)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, Record{
			Name:   row[pos[ColName]],
			Mother: row[pos[ColMother]],
			Father: row[pos[ColFather]],
			Trait:  row[pos[ColTrait]],
		})
	}
	return records, nil
}

// Parse reads a table and creates a pedigree.
func Parse(rd io.Reader) (*Pedigree, error) {
	records, err := ReadCSV(rd)
	if err != nil {
		return nil, err
	}
	return New(records)
}

// ReadFile reads a pedigree from a CSV file.
func ReadFile(fn string) (*Pedigree, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	ped, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return ped, nil
}

// WriteCSV writes records as a table readable by ReadCSV.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Name, r.Mother, r.Father, r.Trait}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
