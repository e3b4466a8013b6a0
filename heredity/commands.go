package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"bitbucket.org/Davydov/heredity/fit"
	"bitbucket.org/Davydov/heredity/infer"
	"bitbucket.org/Davydov/heredity/model"
	"bitbucket.org/Davydov/heredity/pedigree"
	"bitbucket.org/Davydov/heredity/report"
	"bitbucket.org/Davydov/heredity/store"
)

// input describes where the pedigree is read from.
type input struct {
	dataF  string
	dbF    string
	family string
}

// output describes where the results are written.
type output struct {
	outF  string
	jsonF string
	plotF string
}

// loadPedigree reads a pedigree either from a CSV file or from the
// database.
func loadPedigree(in input) (*pedigree.Pedigree, error) {
	switch {
	case in.dataF != "" && in.dbF != "":
		return nil, errors.New("either a data file or a database should be given, not both")
	case in.dataF != "":
		log.Infof("Reading pedigree from %s", in.dataF)
		return pedigree.ReadFile(in.dataF)
	case in.dbF != "":
		if in.family == "" {
			return nil, errors.New("family name is required to read from the database")
		}
		s, err := store.Open(in.dbF)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.Load(in.family)
	}
	return nil, errors.New("no pedigree data, specify a data file or a database")
}

// loadModel returns the default model or reads it from a file.
// Negative mutation means the model mutation rate is kept.
func loadModel(fn string, mutation float64) (model.Model, error) {
	m := model.Default()
	if fn != "" {
		var err error
		log.Infof("Reading model from %s", fn)
		m, err = model.ReadFile(fn)
		if err != nil {
			return m, err
		}
	}
	if mutation >= 0 {
		m.Mutation = mutation
		if err := m.Validate(); err != nil {
			return m, err
		}
	}
	log.Infof("Model: %s", m)
	return m, nil
}

// posterior computes posterior probabilities and writes all the
// requested outputs.
func posterior(ped *pedigree.Pedigree, m model.Model, nThreads int, out output, summary *RunSummary) error {
	startTime := time.Now()
	res, err := infer.InferParallel(ped, m, nThreads)
	if err != nil {
		return err
	}

	if out.outF != "" {
		err = writeReport(out.outF, res)
	} else {
		err = report.Write(os.Stdout, res)
	}
	if err != nil {
		return err
	}

	if out.plotF != "" {
		if err := report.Plot(res, out.plotF); err != nil {
			log.Error("Error plotting:", err)
		}
	}

	log.Noticef("lnL=%v", res.LnL())

	summary.Model = m
	summary.TraitPrior = m.TraitPrior()
	summary.LnL = res.LnL()
	summary.Hypotheses = res.Hypotheses
	summary.People = report.People(res)
	summary.Time += time.Since(startTime).Seconds()

	if out.jsonF != "" {
		if err := summary.writeJSON(out.jsonF); err != nil {
			log.Error("Error writing json output:", err)
		}
	}
	return nil
}

// writeReport writes the text report to a file.
func writeReport(fn string, res *infer.Result) error {
	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("error creating report file: %v", err)
	}
	if err := report.Write(f, res); err != nil {
		f.Close()
		return fmt.Errorf("error writing report: %v", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing report file: %v", err)
	}
	return nil
}

// newSummary creates a summary with the run information.
func newSummary() *RunSummary {
	return &RunSummary{
		Version:     version,
		CommandLine: os.Args,
		NThreads:    *nThreads,
	}
}

// runInfer performs the infer command.
func runInfer() error {
	ped, err := loadPedigree(input{*inferDataF, *inferDBF, *inferFamily})
	if err != nil {
		return err
	}
	m, err := loadModel(*modelF, *inferMutation)
	if err != nil {
		return err
	}
	return posterior(ped, m, *nThreads, output{*inferOutF, *inferJSONF, *inferPlotF}, newSummary())
}

// runFit performs the fit command.
func runFit() error {
	ped, err := loadPedigree(input{*fitDataF, *fitDBF, *fitFamily})
	if err != nil {
		return err
	}
	m, err := loadModel(*modelF, -1)
	if err != nil {
		return err
	}

	settings := fit.DefaultSettings()
	settings.Min = *fitMin
	settings.Max = *fitMax
	settings.NWorkers = *nThreads
	settings.Report = *fitReport

	startTime := time.Now()
	fs, err := fit.Mutation(ped, m, settings)
	if err != nil {
		return err
	}
	summary := newSummary()
	summary.Fit = fs
	summary.Time = time.Since(startTime).Seconds()

	if *fitNoFinal {
		summary.Model = fs.Model(m)
		summary.TraitPrior = summary.Model.TraitPrior()
		summary.LnL = fs.MaxLnL
		if *fitJSONF != "" {
			return summary.writeJSON(*fitJSONF)
		}
		return nil
	}
	return posterior(ped, fs.Model(m), *nThreads, output{*fitOutF, *fitJSONF, *fitPlotF}, summary)
}

// runImport stores a pedigree from a CSV file in the database.
func runImport(dbF, family, dataF string) error {
	ped, err := pedigree.ReadFile(dataF)
	if err != nil {
		return err
	}
	s, err := store.Open(dbF)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Save(family, ped); err != nil {
		return err
	}
	log.Noticef("Imported %q: %s", family, ped)
	return nil
}

// runExport prints a stored pedigree as CSV.
func runExport(dbF, family string, w io.Writer) error {
	s, err := store.Open(dbF)
	if err != nil {
		return err
	}
	defer s.Close()
	ped, err := s.Load(family)
	if err != nil {
		return err
	}
	return pedigree.WriteCSV(w, ped.Records())
}

// runFamilies prints all the families in the database.
func runFamilies(dbF string, w io.Writer) error {
	s, err := store.Open(dbF)
	if err != nil {
		return err
	}
	defer s.Close()
	names, err := s.Families()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}

// runDelete removes a family from the database.
func runDelete(dbF, family string) error {
	s, err := store.Open(dbF)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Delete(family)
}
