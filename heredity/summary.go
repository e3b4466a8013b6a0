package main

import (
	"encoding/json"
	"os"

	"bitbucket.org/Davydov/heredity/fit"
	"bitbucket.org/Davydov/heredity/model"
	"bitbucket.org/Davydov/heredity/report"
)

// RunSummary is storing heredity run summary information.
type RunSummary struct {
	// Version stores heredity version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// NThreads is the number of goroutines used for enumeration.
	NThreads int `json:"nThreads"`
	// Model is the model used for the posterior computations.
	Model model.Model `json:"model"`
	// TraitPrior is the trait absence and presence probability of an
	// individual without ancestry.
	TraitPrior [2]float64 `json:"traitPrior"`
	// Fit is the mutation rate estimation result (fit command only).
	Fit *fit.Summary `json:"fit,omitempty"`
	// LnL is the log-probability of the observed traits.
	LnL float64 `json:"lnL"`
	// Hypotheses is the number of evaluated hypotheses.
	Hypotheses int64 `json:"hypotheses"`
	// People stores posterior probabilities of every individual.
	People []report.Person `json:"people,omitempty"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
}

// writeJSON writes the summary to a file.
func (s *RunSummary) writeJSON(fn string) error {
	j, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	log.Debug(string(j))
	return os.WriteFile(fn, append(j, '\n'), 0666)
}
