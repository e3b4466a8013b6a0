// Package fit estimates the mutation rate by maximizing the
// probability of the observed traits.
package fit

import (
	"errors"
	"fmt"
	"math"

	lbfgsb "github.com/idavydov/go-lbfgsb"
	"github.com/op/go-logging"

	"bitbucket.org/Davydov/heredity/infer"
	"bitbucket.org/Davydov/heredity/model"
	"bitbucket.org/Davydov/heredity/pedigree"
)

var log = logging.MustGetLogger("fit")

// boundEps keeps the optimizer strictly inside the boundaries, so the
// gradient can be computed.
const boundEps = 1e-5

// Settings stores optimizer settings.
type Settings struct {
	// Min and Max are the mutation rate boundaries.
	Min, Max float64
	// NWorkers is the number of goroutines used for inference.
	NWorkers int
	// DH is the step for the numerical gradient.
	DH float64
	// Report is the reporting period in iterations.
	Report int
}

// DefaultSettings returns the default optimizer settings.
func DefaultSettings() Settings {
	return Settings{
		Min:      1e-6,
		Max:      0.5,
		NWorkers: 1,
		DH:       1e-6,
		Report:   1,
	}
}

// Summary is the optimization result.
type Summary struct {
	// Mutation is the maximum likelihood mutation rate.
	Mutation float64 `json:"mutation"`
	// StartLnL is log-likelihood at the starting point.
	StartLnL float64 `json:"startLnL"`
	// MaxLnL is the maximum log-likelihood.
	MaxLnL float64 `json:"maxLnL"`
	// Calls is the number of likelihood computations.
	Calls int `json:"calls"`
	// ExitStatus is the optimizer exit status.
	ExitStatus string `json:"exitStatus"`
}

// Model returns the base model with the fitted mutation rate.
func (s *Summary) Model(base model.Model) model.Model {
	base.Mutation = s.Mutation
	return base
}

// objective is the negative log-likelihood as a function of the
// mutation rate.
type objective struct {
	ped      *pedigree.Pedigree
	base     model.Model
	settings Settings

	i     int
	calls int
	maxL  float64
	maxM  float64
	grad  []float64
	err   error
}

// lnL computes log-likelihood for the mutation rate.
func (o *objective) lnL(mutation float64) float64 {
	m := o.base
	m.Mutation = mutation
	o.calls++
	res, err := infer.InferParallel(o.ped, m, o.settings.NWorkers)
	if err != nil {
		if !errors.Is(err, infer.ErrNoConsistentEvidence) && o.err == nil {
			o.err = err
		}
		return math.Inf(-1)
	}
	L := res.LnL()
	if L > o.maxL {
		o.maxL = L
		o.maxM = mutation
	}
	return L
}

func (o *objective) inRange(x float64) bool {
	return x >= o.settings.Min && x <= o.settings.Max
}

// Logger reports optimization progress.
func (o *objective) Logger(info *lbfgsb.OptimizationIterationInformation) {
	o.i = info.Iteration
	if o.settings.Report > 0 && o.i%o.settings.Report == 0 {
		log.Infof("%d\t%f\t%v", o.i, -info.F, info.X[0])
	}
}

// EvaluateFunction returns the negative log-likelihood.
func (o *objective) EvaluateFunction(x []float64) float64 {
	if !o.inRange(x[0]) {
		return math.Inf(+1)
	}
	return -o.lnL(x[0])
}

// EvaluateGradient returns the central difference gradient.
func (o *objective) EvaluateGradient(x []float64) []float64 {
	if o.grad == nil {
		o.grad = make([]float64, len(x))
	}
	lo := math.Max(x[0]-o.settings.DH, 0)
	hi := math.Min(x[0]+o.settings.DH, 1)
	l1 := -o.lnL(lo)
	l2 := -o.lnL(hi)
	o.grad[0] = (l2 - l1) / (hi - lo)
	return o.grad
}

// Mutation finds the maximum likelihood mutation rate starting from
// the mutation rate of the base model.
func Mutation(ped *pedigree.Pedigree, base model.Model, settings Settings) (*Summary, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if settings.Min < 0 || settings.Max > 1 || settings.Max-settings.Min <= 2*boundEps {
		return nil, fmt.Errorf("incorrect mutation rate boundaries: [%v, %v]", settings.Min, settings.Max)
	}
	lower := settings.Min + boundEps
	upper := settings.Max - boundEps
	start := math.Min(math.Max(base.Mutation, lower), upper)

	o := &objective{
		ped:      ped,
		base:     base,
		settings: settings,
		maxL:     math.Inf(-1),
	}
	summary := &Summary{
		Mutation: start,
		StartLnL: o.lnL(start),
	}
	if o.err != nil {
		return nil, o.err
	}
	if math.IsInf(summary.StartLnL, -1) {
		return nil, infer.ErrNoConsistentEvidence
	}
	summary.MaxLnL = summary.StartLnL

	if ped.Observed() == 0 {
		log.Warning("No observed traits, the likelihood doesn't depend on the mutation rate")
		summary.Calls = o.calls
		summary.ExitStatus = "not optimized"
		return summary, nil
	}

	log.Infof("Starting mutation rate: %v, lnL=%v", start, summary.StartLnL)
	log.Info("iteration\tlikelihood\tmutation")

	opt := new(lbfgsb.Lbfgsb)
	opt.SetApproximationSize(10)
	opt.SetFTolerance(1e-9)
	opt.SetGTolerance(1e-9)
	opt.SetBounds([][2]float64{{lower, upper}})
	opt.SetLogger(o.Logger)

	_, exitStatus := opt.Minimize(o, []float64{start})
	if o.err != nil {
		return nil, o.err
	}
	log.Info("Exit status: ", exitStatus)

	summary.Mutation = o.maxM
	summary.MaxLnL = o.maxL
	summary.Calls = o.calls
	summary.ExitStatus = fmt.Sprint(exitStatus)

	log.Noticef("Maximum likelihood mutation rate: %v, lnL=%v (%d likelihood calls)",
		summary.Mutation, summary.MaxLnL, summary.Calls)
	return summary, nil
}
