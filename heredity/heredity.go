/*

Heredity computes exact posterior probabilities of gene copy numbers
and trait expression for every individual of a small pedigree.

The pedigree is a CSV table with columns name, mother, father and
trait (1, 0 or empty for unknown):

	heredity infer family.csv

Families can be stored in a database and analysed later:

	heredity import families.db potter family.csv
	heredity infer --db families.db --family potter

The mutation rate can be estimated from the observed traits:

	heredity fit family.csv

To see all the options run:

	heredity --help

*/
package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("heredity")
var formatter = logging.MustStringFormatter(`%{message}`)

// modules are logging modules of all the packages.
var modules = []string{"heredity", "infer", "fit", "store"}

// command-line options
var (
	// application
	app = kingpin.New("heredity", "exact inference of gene copy numbers and traits in a pedigree").Version(version)

	// model
	modelF = app.Flag("model", "JSON file with the probability tables (default model if not given)").ExistingFile()

	// technical
	nThreads   = app.Flag("nt", "number of threads to use").Default("1").Int()
	cpuProfile = app.Flag("cpuprofile", "write cpu profile to file").String()

	// logging
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")

	// infer
	inferCmd      = app.Command("infer", "compute posterior probabilities")
	inferDataF    = inferCmd.Arg("data", "pedigree CSV file").ExistingFile()
	inferDBF      = inferCmd.Flag("db", "read the pedigree from the database").ExistingFile()
	inferFamily   = inferCmd.Flag("family", "family name in the database").String()
	inferOutF     = inferCmd.Flag("out", "write report to a file instead of stdout").String()
	inferJSONF    = inferCmd.Flag("json", "write json output to a file").String()
	inferPlotF    = inferCmd.Flag("plot", "plot copy number posteriors to a file (png, svg or pdf)").String()
	inferMutation = inferCmd.Flag("mutation", "override the mutation rate of the model").Default("-1").Float64()

	// fit
	fitCmd     = app.Command("fit", "estimate the mutation rate and compute posterior probabilities")
	fitDataF   = fitCmd.Arg("data", "pedigree CSV file").ExistingFile()
	fitDBF     = fitCmd.Flag("db", "read the pedigree from the database").ExistingFile()
	fitFamily  = fitCmd.Flag("family", "family name in the database").String()
	fitOutF    = fitCmd.Flag("out", "write report to a file instead of stdout").String()
	fitJSONF   = fitCmd.Flag("json", "write json output to a file").String()
	fitPlotF   = fitCmd.Flag("plot", "plot copy number posteriors to a file (png, svg or pdf)").String()
	fitMin     = fitCmd.Flag("min", "minimum mutation rate").Default("0.000001").Float64()
	fitMax     = fitCmd.Flag("max", "maximum mutation rate").Default("0.5").Float64()
	fitReport  = fitCmd.Flag("report", "report every N iterations").Default("1").Int()
	fitNoFinal = fitCmd.Flag("nofinal", "don't compute posterior probabilities with the fitted model").Bool()

	// database
	importCmd    = app.Command("import", "store a pedigree in the database")
	importDBF    = importCmd.Arg("db", "database file (created if needed)").Required().String()
	importFamily = importCmd.Arg("family", "family name").Required().String()
	importDataF  = importCmd.Arg("data", "pedigree CSV file").Required().ExistingFile()

	exportCmd    = app.Command("export", "print a stored pedigree as CSV")
	exportDBF    = exportCmd.Arg("db", "database file").Required().ExistingFile()
	exportFamily = exportCmd.Arg("family", "family name").Required().String()

	familiesCmd = app.Command("families", "list families in the database")
	familiesDBF = familiesCmd.Arg("db", "database file").Required().ExistingFile()

	deleteCmd    = app.Command("delete", "remove a family from the database")
	deleteDBF    = deleteCmd.Arg("db", "database file").Required().ExistingFile()
	deleteFamily = deleteCmd.Arg("family", "family name").Required().String()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	for _, module := range modules {
		logging.SetLevel(level, module)
	}

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *nThreads < 1 {
		*nThreads = runtime.NumCPU()
	}
	log.Infof("Using threads: %d.", *nThreads)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	startTime := time.Now()

	switch cmd {
	case inferCmd.FullCommand():
		err = runInfer()
	case fitCmd.FullCommand():
		err = runFit()
	case importCmd.FullCommand():
		err = runImport(*importDBF, *importFamily, *importDataF)
	case exportCmd.FullCommand():
		err = runExport(*exportDBF, *exportFamily, os.Stdout)
	case familiesCmd.FullCommand():
		err = runFamilies(*familiesDBF, os.Stdout)
	case deleteCmd.FullCommand():
		err = runDelete(*deleteDBF, *deleteFamily)
	}
	if err != nil {
		// log.Fatal would skip the deferred calls
		log.Error(err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}

	log.Noticef("Running time: %v", time.Since(startTime))
}
