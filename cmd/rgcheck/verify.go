package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/genomeval/rgcheck/internal/gtf"
	"github.com/genomeval/rgcheck/internal/matchfile"
	"github.com/genomeval/rgcheck/internal/report"
	"github.com/genomeval/rgcheck/internal/verify"
)

func runVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)

	var (
		annotationPath string
		samplesPath    string
		maxDistance    int64
		limit          int
		workers        int
		verbose        bool
	)

	fs.StringVar(&annotationPath, "annotation", "", "Annotation source: GTF file (optionally gzipped) or .duckdb gene table")
	fs.StringVar(&samplesPath, "samples", "", "Sample export file from rgcheck compare")
	fs.Int64Var(&maxDistance, "max-distance", viper.GetInt64("verify.max_distance"), "Maximum distance for a directional match to be valid")
	fs.IntVar(&limit, "limit", 10, "Verify at most this many samples (0 = all)")
	fs.IntVar(&workers, "workers", 1, "Verification workers (0 = number of CPUs)")
	fs.BoolVar(&verbose, "verbose", false, "Log anomalies and duplicate gene features")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Geometrically verify sampled disputed matches against raw annotation
coordinates, then report a three-way conclusion.

Usage:
  rgcheck verify [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  rgcheck verify --annotation genome.gtf.gz --samples analysis/candidate_only_sample_main.tsv
  rgcheck verify --annotation genes.duckdb --samples sample.tsv --limit 0 --workers 0
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if annotationPath == "" || samplesPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --annotation and --samples are required\n\n")
		fs.Usage()
		return ExitUsage
	}

	logger := newLogger(verbose)
	defer logger.Sync()

	samples, err := loadSamples(samplesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	if limit > 0 && len(samples) > limit {
		samples = samples[:limit]
	}

	source, closeSource, err := gtf.OpenGeneSource(annotationPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer closeSource()

	v := verify.New(source)
	v.SetMaxDistance(maxDistance)
	v.SetLogger(logger)

	fmt.Printf("Verifying %d samples...\n\n", len(samples))

	var verdicts []*verify.Verdict
	var tally *verify.Tally
	if workers == 1 {
		verdicts, tally, err = v.VerifyAll(samples)
	} else {
		verdicts, tally, err = v.VerifyAllParallel(samples, workers)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	for i, verdict := range verdicts {
		report.WriteVerdict(os.Stdout, i, verdict)
	}
	report.WriteVerificationSummary(os.Stdout, tally)

	return ExitSuccess
}

// loadSamples reads a sample export file, which carries a header row.
func loadSamples(path string) ([]*matchfile.Record, error) {
	p, err := matchfile.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	p.SetSkipHeader(true)
	return p.ReadAll()
}
