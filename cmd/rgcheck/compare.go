package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/genomeval/rgcheck/internal/diff"
	"github.com/genomeval/rgcheck/internal/matchfile"
	"github.com/genomeval/rgcheck/internal/report"
	"github.com/genomeval/rgcheck/internal/sample"
)

func runCompare(args []string) int {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)

	var (
		goldenPath    string
		candidatePath string
		label         string
		outDir        string
		sampleSize    int
		samplePolicy  string
		topGenes      int
		strict        bool
		verbose       bool
	)

	fs.StringVar(&goldenPath, "golden", "", "Golden (reference) matcher output file")
	fs.StringVar(&candidatePath, "candidate", "", "Candidate matcher output file")
	fs.StringVar(&label, "label", "main", "Label identifying this comparison run")
	fs.StringVar(&outDir, "out-dir", "analysis", "Directory for sample and summary exports")
	fs.IntVar(&sampleSize, "sample-size", viper.GetInt("compare.sample_size"), "Maximum records to sample for audit")
	fs.StringVar(&samplePolicy, "sample-policy", viper.GetString("compare.sample_policy"), "Stratification policy: proportional or roundrobin")
	fs.IntVar(&topGenes, "top-genes", viper.GetInt("compare.top_genes"), "Number of dominant genes to report")
	fs.BoolVar(&strict, "strict", false, "Abort on the first malformed row instead of skipping it")
	fs.BoolVar(&verbose, "verbose", false, "Log skipped rows and ambiguous keys")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Diff a candidate matcher output against a golden output by match key,
then export a stratified sample of candidate-only matches for audit.

Usage:
  rgcheck compare [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  rgcheck compare --golden golden_output.txt --candidate candidate_output.txt
  rgcheck compare --golden g.txt --candidate c.txt --label chr21 --sample-size 50
  rgcheck compare --golden g.txt --candidate c.txt --sample-policy roundrobin
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if goldenPath == "" || candidatePath == "" {
		fmt.Fprintf(os.Stderr, "Error: --golden and --candidate are required\n\n")
		fs.Usage()
		return ExitUsage
	}

	policy, err := sample.ParsePolicy(samplePolicy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsage
	}

	logger := newLogger(verbose)
	defer logger.Sync()

	candidate, err := loadRecords(candidatePath, strict, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	golden, err := loadRecords(goldenPath, strict, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	result := diff.CompareWithLogger(candidate, golden, label, logger)

	if err := report.WriteComparison(os.Stdout, result, topGenes); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return ExitError
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		return ExitError
	}

	sampled := sample.Stratified(result.LeftOnlyRecords, sample.ByArea, sampleSize, policy)
	if len(sampled) > 0 {
		samplePath := filepath.Join(outDir, fmt.Sprintf("candidate_only_sample_%s.tsv", label))
		if err := report.WriteSampleFile(samplePath, sampled); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		fmt.Printf("\nSaved %d candidate-only samples to %s\n", len(sampled), samplePath)
	}

	summaryPath := filepath.Join(outDir, "comparison_summary.tsv")
	if err := report.AppendSummaryFile(summaryPath, []*diff.Result{result}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	fmt.Printf("Saved summary to %s\n", summaryPath)

	return ExitSuccess
}

// loadRecords loads one matcher output file with the configured strictness.
func loadRecords(path string, strict bool, logger *zap.Logger) ([]*matchfile.Record, error) {
	p, err := matchfile.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	p.SetStrict(strict)
	p.SetLogger(logger)

	records, err := p.ReadAll()
	if err != nil {
		return nil, err
	}
	if p.Skipped() > 0 {
		logger.Warn("skipped malformed rows", zap.String("path", path), zap.Int("count", p.Skipped()))
	}
	return records, nil
}
