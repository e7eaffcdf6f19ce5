package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/genomeval/rgcheck/internal/gtf"
)

func runConvert(args []string) int {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)

	var (
		gtfPath string
		outPath string
		verbose bool
	)

	fs.StringVar(&gtfPath, "gtf", "", "Input GTF annotation file (optionally gzipped)")
	fs.StringVar(&outPath, "out", "", "Output DuckDB gene table path")
	fs.StringVar(&outPath, "o", "", "Output DuckDB gene table path (shorthand)")
	fs.BoolVar(&verbose, "verbose", false, "Log duplicate gene features")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Build a DuckDB gene coordinate table from a GTF file.

Verification against a GTF re-indexes the file on every run; a converted
gene table is opened directly.

Usage:
  rgcheck convert [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  rgcheck convert --gtf genome.gtf.gz --out genes.duckdb
  rgcheck verify --annotation genes.duckdb --samples sample.tsv
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if gtfPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --gtf is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if outPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --out is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	logger := newLogger(verbose)
	defer logger.Sync()

	idx, err := gtf.LoadGeneIndexWithLogger(gtfPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	fmt.Printf("Indexed %d genes from %s\n", idx.Len(), gtfPath)

	db, err := gtf.OpenDuckDB(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer db.Close()

	if err := db.BuildFromIndex(idx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	count, err := db.GeneCount()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	fmt.Printf("Wrote %d genes to %s\n", count, outPath)

	return ExitSuccess
}
