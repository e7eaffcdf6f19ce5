// Package main provides the rgcheck command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("rgcheck version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	initConfig()

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "compare":
		return runCompare(args[1:])
	case "verify":
		return runVerify(args[1:])
	case "convert":
		return runConvert(args[1:])
	case "config":
		cfg := newConfigCmd()
		cfg.SetArgs(args[1:])
		if err := cfg.Execute(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		return ExitSuccess
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

// initConfig loads ~/.rgcheck.yaml if present. Config values act as
// defaults for the corresponding flags.
func initConfig() {
	viper.SetConfigName(".rgcheck")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetDefault("compare.sample_size", 20)
	viper.SetDefault("compare.sample_policy", "proportional")
	viper.SetDefault("compare.top_genes", 10)
	viper.SetDefault("verify.max_distance", 10000)

	// Missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// newLogger builds the stderr logger used by the subcommands.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `rgcheck - Region-to-gene match verification toolkit

Usage:
  rgcheck [options] <command> [arguments]

Commands:
  compare     Diff a candidate matcher output against a golden output
  verify      Geometrically verify sampled disputed matches against a GTF
  convert     Build a DuckDB gene table from a GTF for fast verification
  config      Manage rgcheck configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Compare candidate output to the golden output and export a sample
  rgcheck compare --golden golden_output.txt --candidate candidate_output.txt

  # Verify the exported sample against raw GTF coordinates
  rgcheck verify --annotation genome.gtf.gz --samples analysis/candidate_only_sample_main.tsv

  # Precompute a gene coordinate table for repeated verification runs
  rgcheck convert --gtf genome.gtf.gz --out genes.duckdb

For more information on a command, use:
  rgcheck <command> --help
`)
}
