package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/genomeval/rgcheck/internal/diff"
	"github.com/genomeval/rgcheck/internal/verify"
)

// WriteComparison writes a human-readable report of one comparison:
// aggregate counts, the top genes dominating the candidate-only partition,
// and any ambiguous keys.
func WriteComparison(w io.Writer, r *diff.Result, topGenes int) error {
	fmt.Fprintf(w, "=== %s ===\n", r.Label)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Candidate total:\t%d\n", r.TotalLeft)
	fmt.Fprintf(tw, "  Golden total:\t%d\n", r.TotalRight)
	fmt.Fprintf(tw, "  Candidate-only:\t%d\n", r.ExclusiveLeft())
	fmt.Fprintf(tw, "  Golden-only:\t%d\n", r.ExclusiveRight())
	fmt.Fprintf(tw, "  Common:\t%d\n", r.CommonCount())
	if err := tw.Flush(); err != nil {
		return err
	}

	if r.HasAmbiguousKeys() {
		fmt.Fprintf(w, "\n  Ambiguous keys (duplicated within one output):\n")
		for _, key := range r.AmbiguousLeft {
			fmt.Fprintf(w, "    candidate: %s\n", key)
		}
		for _, key := range r.AmbiguousRight {
			fmt.Fprintf(w, "    golden:    %s\n", key)
		}
	}

	if genes := r.TopGenes(topGenes); len(genes) > 0 {
		fmt.Fprintf(w, "\n  Top %d genes in candidate-only matches:\n", len(genes))
		for _, gc := range genes {
			fmt.Fprintf(w, "    %s: %d lines\n", gc.Gene, gc.Count)
		}
	}

	return nil
}

// WriteVerdict writes one verification verdict in the per-sample format.
func WriteVerdict(w io.Writer, i int, v *verify.Verdict) {
	fmt.Fprintf(w, "Sample %d: %s\n", i+1, v.Record.Region)

	if v.Outcome == verify.GeneNotFound {
		fmt.Fprintf(w, "  Gene: %s - GENE NOT FOUND\n\n", v.Record.Gene)
		return
	}

	fmt.Fprintf(w, "  Gene: %s (%d-%d, strand=%s)\n",
		v.Record.Gene, v.Gene.Start, v.Gene.End, v.Gene.StrandSymbol())
	fmt.Fprintf(w, "  Area: %s, Distance: %d\n", v.Record.Area, v.Record.Distance)
	if v.ComputedDistance != verify.DistanceNA {
		fmt.Fprintf(w, "  Computed distance: %d (within tolerance: %v)\n",
			v.ComputedDistance, v.WithinTolerance)
	}
	if v.Note != "" {
		fmt.Fprintf(w, "  Note: %s\n", v.Note)
	}
	fmt.Fprintf(w, "  Verdict: %s\n\n", v.Outcome)
}

// WriteVerificationSummary writes the aggregate tally and the three-way
// conclusion for a verification run.
func WriteVerificationSummary(w io.Writer, tally *verify.Tally) {
	fmt.Fprintf(w, "=== SUMMARY ===\n")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Valid:\t%d/%d\n", tally.Valid, tally.Judged())
	fmt.Fprintf(tw, "  Invalid:\t%d\n", tally.Invalid)
	fmt.Fprintf(tw, "  Gene not found:\t%d\n", tally.NotFound)
	fmt.Fprintf(tw, "  Anomalous:\t%d\n", tally.Anomalous)
	tw.Flush()

	switch tally.Conclude() {
	case verify.AllValid:
		fmt.Fprintf(w, "\nCONCLUSION: All samples VALID - the candidate is finding correct matches the golden output missed.\n")
		fmt.Fprintf(w, "RECOMMENDATION: Update the golden output to match the candidate.\n")
	case verify.NoneValid:
		fmt.Fprintf(w, "\nCONCLUSION: All samples INVALID - the candidate has a systematic defect.\n")
		fmt.Fprintf(w, "RECOMMENDATION: Re-examine the candidate matcher before adopting its output.\n")
	default:
		fmt.Fprintf(w, "\nCONCLUSION: Mixed results (%d/%d valid) - deeper investigation needed.\n",
			tally.Valid, tally.Judged())
	}
}
