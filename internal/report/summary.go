package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/genomeval/rgcheck/internal/diff"
)

const summaryHeader = "Label\tCandidateTotal\tGoldenTotal\tCandidateOnly\tGoldenOnly\tCommon\tAmbiguous"

// WriteSummary writes one summary row per comparison result.
func WriteSummary(w io.Writer, results []*diff.Result) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, summaryHeader); err != nil {
		return err
	}
	for _, r := range results {
		ambiguous := len(r.AmbiguousLeft) + len(r.AmbiguousRight)
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Label, r.TotalLeft, r.TotalRight,
			r.ExclusiveLeft(), r.ExclusiveRight(), r.CommonCount(), ambiguous); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// AppendSummaryFile appends summary rows to path, writing the header only
// when the file is new or empty. Repeated comparison runs accumulate into
// one summary table.
func AppendSummaryFile(path string, results []*diff.Result) error {
	writeHeader := true
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		writeHeader = false
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open summary file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if writeHeader {
		if _, err := fmt.Fprintln(bw, summaryHeader); err != nil {
			return err
		}
	}
	for _, r := range results {
		ambiguous := len(r.AmbiguousLeft) + len(r.AmbiguousRight)
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Label, r.TotalLeft, r.TotalRight,
			r.ExclusiveLeft(), r.ExclusiveRight(), r.CommonCount(), ambiguous); err != nil {
			return err
		}
	}
	return bw.Flush()
}
