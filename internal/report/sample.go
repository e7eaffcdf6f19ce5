// Package report writes comparison and verification results for audit.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/genomeval/rgcheck/internal/matchfile"
)

// baseColumns is the matcher output schema in file order.
var baseColumns = []string{
	"Region", "Midpoint", "Gene", "Transcript", "ExonIntron",
	"Area", "Distance", "TSSDistance", "PercRegion", "PercArea",
}

// WriteSample writes sampled records as tab-separated rows with a header,
// the record schema plus the derived Key column. The export is what later
// feeds the geometric verifier, so missing distances stay empty rather than
// being flattened to 0.
func WriteSample(w io.Writer, records []*matchfile.Record) error {
	bw := bufio.NewWriter(w)

	metaWidth := 0
	for _, rec := range records {
		if len(rec.Meta) > metaWidth {
			metaWidth = len(rec.Meta)
		}
	}

	cols := append([]string(nil), baseColumns...)
	for i := 0; i < metaWidth; i++ {
		cols = append(cols, fmt.Sprintf("Col%d", len(baseColumns)+i+1))
	}
	cols = append(cols, "Key")

	if _, err := fmt.Fprintln(bw, strings.Join(cols, "\t")); err != nil {
		return err
	}

	for _, rec := range records {
		fields := []string{
			rec.Region,
			fmt.Sprintf("%d", rec.Midpoint),
			rec.Gene,
			rec.Transcript,
			rec.ExonIntron,
			rec.Area,
			formatDistance(rec),
			fmt.Sprintf("%d", rec.TSSDistance),
			fmt.Sprintf("%.2f", rec.PercRegion),
			fmt.Sprintf("%.2f", rec.PercArea),
		}
		for i := 0; i < metaWidth; i++ {
			if i < len(rec.Meta) {
				fields = append(fields, rec.Meta[i])
			} else {
				fields = append(fields, "")
			}
		}
		fields = append(fields, rec.Key())

		if _, err := fmt.Fprintln(bw, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteSampleFile writes a sample export to path.
func WriteSampleFile(path string, records []*matchfile.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sample file: %w", err)
	}
	if err := WriteSample(f, records); err != nil {
		f.Close()
		return fmt.Errorf("write sample file %s: %w", path, err)
	}
	return f.Close()
}

func formatDistance(rec *matchfile.Record) string {
	if rec.DistanceMissing {
		return ""
	}
	return fmt.Sprintf("%d", rec.Distance)
}
