package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomeval/rgcheck/internal/diff"
	"github.com/genomeval/rgcheck/internal/matchfile"
	"github.com/genomeval/rgcheck/internal/verify"
)

func sampleRecords() []*matchfile.Record {
	return []*matchfile.Record{
		{
			Region: "chr1_100_200", Midpoint: 150, Gene: "ENSG001", Transcript: "ENST001",
			ExonIntron: "1", Area: "UPSTREAM", Distance: 500, TSSDistance: 480,
			PercRegion: 100, PercArea: 2.5, Meta: []string{"0", "1", "2"},
		},
		{
			Region: "chr2_50_80", Midpoint: 65, Gene: "ENSG003", Transcript: "ENST003",
			ExonIntron: "exon1", Area: "FIRST_EXON", TSSDistance: 10,
			PercRegion: 50, PercArea: 1, DistanceMissing: true,
		},
	}
}

func TestWriteSample_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSample(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	header := strings.Split(lines[0], "\t")
	assert.Equal(t, "Region", header[0])
	assert.Equal(t, "Key", header[len(header)-1])
	assert.Contains(t, header, "Col11")
	assert.Contains(t, header, "Col13")

	// The exported rows parse back with the same keys.
	p := matchfile.NewParserFromReader(strings.NewReader(buf.String()))
	p.SetSkipHeader(true)
	records, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "chr1_100_200_ENSG001_ENST001_UPSTREAM", records[0].Key())

	// Missing distances survive the round trip as missing, not as 0.
	assert.True(t, records[1].DistanceMissing)
}

func TestWriteSampleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.tsv")
	require.NoError(t, WriteSampleFile(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "chr1_100_200")
}

func compareResult(t *testing.T) *diff.Result {
	t.Helper()
	left := []*matchfile.Record{
		{Region: "chr1_1_2", Gene: "G1", Transcript: "T1", Area: "UPSTREAM"},
		{Region: "chr1_3_4", Gene: "G1", Transcript: "T2", Area: "INTRON"},
		{Region: "chr1_5_6", Gene: "G2", Transcript: "T3", Area: "TSS"},
	}
	right := []*matchfile.Record{
		{Region: "chr1_5_6", Gene: "G2", Transcript: "T3", Area: "TSS"},
	}
	return diff.Compare(left, right, "unit")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, []*diff.Result{compareResult(t)}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, summaryHeader, lines[0])
	assert.Equal(t, "unit\t3\t1\t2\t0\t1\t0", lines[1])
}

func TestAppendSummaryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.tsv")
	r := compareResult(t)

	require.NoError(t, AppendSummaryFile(path, []*diff.Result{r}))
	require.NoError(t, AppendSummaryFile(path, []*diff.Result{r}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Header written once, one row per run.
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, summaryHeader, lines[0])
	assert.Equal(t, lines[1], lines[2])
}

func TestWriteComparison(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, compareResult(t), 10))

	out := buf.String()
	assert.Contains(t, out, "=== unit ===")
	assert.Contains(t, out, "Candidate-only:")
	assert.Contains(t, out, "G1: 2 lines")
}

func TestWriteVerificationSummary_Conclusions(t *testing.T) {
	tests := []struct {
		name  string
		tally *verify.Tally
		want  string
	}{
		{"all valid", &verify.Tally{Valid: 10}, "All samples VALID"},
		{"none valid", &verify.Tally{Invalid: 10}, "systematic defect"},
		{"mixed", &verify.Tally{Valid: 6, Invalid: 4}, "Mixed results (6/10 valid)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			WriteVerificationSummary(&buf, tt.tally)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
