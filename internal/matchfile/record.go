// Package matchfile provides parsing for region-to-gene matcher output files.
package matchfile

import (
	"strings"
)

// Area categories reported by the matcher, in rule priority order.
const (
	AreaTSS        = "TSS"
	AreaFirstExon  = "FIRST_EXON"
	AreaPromoter   = "PROMOTER"
	AreaTTS        = "TTS"
	AreaIntron     = "INTRON"
	AreaGeneBody   = "GENE_BODY"
	AreaUpstream   = "UPSTREAM"
	AreaDownstream = "DOWNSTREAM"
)

// IsDirectional reports whether an area category is validated by a distance
// threshold (UPSTREAM/DOWNSTREAM) rather than by interval overlap.
func IsDirectional(area string) bool {
	return area == AreaUpstream || area == AreaDownstream
}

// Record is one row of matcher output.
type Record struct {
	Region      string // chrom_start_end identifier
	Midpoint    int64
	Gene        string
	Transcript  string
	ExonIntron  string
	Area        string
	Distance    int64
	TSSDistance int64
	PercRegion  float64
	PercArea    float64
	Meta        []string // trailing unlabeled columns, carried verbatim

	// DistanceMissing is set when the Distance field was empty in the
	// source file. The value 0 is then a stand-in, not a measurement.
	DistanceMissing bool
}

// Key returns the composite identity of the region-gene-transcript-area
// assertion this record makes. Two records with the same key are the same
// match regardless of their numeric fields.
func (r *Record) Key() string {
	return strings.Join([]string{r.Region, r.Gene, r.Transcript, r.Area}, "_")
}
