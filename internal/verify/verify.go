// Package verify recomputes the spatial relationship between a region and a
// gene from raw annotation coordinates, judging disputed matcher records.
package verify

import (
	"go.uber.org/zap"

	"github.com/genomeval/rgcheck/internal/gtf"
	"github.com/genomeval/rgcheck/internal/matchfile"
)

// Outcome classifies one verified record.
type Outcome int

const (
	// Valid: the record's spatial claim holds against the raw coordinates.
	Valid Outcome = iota
	// Invalid: the claim does not hold.
	Invalid
	// GeneNotFound: the annotation source has no gene feature for the
	// record's gene. Not an error and not a failed check; tallied apart.
	GeneNotFound
	// Anomalous: a directional record whose region actually overlaps the
	// gene it claims to flank.
	Anomalous
)

func (o Outcome) String() string {
	switch o {
	case Valid:
		return "VALID"
	case Invalid:
		return "INVALID"
	case GeneNotFound:
		return "GENE_NOT_FOUND"
	case Anomalous:
		return "ANOMALOUS"
	}
	return "UNKNOWN"
}

// DistanceNA is the sentinel for distance fields that do not apply to the
// verdict's policy (overlap checks compute no distance).
const DistanceNA int64 = -1

// Verdict is the outcome of independently re-checking one sampled record.
type Verdict struct {
	Record  *matchfile.Record
	Region  matchfile.Region
	Gene    *gtf.Gene // nil when Outcome is GeneNotFound
	Outcome Outcome

	// Directional policy only; DistanceNA otherwise.
	ReportedDistance int64
	ComputedDistance int64
	WithinTolerance  bool

	// Note explains outcomes that need context, e.g. why a record is
	// anomalous. Empty for plain valid/invalid verdicts.
	Note string
}

// Defaults for the verifier's thresholds. MaxDistance mirrors the matcher's
// association distance cutoff; the tolerance absorbs rounding differences
// between the implementations under test.
const (
	DefaultMaxDistance       int64 = 10000
	DefaultDistanceTolerance int64 = 10
)

// Verifier re-checks sampled records against a gene coordinate source.
// The source is read-only, so one Verifier may be shared across goroutines.
type Verifier struct {
	source      gtf.GeneSource
	maxDistance int64
	tolerance   int64
	logger      *zap.Logger
}

// New creates a verifier with default thresholds.
func New(source gtf.GeneSource) *Verifier {
	return &Verifier{
		source:      source,
		maxDistance: DefaultMaxDistance,
		tolerance:   DefaultDistanceTolerance,
		logger:      zap.NewNop(),
	}
}

// SetMaxDistance configures the maximum distance at which a directional
// match is considered valid.
func (v *Verifier) SetMaxDistance(d int64) {
	v.maxDistance = d
}

// SetLogger sets the logger for anomaly warnings.
func (v *Verifier) SetLogger(l *zap.Logger) {
	v.logger = l
}

// Verify re-checks one record. The returned error covers only a record
// whose region identifier cannot be parsed; every annotation-side condition
// is expressed through the verdict's Outcome.
func (v *Verifier) Verify(rec *matchfile.Record) (*Verdict, error) {
	region, err := matchfile.ParseRegion(rec.Region)
	if err != nil {
		return nil, err
	}

	verdict := &Verdict{
		Record:           rec,
		Region:           region,
		ReportedDistance: DistanceNA,
		ComputedDistance: DistanceNA,
	}

	gene, ok := v.source.Lookup(rec.Gene)
	if !ok {
		verdict.Outcome = GeneNotFound
		return verdict, nil
	}
	verdict.Gene = gene

	if matchfile.IsDirectional(rec.Area) {
		v.verifyDirectional(verdict)
	} else {
		v.verifyOverlap(verdict)
	}

	return verdict, nil
}

// verifyDirectional checks an UPSTREAM/DOWNSTREAM record: the distance from
// the region midpoint to the nearest gene boundary must agree with the
// reported distance, and the reported distance must sit inside the
// association cutoff.
func (v *Verifier) verifyDirectional(verdict *Verdict) {
	gene := verdict.Gene
	mid := verdict.Region.Midpoint()

	var computed int64
	switch {
	case mid < gene.Start:
		computed = gene.Start - mid
	case mid > gene.End:
		computed = mid - gene.End
	default:
		// A directional record should never overlap its gene.
		verdict.Outcome = Anomalous
		verdict.ReportedDistance = verdict.Record.Distance
		verdict.ComputedDistance = 0
		verdict.Note = "region overlaps the gene it is claimed to flank"
		v.logger.Warn("directional record overlaps its gene",
			zap.String("region", verdict.Record.Region),
			zap.String("gene", verdict.Record.Gene),
			zap.String("area", verdict.Record.Area))
		return
	}

	verdict.ReportedDistance = verdict.Record.Distance
	verdict.ComputedDistance = computed
	verdict.WithinTolerance = abs(computed-verdict.Record.Distance) <= v.tolerance

	if verdict.Record.Distance <= v.maxDistance {
		verdict.Outcome = Valid
	} else {
		verdict.Outcome = Invalid
	}
}

// verifyOverlap checks a non-directional record: the region must strictly
// overlap the gene span (half-open interval test).
func (v *Verifier) verifyOverlap(verdict *Verdict) {
	gene := verdict.Gene
	region := verdict.Region

	if region.Start < gene.End && region.End > gene.Start {
		verdict.Outcome = Valid
	} else {
		verdict.Outcome = Invalid
	}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
