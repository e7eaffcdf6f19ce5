package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomeval/rgcheck/internal/gtf"
	"github.com/genomeval/rgcheck/internal/matchfile"
)

// mapSource is an in-memory gene source for tests.
type mapSource map[string]*gtf.Gene

func (m mapSource) Lookup(geneID string) (*gtf.Gene, bool) {
	g, ok := m[geneID]
	return g, ok
}

func testSource() mapSource {
	return mapSource{
		"ENSG0001": {ID: "ENSG0001", Name: "ALPHA", Chrom: "chr1", Start: 1000, End: 2000, Strand: 1},
	}
}

func upstreamRecord(region string, distance int64) *matchfile.Record {
	return &matchfile.Record{
		Region:   region,
		Gene:     "ENSG0001",
		Area:     matchfile.AreaUpstream,
		Distance: distance,
	}
}

func TestVerify_DirectionalUpstream(t *testing.T) {
	v := New(testSource())

	// Midpoint 500 sits 500 bp before the gene start at 1000.
	verdict, err := v.Verify(upstreamRecord("chr1_400_600", 500))
	require.NoError(t, err)

	assert.Equal(t, Valid, verdict.Outcome)
	assert.Equal(t, int64(500), verdict.ReportedDistance)
	assert.Equal(t, int64(500), verdict.ComputedDistance)
	assert.True(t, verdict.WithinTolerance)
}

func TestVerify_DirectionalDownstream(t *testing.T) {
	v := New(testSource())

	rec := &matchfile.Record{
		Region:   "chr1_2400_2600", // midpoint 2500, 500 bp past gene end
		Gene:     "ENSG0001",
		Area:     matchfile.AreaDownstream,
		Distance: 500,
	}
	verdict, err := v.Verify(rec)
	require.NoError(t, err)

	assert.Equal(t, Valid, verdict.Outcome)
	assert.Equal(t, int64(500), verdict.ComputedDistance)
	assert.True(t, verdict.WithinTolerance)
}

func TestVerify_DirectionalBeyondThreshold(t *testing.T) {
	v := New(testSource())

	// Reported distance above the 10000 default cutoff is invalid even
	// though it agrees with the geometry.
	verdict, err := v.Verify(upstreamRecord("chr1_400_600", 15000))
	require.NoError(t, err)

	assert.Equal(t, Invalid, verdict.Outcome)
	assert.False(t, verdict.WithinTolerance)

	v.SetMaxDistance(20000)
	verdict, err = v.Verify(upstreamRecord("chr1_400_600", 15000))
	require.NoError(t, err)
	assert.Equal(t, Valid, verdict.Outcome)
}

func TestVerify_DirectionalTolerance(t *testing.T) {
	v := New(testSource())

	// Computed distance is 500; a reported 510 is inside the 10 bp
	// tolerance, 511 is not.
	verdict, err := v.Verify(upstreamRecord("chr1_400_600", 510))
	require.NoError(t, err)
	assert.True(t, verdict.WithinTolerance)

	verdict, err = v.Verify(upstreamRecord("chr1_400_600", 511))
	require.NoError(t, err)
	assert.False(t, verdict.WithinTolerance)
}

func TestVerify_DirectionalOverlapIsAnomalous(t *testing.T) {
	v := New(testSource())

	// Midpoint 1500 lands inside the gene span.
	verdict, err := v.Verify(upstreamRecord("chr1_1400_1600", 0))
	require.NoError(t, err)

	assert.Equal(t, Anomalous, verdict.Outcome)
	assert.Equal(t, int64(0), verdict.ComputedDistance)
	assert.NotEmpty(t, verdict.Note)
}

func TestVerify_Overlap(t *testing.T) {
	v := New(testSource())

	tests := []struct {
		name   string
		region string
		want   Outcome
	}{
		{"inside gene", "chr1_1500_1600", Valid},
		{"straddles start", "chr1_900_1100", Valid},
		{"straddles end", "chr1_1900_2100", Valid},
		{"past gene", "chr1_2100_2200", Invalid},
		{"before gene", "chr1_100_200", Invalid},
		{"touching end only", "chr1_2000_2100", Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &matchfile.Record{
				Region: tt.region,
				Gene:   "ENSG0001",
				Area:   matchfile.AreaGeneBody,
			}
			verdict, err := v.Verify(rec)
			require.NoError(t, err)

			assert.Equal(t, tt.want, verdict.Outcome)
			assert.Equal(t, DistanceNA, verdict.ComputedDistance)
			assert.Equal(t, DistanceNA, verdict.ReportedDistance)
		})
	}
}

func TestVerify_GeneNotFound(t *testing.T) {
	v := New(testSource())

	rec := &matchfile.Record{
		Region: "chr1_100_200",
		Gene:   "ENSG_MISSING",
		Area:   matchfile.AreaIntron,
	}
	verdict, err := v.Verify(rec)
	require.NoError(t, err)

	// Not found is its own outcome, distinct from an invalid claim.
	assert.Equal(t, GeneNotFound, verdict.Outcome)
	assert.NotEqual(t, Invalid, verdict.Outcome)
	assert.Nil(t, verdict.Gene)
}

func TestVerify_MalformedRegion(t *testing.T) {
	v := New(testSource())

	rec := &matchfile.Record{Region: "nonsense", Gene: "ENSG0001", Area: matchfile.AreaIntron}
	_, err := v.Verify(rec)
	require.Error(t, err)

	var keyErr *matchfile.MalformedKeyError
	assert.ErrorAs(t, err, &keyErr)
}

func TestVerifyAll_Tally(t *testing.T) {
	v := New(testSource())

	records := []*matchfile.Record{
		upstreamRecord("chr1_400_600", 500),                                                // valid
		upstreamRecord("chr1_400_600", 15000),                                              // invalid
		{Region: "chr1_1500_1600", Gene: "ENSG0001", Area: matchfile.AreaGeneBody},         // valid
		{Region: "chr1_100_200", Gene: "ENSG_MISSING", Area: matchfile.AreaIntron},         // not found
		{Region: "chr1_1400_1600", Gene: "ENSG0001", Area: matchfile.AreaUpstream},         // anomalous
	}

	verdicts, tally, err := v.VerifyAll(records)
	require.NoError(t, err)
	require.Len(t, verdicts, 5)

	assert.Equal(t, 2, tally.Valid)
	assert.Equal(t, 1, tally.Invalid)
	assert.Equal(t, 1, tally.NotFound)
	assert.Equal(t, 1, tally.Anomalous)
	assert.Equal(t, 3, tally.Judged())
	assert.Equal(t, Mixed, tally.Conclude())
}

func TestTally_Conclude(t *testing.T) {
	assert.Equal(t, AllValid, (&Tally{Valid: 10}).Conclude())
	assert.Equal(t, NoneValid, (&Tally{Invalid: 10}).Conclude())
	assert.Equal(t, Mixed, (&Tally{Valid: 7, Invalid: 3}).Conclude())

	// Nothing judged either way is inconclusive, even with not-found
	// records present.
	assert.Equal(t, Mixed, (&Tally{NotFound: 4}).Conclude())
	assert.Equal(t, AllValid, (&Tally{Valid: 5, NotFound: 2}).Conclude())
}
