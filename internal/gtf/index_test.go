package gtf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleGTF = `# comment line
chr1	HAVANA	gene	1000	2000	.	+	.	gene_id "ENSG0001.5"; gene_name "ALPHA";
chr1	HAVANA	transcript	1000	2000	.	+	.	gene_id "ENSG0001.5"; transcript_id "ENST0001.1";
chr1	HAVANA	gene	5000	9000	.	-	.	gene_id "ENSG0001B.2"; gene_name "ALPHAB";
chr2	HAVANA	gene	100	900	.	+	.	gene_id "ENSG0002.1"; gene_name "BETA";
`

func TestParseGeneIndex(t *testing.T) {
	idx, err := ParseGeneIndex(strings.NewReader(sampleGTF), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())

	g, ok := idx.Lookup("ENSG0001")
	require.True(t, ok)
	assert.Equal(t, "ALPHA", g.Name)
	assert.Equal(t, "chr1", g.Chrom)
	assert.Equal(t, int64(1000), g.Start)
	assert.Equal(t, int64(2000), g.End)
	assert.Equal(t, int8(1), g.Strand)
	assert.Equal(t, "+", g.StrandSymbol())
}

func TestGeneIndex_VersionedLookup(t *testing.T) {
	idx, err := ParseGeneIndex(strings.NewReader(sampleGTF), zap.NewNop())
	require.NoError(t, err)

	// Versioned and unversioned identifiers resolve to the same gene.
	g1, ok := idx.Lookup("ENSG0002")
	require.True(t, ok)
	g2, ok := idx.Lookup("ENSG0002.1")
	require.True(t, ok)
	assert.Same(t, g1, g2)
}

func TestGeneIndex_ExactMatchOnly(t *testing.T) {
	idx, err := ParseGeneIndex(strings.NewReader(sampleGTF), zap.NewNop())
	require.NoError(t, err)

	// ENSG0001 is a prefix of ENSG0001B; each must resolve to its own span.
	g, ok := idx.Lookup("ENSG0001B")
	require.True(t, ok)
	assert.Equal(t, int64(5000), g.Start)
	assert.Equal(t, int8(-1), g.Strand)

	g, ok = idx.Lookup("ENSG0001")
	require.True(t, ok)
	assert.Equal(t, int64(1000), g.Start)
}

func TestGeneIndex_NotFound(t *testing.T) {
	idx, err := ParseGeneIndex(strings.NewReader(sampleGTF), zap.NewNop())
	require.NoError(t, err)

	_, ok := idx.Lookup("ENSG9999")
	assert.False(t, ok)

	// Transcript IDs are not genes.
	_, ok = idx.Lookup("ENST0001")
	assert.False(t, ok)
}

func TestGeneIndex_DuplicateGeneKeepsFirst(t *testing.T) {
	dup := sampleGTF +
		"chr2\tHAVANA\tgene\t5000\t6000\t.\t+\t.\tgene_id \"ENSG0002.1\"; gene_name \"BETA2\";\n"

	idx, err := ParseGeneIndex(strings.NewReader(dup), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, idx.Duplicates())

	g, ok := idx.Lookup("ENSG0002")
	require.True(t, ok)
	assert.Equal(t, int64(100), g.Start)
}

func TestScanGene(t *testing.T) {
	g, found, err := ScanGene(strings.NewReader(sampleGTF), "ENSG0002")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "BETA", g.Name)

	_, found, err = ScanGene(strings.NewReader(sampleGTF), "ENSG9999")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadGeneIndex_MissingFile(t *testing.T) {
	_, err := LoadGeneIndex("testdata/does-not-exist.gtf")
	require.Error(t, err)
}
