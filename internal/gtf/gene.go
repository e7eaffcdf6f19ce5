// Package gtf provides gene coordinate lookup from genomic annotation sources.
package gtf

import "strings"

// Gene holds the coordinate span and strand of one gene feature.
type Gene struct {
	ID     string // Gene identifier (e.g., ENSG00000133703)
	Name   string // Gene symbol (e.g., KRAS)
	Chrom  string // Chromosome
	Start  int64  // Gene start position (1-based)
	End    int64  // Gene end position (1-based, inclusive)
	Strand int8   // +1 (forward) or -1 (reverse)
}

// IsForwardStrand returns true if the gene is on the forward strand.
func (g *Gene) IsForwardStrand() bool {
	return g.Strand == 1
}

// StrandSymbol returns the GTF strand column representation.
func (g *Gene) StrandSymbol() string {
	if g.Strand == -1 {
		return "-"
	}
	return "+"
}

// GeneSource resolves a gene identifier to its coordinates. Lookups are
// read-only and safe for concurrent use.
type GeneSource interface {
	Lookup(geneID string) (*Gene, bool)
}

// parseStrand converts strand string to int8.
func parseStrand(s string) int8 {
	if s == "-" {
		return -1
	}
	return 1
}

// stripVersion removes the version suffix from an Ensembl ID.
// e.g., "ENSG00000133703.14" -> "ENSG00000133703"
func stripVersion(id string) string {
	if idx := strings.LastIndex(id, "."); idx != -1 {
		return id[:idx]
	}
	return id
}
