package gtf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// GeneIndex maps gene identifiers to their coordinates. It is built in a
// single pass over the annotation source and is read-only afterwards, so
// concurrent lookups need no synchronization.
type GeneIndex struct {
	genes      map[string]*Gene
	duplicates int
}

// LoadGeneIndex builds a gene index from a GTF file. Gzipped files are
// handled transparently.
func LoadGeneIndex(path string) (*GeneIndex, error) {
	return LoadGeneIndexWithLogger(path, zap.NewNop())
}

// LoadGeneIndexWithLogger is LoadGeneIndex with duplicate-feature warnings.
func LoadGeneIndexWithLogger(path string, logger *zap.Logger) (*GeneIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open GTF file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return ParseGeneIndex(reader, logger)
}

// ParseGeneIndex builds a gene index from GTF content. Only gene features
// contribute; the gene identifier is taken from the parsed gene_id
// attribute, never from a raw-line substring match. If the source lists the
// same gene twice, the first feature wins and the duplicate is counted.
func ParseGeneIndex(reader io.Reader, logger *zap.Logger) (*GeneIndex, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	idx := &GeneIndex{genes: make(map[string]*Gene)}

	for scanner.Scan() {
		line := scanner.Text()

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		gene, err := parseGeneLine(line)
		if err != nil || gene == nil {
			continue
		}

		key := stripVersion(gene.ID)
		if _, ok := idx.genes[key]; ok {
			idx.duplicates++
			logger.Warn("duplicate gene feature, keeping first", zap.String("gene_id", gene.ID))
			continue
		}
		idx.genes[key] = gene
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	return idx, nil
}

// Lookup returns the coordinates for a gene identifier. Versioned
// identifiers resolve to the same gene as their unversioned form.
func (idx *GeneIndex) Lookup(geneID string) (*Gene, bool) {
	g, ok := idx.genes[stripVersion(geneID)]
	return g, ok
}

// Len returns the number of distinct genes in the index.
func (idx *GeneIndex) Len() int {
	return len(idx.genes)
}

// Duplicates returns how many gene features were discarded because their
// identifier was already indexed.
func (idx *GeneIndex) Duplicates() int {
	return idx.duplicates
}

// Genes returns all indexed genes in unspecified order.
func (idx *GeneIndex) Genes() []*Gene {
	genes := make([]*Gene, 0, len(idx.genes))
	for _, g := range idx.genes {
		genes = append(genes, g)
	}
	return genes
}

// ScanGene performs a single uncached pass over GTF content looking for one
// gene. Use a GeneIndex instead when verifying at scale; this scan is
// O(source size) per call.
func ScanGene(reader io.Reader, geneID string) (*Gene, bool, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	want := stripVersion(geneID)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		gene, err := parseGeneLine(line)
		if err != nil || gene == nil {
			continue
		}
		if stripVersion(gene.ID) == want {
			return gene, true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("scan GTF: %w", err)
	}
	return nil, false, nil
}

// parseGeneLine parses a single GTF line, returning a Gene for gene
// features and nil for everything else.
func parseGeneLine(line string) (*Gene, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, fmt.Errorf("invalid GTF line: expected 9 fields, got %d", len(fields))
	}

	if fields[2] != "gene" {
		return nil, nil
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}

	attrs := parseAttributes(fields[8])
	geneID := attrs["gene_id"]
	if geneID == "" {
		return nil, nil
	}

	return &Gene{
		ID:     geneID,
		Name:   attrs["gene_name"],
		Chrom:  fields[0],
		Start:  start,
		End:    end,
		Strand: parseStrand(fields[6]),
	}, nil
}

// parseAttributes parses GTF attribute column.
// Format: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	parts := strings.Split(attrStr, ";")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}

		key := part[:idx]
		value := strings.TrimSpace(part[idx+1:])
		value = strings.Trim(value, "\"")

		attrs[key] = value
	}

	return attrs
}
