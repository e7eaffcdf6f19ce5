package gtf

import (
	"strings"

	"go.uber.org/zap"
)

// OpenGeneSource opens an annotation source by path. Paths ending in
// .duckdb open a database-backed source; everything else is parsed as GTF
// (optionally gzipped) into an in-memory index.
//
// The returned closer releases the underlying resources; for the in-memory
// index it is a no-op.
func OpenGeneSource(path string, logger *zap.Logger) (GeneSource, func() error, error) {
	if strings.HasSuffix(path, ".duckdb") {
		src, err := OpenDuckDB(path)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	}

	idx, err := LoadGeneIndexWithLogger(path, logger)
	if err != nil {
		return nil, nil, err
	}
	return idx, func() error { return nil }, nil
}
