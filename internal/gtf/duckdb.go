package gtf

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// DuckDBSource resolves gene coordinates from a pre-built DuckDB gene
// table, avoiding GTF scans entirely. Build the table once with
// BuildFromIndex (rgcheck convert) and reuse it across verification runs.
type DuckDBSource struct {
	db   *sql.DB
	path string
}

// OpenDuckDB opens a DuckDB-backed gene source.
func OpenDuckDB(path string) (*DuckDBSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	return &DuckDBSource{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *DuckDBSource) Close() error {
	return s.db.Close()
}

// CreateSchema creates the genes table.
func (s *DuckDBSource) CreateSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS genes (
			gene_id   VARCHAR PRIMARY KEY,
			gene_name VARCHAR,
			chrom     VARCHAR NOT NULL,
			start     BIGINT NOT NULL,
			end_      BIGINT NOT NULL,
			strand    TINYINT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create genes table: %w", err)
	}
	return nil
}

// InsertGene inserts one gene row.
func (s *DuckDBSource) InsertGene(g *Gene) error {
	_, err := s.db.Exec(`
		INSERT INTO genes (gene_id, gene_name, chrom, start, end_, strand)
		VALUES (?, ?, ?, ?, ?, ?)
	`, stripVersion(g.ID), g.Name, g.Chrom, g.Start, g.End, g.Strand)
	if err != nil {
		return fmt.Errorf("insert gene %s: %w", g.ID, err)
	}
	return nil
}

// BuildFromIndex populates the genes table from a loaded GTF index.
func (s *DuckDBSource) BuildFromIndex(idx *GeneIndex) error {
	if err := s.CreateSchema(); err != nil {
		return err
	}
	for _, g := range idx.Genes() {
		if err := s.InsertGene(g); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the coordinates for a gene identifier.
func (s *DuckDBSource) Lookup(geneID string) (*Gene, bool) {
	row := s.db.QueryRow(`
		SELECT gene_id, gene_name, chrom, start, end_, strand
		FROM genes
		WHERE gene_id = ?
	`, stripVersion(geneID))

	g := &Gene{}
	var name sql.NullString
	err := row.Scan(&g.ID, &name, &g.Chrom, &g.Start, &g.End, &g.Strand)
	if err != nil {
		return nil, false
	}
	g.Name = name.String
	return g, true
}

// GeneCount returns the number of genes in the table.
func (s *DuckDBSource) GeneCount() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM genes").Scan(&count); err != nil {
		return 0, fmt.Errorf("count genes: %w", err)
	}
	return count, nil
}
