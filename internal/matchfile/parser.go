package matchfile

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

// Column order of matcher output files. There is no header row by default;
// columns are mapped positionally.
const (
	colRegion = iota
	colMidpoint
	colGene
	colTranscript
	colExonIntron
	colArea
	colDistance
	colTSSDistance
	colPercRegion
	colPercArea
	numRequiredColumns = colPercArea + 1
)

// FormatError reports a row that does not conform to the matcher output schema.
type FormatError struct {
	Path   string
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

// Parser reads matcher output records from a tab-separated file.
// Supports both plain and gzipped files.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	path       string
	lineNumber int
	skipped    int
	strict     bool
	skipHeader bool
	headerRead bool
	logger     *zap.Logger
}

// NewParser creates a parser for the given matcher output file.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open matcher output: %w", err)
	}

	p := &Parser{file: file, path: path, logger: zap.NewNop()}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	if _, err := file.Read(buf); err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read matcher output: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek matcher output: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g. stdin or a
// test buffer).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{
		reader: bufio.NewReader(r),
		path:   "<reader>",
		logger: zap.NewNop(),
	}
}

// SetStrict configures whether a malformed row aborts the whole file.
// The default is lenient: malformed rows are skipped and counted.
func (p *Parser) SetStrict(strict bool) {
	p.strict = strict
}

// SetSkipHeader configures the parser to discard the first line. Matcher
// output carries no header, but sample export files do.
func (p *Parser) SetSkipHeader(skip bool) {
	p.skipHeader = skip
}

// SetLogger sets the logger for skipped-row warnings.
func (p *Parser) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Skipped returns the number of malformed rows skipped in lenient mode.
func (p *Parser) Skipped() int {
	return p.skipped
}

// Next returns the next record, or nil at end of file.
// In lenient mode malformed rows are logged and skipped; in strict mode the
// first malformed row is returned as an error.
func (p *Parser) Next() (*Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err == io.EOF {
			if line == "" {
				return nil, nil
			}
		} else if err != nil {
			return nil, fmt.Errorf("read matcher output: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		if p.skipHeader && !p.headerRead {
			p.headerRead = true
			continue
		}

		rec, perr := p.parseRow(line)
		if perr != nil {
			if p.strict {
				return nil, perr
			}
			p.skipped++
			p.logger.Warn("skipping malformed row", zap.String("path", p.path), zap.Int("line", p.lineNumber), zap.Error(perr))
			continue
		}
		return rec, nil
	}
}

// parseRow maps one tab-separated line onto the record schema.
func (p *Parser) parseRow(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < numRequiredColumns {
		return nil, &FormatError{Path: p.path, Line: p.lineNumber, Reason: fmt.Sprintf("expected at least %d fields, got %d", numRequiredColumns, len(fields))}
	}

	rec := &Record{
		Region:     fields[colRegion],
		Gene:       fields[colGene],
		Transcript: fields[colTranscript],
		ExonIntron: fields[colExonIntron],
		Area:       fields[colArea],
	}

	// Region identifiers must parse; downstream geometry depends on them.
	if _, err := ParseRegion(rec.Region); err != nil {
		return nil, err
	}

	var err error
	if rec.Midpoint, err = parseIntField(fields[colMidpoint]); err != nil {
		return nil, &FormatError{Path: p.path, Line: p.lineNumber, Reason: fmt.Sprintf("midpoint: %v", err)}
	}
	if fields[colDistance] == "" {
		// Empty distance is a data-quality signal, not a measured zero.
		rec.DistanceMissing = true
	} else if rec.Distance, err = parseIntField(fields[colDistance]); err != nil {
		return nil, &FormatError{Path: p.path, Line: p.lineNumber, Reason: fmt.Sprintf("distance: %v", err)}
	}
	if rec.TSSDistance, err = parseIntField(fields[colTSSDistance]); err != nil {
		return nil, &FormatError{Path: p.path, Line: p.lineNumber, Reason: fmt.Sprintf("tss distance: %v", err)}
	}
	if rec.PercRegion, err = parseFloatField(fields[colPercRegion]); err != nil {
		return nil, &FormatError{Path: p.path, Line: p.lineNumber, Reason: fmt.Sprintf("perc region: %v", err)}
	}
	if rec.PercArea, err = parseFloatField(fields[colPercArea]); err != nil {
		return nil, &FormatError{Path: p.path, Line: p.lineNumber, Reason: fmt.Sprintf("perc area: %v", err)}
	}

	if len(fields) > numRequiredColumns {
		rec.Meta = fields[numRequiredColumns:]
	}

	return rec, nil
}

// Close closes the underlying file handles.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// LoadAll reads every record from a matcher output file.
func LoadAll(path string) ([]*Record, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ReadAll()
}

// ReadAll drains the parser into a slice.
func (p *Parser) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := p.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return records, nil
		}
		records = append(records, rec)
	}
}

func parseIntField(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseFloatField(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
