package matchfile

import (
	"fmt"
	"strconv"
	"strings"
)

// Region is a genomic interval parsed from a chrom_start_end identifier.
type Region struct {
	Chrom string
	Start int64
	End   int64
}

// Midpoint returns the floor midpoint of the region.
func (r Region) Midpoint() int64 {
	return (r.Start + r.End) / 2
}

// MalformedKeyError reports a region identifier that could not be parsed.
type MalformedKeyError struct {
	Key    string
	Reason string
}

func (e *MalformedKeyError) Error() string {
	return fmt.Sprintf("malformed region key %q: %s", e.Key, e.Reason)
}

// ParseRegion parses a chrom_start_end region identifier. The chromosome
// token may itself contain underscores (e.g. chr1_KI270706v1_random), so the
// split takes the last two underscore-delimited fields as start and end.
func ParseRegion(s string) (Region, error) {
	endIdx := strings.LastIndex(s, "_")
	if endIdx <= 0 {
		return Region{}, &MalformedKeyError{Key: s, Reason: "expected chrom_start_end"}
	}
	startIdx := strings.LastIndex(s[:endIdx], "_")
	if startIdx <= 0 {
		return Region{}, &MalformedKeyError{Key: s, Reason: "expected chrom_start_end"}
	}

	start, err := strconv.ParseInt(s[startIdx+1:endIdx], 10, 64)
	if err != nil {
		return Region{}, &MalformedKeyError{Key: s, Reason: fmt.Sprintf("start %q is not an integer", s[startIdx+1:endIdx])}
	}
	end, err := strconv.ParseInt(s[endIdx+1:], 10, 64)
	if err != nil {
		return Region{}, &MalformedKeyError{Key: s, Reason: fmt.Sprintf("end %q is not an integer", s[endIdx+1:])}
	}

	// Downstream distance math assumes start <= end.
	if start > end {
		return Region{}, &MalformedKeyError{Key: s, Reason: fmt.Sprintf("start %d > end %d", start, end)}
	}

	return Region{Chrom: s[:startIdx], Start: start, End: end}, nil
}
