// Package diff computes keyed set differences between two matcher outputs.
package diff

import (
	"sort"

	"go.uber.org/zap"

	"github.com/genomeval/rgcheck/internal/matchfile"
)

// Result summarizes one comparison between a candidate output (left) and a
// golden output (right). Partitions are computed over unambiguous keys only:
// a key that appears more than once within a side is reported in the
// Ambiguous slices and excluded from the exclusive/common partitions rather
// than silently merged.
type Result struct {
	Label string

	TotalLeft  int
	TotalRight int

	LeftOnly  map[string]struct{}
	RightOnly map[string]struct{}
	Common    map[string]struct{}

	// Duplicated keys per side, sorted.
	AmbiguousLeft  []string
	AmbiguousRight []string

	// Records from the left side whose key is exclusive to it, in input
	// order. These are the candidates for geometric audit.
	LeftOnlyRecords []*matchfile.Record
}

// ExclusiveLeft returns the number of keys present only in the left output.
func (r *Result) ExclusiveLeft() int { return len(r.LeftOnly) }

// ExclusiveRight returns the number of keys present only in the right output.
func (r *Result) ExclusiveRight() int { return len(r.RightOnly) }

// CommonCount returns the number of keys present in both outputs.
func (r *Result) CommonCount() int { return len(r.Common) }

// HasAmbiguousKeys reports whether either side contained duplicate keys.
func (r *Result) HasAmbiguousKeys() bool {
	return len(r.AmbiguousLeft) > 0 || len(r.AmbiguousRight) > 0
}

// Compare partitions the keys of two record collections into exclusive and
// common sets.
func Compare(left, right []*matchfile.Record, label string) *Result {
	return CompareWithLogger(left, right, label, zap.NewNop())
}

// CompareWithLogger is Compare with duplicate-key warnings.
func CompareWithLogger(left, right []*matchfile.Record, label string, logger *zap.Logger) *Result {
	r := &Result{
		Label:      label,
		TotalLeft:  len(left),
		TotalRight: len(right),
		LeftOnly:   make(map[string]struct{}),
		RightOnly:  make(map[string]struct{}),
		Common:     make(map[string]struct{}),
	}

	leftCounts := keyCounts(left)
	rightCounts := keyCounts(right)
	r.AmbiguousLeft = duplicatedKeys(leftCounts)
	r.AmbiguousRight = duplicatedKeys(rightCounts)

	for _, key := range r.AmbiguousLeft {
		logger.Warn("ambiguous key in left output", zap.String("label", label), zap.String("key", key))
	}
	for _, key := range r.AmbiguousRight {
		logger.Warn("ambiguous key in right output", zap.String("label", label), zap.String("key", key))
	}

	// Exclusivity is judged against the other side's full key multiset: a
	// key the other file physically contains is never exclusive, even when
	// its duplication there keeps it out of the common partition.
	for key, n := range leftCounts {
		if n > 1 {
			continue
		}
		rn, inRight := rightCounts[key]
		switch {
		case !inRight:
			r.LeftOnly[key] = struct{}{}
		case rn == 1:
			r.Common[key] = struct{}{}
		}
	}
	for key, n := range rightCounts {
		if n > 1 {
			continue
		}
		if _, inLeft := leftCounts[key]; !inLeft {
			r.RightOnly[key] = struct{}{}
		}
	}

	for _, rec := range left {
		if _, ok := r.LeftOnly[rec.Key()]; ok {
			r.LeftOnlyRecords = append(r.LeftOnlyRecords, rec)
		}
	}

	return r
}

// keyCounts builds the key multiset of one side.
func keyCounts(records []*matchfile.Record) map[string]int {
	counts := make(map[string]int, len(records))
	for _, rec := range records {
		counts[rec.Key()]++
	}
	return counts
}

// duplicatedKeys returns the keys appearing more than once, sorted.
func duplicatedKeys(counts map[string]int) []string {
	var dups []string
	for key, n := range counts {
		if n > 1 {
			dups = append(dups, key)
		}
	}
	sort.Strings(dups)
	return dups
}

// GeneCount pairs a gene identifier with its occurrence count in the
// exclusive-to-left partition.
type GeneCount struct {
	Gene  string
	Count int
}

// TopGenes returns the n genes contributing the most exclusive-to-left
// records, descending by count with ties broken by gene identifier. A gene
// dominating this list points at a systematic disagreement rather than an
// incidental one.
func (r *Result) TopGenes(n int) []GeneCount {
	counts := make(map[string]int)
	for _, rec := range r.LeftOnlyRecords {
		counts[rec.Gene]++
	}

	genes := make([]GeneCount, 0, len(counts))
	for gene, count := range counts {
		genes = append(genes, GeneCount{Gene: gene, Count: count})
	}
	sort.Slice(genes, func(i, j int) bool {
		if genes[i].Count != genes[j].Count {
			return genes[i].Count > genes[j].Count
		}
		return genes[i].Gene < genes[j].Gene
	})

	if n > 0 && len(genes) > n {
		genes = genes[:n]
	}
	return genes
}
