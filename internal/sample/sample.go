// Package sample selects bounded, category-diverse subsets of match records
// for geometric audit.
package sample

import (
	"fmt"
	"math"
	"sort"

	"github.com/genomeval/rgcheck/internal/matchfile"
)

// Policy selects how the sample budget is split across category groups.
// The policy decides which records later get audited, so it is part of the
// run configuration, not an implementation detail. Both policies are
// deterministic: the same input always yields the same sample.
type Policy string

const (
	// PolicyProportional allocates each group a share of the budget
	// proportional to its size, at least one record per group.
	PolicyProportional Policy = "proportional"

	// PolicyRoundRobin takes one record from each group in lexicographic
	// group order, repeating until the budget is spent.
	PolicyRoundRobin Policy = "roundrobin"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyProportional, PolicyRoundRobin:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown sample policy %q (want proportional or roundrobin)", s)
}

// GroupFunc extracts the stratification category from a record.
type GroupFunc func(*matchfile.Record) string

// ByArea stratifies by the record's area category.
func ByArea(rec *matchfile.Record) string { return rec.Area }

// Stratified returns at most target records, spreading the selection across
// the distinct values of groupBy. Within a group the original record order
// is kept, so the sample is stable across runs on the same input. If target
// covers at least the number of groups, every group is represented.
func Stratified(records []*matchfile.Record, groupBy GroupFunc, target int, policy Policy) []*matchfile.Record {
	if target <= 0 || len(records) == 0 {
		return nil
	}
	if target >= len(records) {
		out := make([]*matchfile.Record, len(records))
		copy(out, records)
		return out
	}

	groups := make(map[string][]*matchfile.Record)
	for _, rec := range records {
		key := groupBy(rec)
		groups[key] = append(groups[key], rec)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	switch policy {
	case PolicyRoundRobin:
		return roundRobin(groups, keys, target)
	default:
		return proportional(groups, keys, target, len(records))
	}
}

// proportional gives each group max(1, round(target*size/total)) slots,
// then reconciles the quotas so they sum exactly to target: overshoot is
// trimmed from the smallest groups first, leftover budget goes to the
// largest groups first.
func proportional(groups map[string][]*matchfile.Record, keys []string, target, total int) []*matchfile.Record {
	quotas := make(map[string]int, len(keys))
	allocated := 0
	for _, key := range keys {
		q := int(math.Round(float64(target) * float64(len(groups[key])) / float64(total)))
		if q < 1 {
			q = 1
		}
		if q > len(groups[key]) {
			q = len(groups[key])
		}
		quotas[key] = q
		allocated += q
	}

	// Keys ordered by group size; ties broken lexicographically so the
	// reconciliation below is deterministic.
	bySize := append([]string(nil), keys...)
	sort.SliceStable(bySize, func(i, j int) bool {
		return len(groups[bySize[i]]) > len(groups[bySize[j]])
	})

	for allocated > target {
		trimmed := false
		for i := len(bySize) - 1; i >= 0 && allocated > target; i-- {
			key := bySize[i]
			if quotas[key] > 1 {
				quotas[key]--
				allocated--
				trimmed = true
			}
		}
		if trimmed {
			continue
		}
		// Every group is down to one slot; only now drop whole groups,
		// smallest first. Dropping earlier would empty small categories
		// while a dominant group still holds spare quota.
		for i := len(bySize) - 1; i >= 0 && allocated > target; i-- {
			key := bySize[i]
			if quotas[key] > 0 {
				allocated -= quotas[key]
				quotas[key] = 0
			}
		}
	}

	for allocated < target {
		grew := false
		for _, key := range bySize {
			if allocated == target {
				break
			}
			if quotas[key] < len(groups[key]) {
				quotas[key]++
				allocated++
				grew = true
			}
		}
		if !grew {
			break
		}
	}

	var out []*matchfile.Record
	for _, key := range keys {
		out = append(out, groups[key][:quotas[key]]...)
	}
	return out
}

// roundRobin takes one record per group per pass, in lexicographic group
// order, until the budget is spent or all groups are exhausted.
func roundRobin(groups map[string][]*matchfile.Record, keys []string, target int) []*matchfile.Record {
	var out []*matchfile.Record
	for pass := 0; len(out) < target; pass++ {
		took := false
		for _, key := range keys {
			if len(out) == target {
				break
			}
			if pass < len(groups[key]) {
				out = append(out, groups[key][pass])
				took = true
			}
		}
		if !took {
			break
		}
	}
	return out
}
