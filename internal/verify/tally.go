package verify

import (
	"github.com/genomeval/rgcheck/internal/matchfile"
)

// Tally aggregates verdicts over one verification run. GENE_NOT_FOUND and
// ANOMALOUS records are excluded from the valid/invalid judgement and
// counted on their own.
type Tally struct {
	Valid     int
	Invalid   int
	NotFound  int
	Anomalous int
}

// Add folds one verdict into the tally.
func (t *Tally) Add(v *Verdict) {
	switch v.Outcome {
	case Valid:
		t.Valid++
	case Invalid:
		t.Invalid++
	case GeneNotFound:
		t.NotFound++
	case Anomalous:
		t.Anomalous++
	}
}

// Judged returns the number of records that produced a valid/invalid
// outcome.
func (t *Tally) Judged() int {
	return t.Valid + t.Invalid
}

// Conclusion buckets a verification run into the three-way output contract.
type Conclusion int

const (
	// AllValid: every judged sample checks out; the candidate's extra
	// matches are genuine and worth adopting.
	AllValid Conclusion = iota
	// NoneValid: no judged sample checks out; the candidate has a
	// systematic defect.
	NoneValid
	// Mixed: some samples check out and some do not; inconclusive,
	// needs deeper review.
	Mixed
)

func (c Conclusion) String() string {
	switch c {
	case AllValid:
		return "ALL_VALID"
	case NoneValid:
		return "NONE_VALID"
	}
	return "MIXED"
}

// Conclude returns the trichotomy verdict for the run. A run with no judged
// records is Mixed: nothing was confirmed either way.
func (t *Tally) Conclude() Conclusion {
	switch {
	case t.Judged() == 0:
		return Mixed
	case t.Invalid == 0:
		return AllValid
	case t.Valid == 0:
		return NoneValid
	default:
		return Mixed
	}
}

// VerifyAll verifies records sequentially, returning the verdicts in input
// order alongside the aggregate tally. A record whose region identifier
// cannot be parsed aborts the run.
func (v *Verifier) VerifyAll(records []*matchfile.Record) ([]*Verdict, *Tally, error) {
	verdicts := make([]*Verdict, 0, len(records))
	tally := &Tally{}
	for _, rec := range records {
		verdict, err := v.Verify(rec)
		if err != nil {
			return nil, nil, err
		}
		verdicts = append(verdicts, verdict)
		tally.Add(verdict)
	}
	return verdicts, tally, nil
}
