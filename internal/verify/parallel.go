package verify

import (
	"runtime"
	"sync"

	"github.com/genomeval/rgcheck/internal/matchfile"
)

// WorkItem holds a sampled record queued for verification.
type WorkItem struct {
	Seq    int
	Record *matchfile.Record
}

// WorkResult holds the verdict for a single record.
type WorkResult struct {
	Seq     int
	Verdict *Verdict
	Err     error
}

// ParallelVerify checks work items using a pool of workers. The gene source
// is read-only, so workers share the verifier without synchronization.
// Results arrive in completion order; use OrderedCollect to consume them in
// sequence-number order. If workers is 0, runtime.NumCPU() is used.
func (v *Verifier) ParallelVerify(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				verdict, err := v.Verify(item.Record)
				results <- WorkResult{
					Seq:     item.Seq,
					Verdict: verdict,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// VerifyAllParallel is VerifyAll over a worker pool, preserving input order
// in the returned verdicts.
func (v *Verifier) VerifyAllParallel(records []*matchfile.Record, workers int) ([]*Verdict, *Tally, error) {
	items := make(chan WorkItem, len(records))
	for i, rec := range records {
		items <- WorkItem{Seq: i, Record: rec}
	}
	close(items)

	results := v.ParallelVerify(items, workers)

	verdicts := make([]*Verdict, 0, len(records))
	tally := &Tally{}
	err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			return r.Err
		}
		verdicts = append(verdicts, r.Verdict)
		tally.Add(r.Verdict)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return verdicts, tally, nil
}
