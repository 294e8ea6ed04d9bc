package lsc

import (
	"context"

	"github.com/ajroetker/go-lsc/internal/workerpool"
)

// BatchResult is the outcome of one request of TranslateAll.
type BatchResult struct {
	Result Result
	Err    error
}

// TranslateAll translates independent call sites in parallel. Results are
// in input order and a failing request never affects another.
func (t *Translator) TranslateAll(reqs []Request) []BatchResult {
	out := make([]BatchResult, len(reqs))
	t.poolOnce.Do(func() { t.pool = workerpool.New(t.workers) })
	t.pool.Each(len(reqs), func(i int) {
		out[i].Result, out[i].Err = t.Translate(reqs[i])
	})

	failed := 0
	for _, r := range out {
		if r.Err != nil {
			failed++
		}
	}
	t.logger.LogBatch(context.Background(), len(reqs), failed)
	return out
}

// Errors returns the non-nil errors of a batch in input order.
func Errors(results []BatchResult) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
