package testutil

import (
	"errors"

	"golang.org/x/sync/errgroup"

	"pscfiling/pkg/platform/sentinel"
)

// Outcomes tallies how a batch of concurrent store calls ended.
type Outcomes struct {
	Successes int32
	Conflicts int32
	NotFounds int32
	Errors    int32
}

func (o Outcomes) Total() int32 {
	return o.Successes + o.Conflicts + o.NotFounds + o.Errors
}

// RunConcurrent starts n calls of fn together and tallies their errors by
// store sentinel.
func RunConcurrent(n int, fn func(i int) error) Outcomes {
	errs := make([]error, n)
	gate := make(chan struct{})
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			<-gate
			errs[i] = fn(i)
			return nil
		})
	}
	close(gate)
	_ = g.Wait()

	var o Outcomes
	for _, err := range errs {
		switch {
		case err == nil:
			o.Successes++
		case errors.Is(err, sentinel.ErrConflict):
			o.Conflicts++
		case errors.Is(err, sentinel.ErrNotFound):
			o.NotFounds++
		default:
			o.Errors++
		}
	}
	return o
}
