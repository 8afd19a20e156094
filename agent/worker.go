package agent

import (
	"fmt"

	"connectfour/searcher"
)

type result struct {
	column int
	metric searcher.SearchMetric
	err    error
}

// worker runs a single search on its own goroutine. The goroutine owns
// everything the search function closes over and sends exactly one result.
type worker struct {
	results chan result
	last    searcher.SearchMetric
}

func (w *worker) spawn(search func() (int, searcher.SearchMetric)) {
	if w.results != nil {
		panic("search started while another one is still running")
	}
	results := make(chan result, 1)
	w.results = results

	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- result{err: fmt.Errorf("%w: %v", ErrSearchFailed, r)}
			}
		}()
		col, metric := search()
		results <- result{column: col, metric: metric}
	}()
}

// poll never blocks. A failed search is re-raised on the caller's goroutine.
func (w *worker) poll() Intent {
	if w.results == nil {
		return NoIntent()
	}
	select {
	case r := <-w.results:
		w.results = nil
		if r.err != nil {
			panic(r.err)
		}
		w.last = r.metric
		return ReadyIntent(r.column)
	default:
		return WaitingIntent()
	}
}

// wait blocks until the outstanding search, if any, is finished and drops its result.
func (w *worker) wait() {
	if w.results == nil {
		return
	}
	<-w.results
	w.results = nil
}
