// Package workload drives queries from a single worker against a search backend and records the outcome of each.
package workload

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/searchbench/internal/searchbench/backend"
	"github.com/armadaproject/searchbench/internal/searchbench/configuration"
)

type Mode string

const (
	// Standard queries every term once.
	Standard Mode = configuration.ModeStandard
	// Typing queries every prefix of every term, imitating a user typing into a search-as-you-type box.
	Typing Mode = configuration.ModeTyping
)

// Searcher runs a single query and returns the HTTP status code of the response.
type Searcher interface {
	Search(ctx context.Context, query string) (int, error)
}

// Recorder accumulates the outcome of each query. *sampler.Handle implements it.
type Recorder interface {
	RecordLatency(d time.Duration)
	RecordLatencyForLength(length int, d time.Duration)
	RecordError(status int)
}

// Observer is notified of every completed query in addition to the Recorder.
type Observer interface {
	Observe(status int, latency time.Duration)
}

// Query is a single search issued by a worker. Length is measured in runes.
type Query struct {
	Text   string
	Length int
}

// Queries expands terms into the queries issued for them in the given mode.
func Queries(mode Mode, terms []string) ([]Query, error) {
	var queries []Query
	switch mode {
	case Standard:
		queries = make([]Query, 0, len(terms))
		for _, term := range terms {
			queries = append(queries, Query{Text: term, Length: len([]rune(term))})
		}
	case Typing:
		for _, term := range terms {
			runes := []rune(term)
			for i := 1; i <= len(runes); i++ {
				queries = append(queries, Query{Text: string(runes[:i]), Length: i})
			}
		}
	default:
		return nil, errors.Errorf("unknown workload mode %q", mode)
	}
	return queries, nil
}

// Run issues the queries generated from terms one after another, recording the latency of every successful search and
// the status of every unsuccessful one. A transport error from the searcher ends the run and is returned, as is
// cancellation of ctx. observer may be nil.
func Run(ctx context.Context, mode Mode, searcher Searcher, recorder Recorder, terms []string, observer Observer) error {
	queries, err := Queries(mode, terms)
	if err != nil {
		return err
	}
	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}

		start := time.Now()
		status, err := searcher.Search(ctx, query.Text)
		latency := time.Since(start)
		if err != nil {
			return errors.WithMessagef(err, "searching for %q", query.Text)
		}

		if observer != nil {
			observer.Observe(status, latency)
		}
		if backend.IsSuccess(status) {
			recorder.RecordLatency(latency)
			recorder.RecordLatencyForLength(query.Length, latency)
		} else {
			recorder.RecordError(status)
		}
	}
	return nil
}

// Limit returns at most n terms. A non-positive n returns every term.
func Limit(terms []string, n int) []string {
	if n <= 0 || n >= len(terms) {
		return terms
	}
	return slices.Clone(terms[:n])
}
