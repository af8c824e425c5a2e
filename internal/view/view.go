// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/studyweb/pkg/types"
)

// Runner answers a question. *answer.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, query string) types.Outcome
}

// View owns one State and runs submissions against a Runner. Submissions
// may overlap; the lookup runs without holding the lock.
type View struct {
	mu    sync.Mutex
	state State

	runner Runner
	guard  bool
	log    logrus.FieldLogger
}

// New returns an idle View. With guardStale set, results of superseded
// submissions are discarded.
func New(r Runner, guardStale bool, log logrus.FieldLogger) *View {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &View{runner: r, guard: guardStale, log: log}
}

// SetQuery replaces the query text.
func (v *View) SetQuery(q string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = SetQuery(v.state, q)
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

// Submit answers the current query. An empty query is a no-op: the state
// is unchanged, the runner is not called, and submitted is false.
//
// The returned state is the view after this submission completed, which
// may reflect a later submission when calls overlap.
func (v *View) Submit(ctx context.Context) (State, bool) {
	return v.submit(ctx, nil)
}

// Ask sets the query and submits it in one step.
func (v *View) Ask(ctx context.Context, q string) (State, bool) {
	return v.submit(ctx, &q)
}

func (v *View) submit(ctx context.Context, q *string) (st State, submitted bool) {
	v.mu.Lock()
	if q != nil {
		v.state = SetQuery(v.state, *q)
	}
	if v.state.Query == "" {
		st = v.state.clone()
		v.mu.Unlock()
		return st, false
	}
	var gen uint64
	v.state, gen = Begin(v.state)
	query := v.state.Query
	v.mu.Unlock()

	log := v.log.WithField("generation", gen)
	log.Debug("submission started")

	out := v.runner.Run(ctx, query)

	v.mu.Lock()
	defer v.mu.Unlock()
	next, applied := Complete(v.state, gen, out, v.guard)
	if !applied {
		log.WithField("latest", v.state.Generation).Debug("stale result dropped")
		return v.state.clone(), true
	}
	v.state = next
	log.WithField("outcome", out.Kind.String()).Debug("submission completed")
	return v.state.clone(), true
}
