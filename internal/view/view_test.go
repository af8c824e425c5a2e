// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/studyweb/internal/answer"
	"github.com/pdiddy/studyweb/pkg/types"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func answered(points ...string) types.Outcome {
	return types.Outcome{
		Kind:   types.OutcomeAnswered,
		Answer: types.Answer{Topic: "t", Points: points, Details: "d", ImageURL: "https://img/x.png"},
	}
}

// funcRunner adapts a function to Runner and counts calls.
type funcRunner struct {
	calls int32
	fn    func(ctx context.Context, query string) types.Outcome
}

func (r *funcRunner) Run(ctx context.Context, query string) types.Outcome {
	atomic.AddInt32(&r.calls, 1)
	return r.fn(ctx, query)
}

// --- reducers ---

func TestBegin_ClearsAnswerAndBumpsGeneration(t *testing.T) {
	s := State{Query: "q", Points: []string{"old"}, Details: "old", ImageURL: "old", Phase: Answered, Generation: 4}

	next, gen := Begin(s)
	assert.Equal(t, uint64(5), gen)
	assert.Equal(t, uint64(5), next.Generation)
	assert.Nil(t, next.Points)
	assert.Empty(t, next.Details)
	assert.Empty(t, next.ImageURL)
	assert.True(t, next.Loading)
	assert.Equal(t, Loading, next.Phase)
	assert.Equal(t, "q", next.Query)

	// Input is untouched.
	assert.Equal(t, []string{"old"}, s.Points)
	assert.Equal(t, Answered, s.Phase)
}

func TestComplete_Phases(t *testing.T) {
	tests := []struct {
		name        string
		outcome     types.Outcome
		wantPhase   Phase
		wantPoints  []string
		wantDetails string
		wantImage   string
		wantErr     string
	}{
		{"answered", answered("A", "B"), Answered, []string{"A", "B"}, "d", "https://img/x.png", ""},
		{"not found", types.Outcome{Kind: types.OutcomeNotFound}, Empty, []string{answer.NotFoundMessage}, "", "", ""},
		{"transport error", types.Outcome{Kind: types.OutcomeTransportError, Err: errors.New("dial tcp: refused")}, Error, []string{answer.ErrorMessage}, "", "", "dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, gen := Begin(State{Query: "q"})
			next, ok := Complete(s, gen, tt.outcome, true)
			require.True(t, ok)
			assert.Equal(t, tt.wantPhase, next.Phase)
			assert.False(t, next.Loading)
			assert.Equal(t, tt.wantPoints, next.Points)
			assert.Equal(t, tt.wantDetails, next.Details)
			assert.Equal(t, tt.wantImage, next.ImageURL)
			assert.Equal(t, tt.wantErr, next.LastError)
		})
	}
}

func TestComplete_StaleGeneration(t *testing.T) {
	s, first := Begin(State{Query: "q"})
	s, second := Begin(s)
	require.NotEqual(t, first, second)

	guarded, ok := Complete(s, first, answered("stale"), true)
	assert.False(t, ok)
	assert.Equal(t, s, guarded)
	assert.True(t, guarded.Loading)

	unguarded, ok := Complete(s, first, answered("stale"), false)
	assert.True(t, ok)
	assert.Equal(t, []string{"stale"}, unguarded.Points)
	assert.False(t, unguarded.Loading)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "answered", Answered.String())
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

// --- View ---

func TestView_EmptyQueryIsNoOp(t *testing.T) {
	r := &funcRunner{fn: func(context.Context, string) types.Outcome { return answered("A") }}
	v := New(r, true, quietLogger())

	before := v.Snapshot()
	st, submitted := v.Submit(context.Background())
	assert.False(t, submitted)
	assert.Equal(t, before, st)
	assert.Equal(t, before, v.Snapshot())
	assert.Equal(t, Idle, st.Phase)
	assert.Equal(t, int32(0), atomic.LoadInt32(&r.calls))

	_, submitted = v.Ask(context.Background(), "")
	assert.False(t, submitted)
	assert.Equal(t, int32(0), atomic.LoadInt32(&r.calls))
}

func TestView_AskAnswered(t *testing.T) {
	var gotQuery string
	r := &funcRunner{fn: func(_ context.Context, q string) types.Outcome {
		gotQuery = q
		return answered("A", "B")
	}}
	v := New(r, true, quietLogger())

	st, submitted := v.Ask(context.Background(), "what is gravity")
	require.True(t, submitted)
	assert.Equal(t, "what is gravity", gotQuery)
	assert.Equal(t, Answered, st.Phase)
	assert.Equal(t, []string{"A", "B"}, st.Points)
	assert.False(t, st.Loading)
	assert.Equal(t, "what is gravity", st.Query, "query persists after submit")
}

func TestView_TransportErrorResetsLoading(t *testing.T) {
	r := &funcRunner{fn: func(context.Context, string) types.Outcome {
		return types.Outcome{Kind: types.OutcomeTransportError, Err: errors.New("network down")}
	}}
	v := New(r, true, quietLogger())

	st, _ := v.Ask(context.Background(), "gravity")
	assert.Equal(t, []string{answer.ErrorMessage}, st.Points)
	assert.False(t, st.Loading)
	assert.Equal(t, Error, st.Phase)
}

func TestView_LoadingWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	r := &funcRunner{fn: func(context.Context, string) types.Outcome {
		close(started)
		<-release
		return answered("A")
	}}
	v := New(r, true, quietLogger())
	v.SetQuery("gravity")
	v.state.Points = []string{"previous"}

	done := make(chan State)
	go func() {
		st, _ := v.Submit(context.Background())
		done <- st
	}()

	<-started
	mid := v.Snapshot()
	assert.True(t, mid.Loading)
	assert.Equal(t, Loading, mid.Phase)
	assert.Nil(t, mid.Points, "answer cleared before the lookup returns")

	// Typing continues while loading.
	v.SetQuery("gravity waves")
	assert.Equal(t, "gravity waves", v.Snapshot().Query)

	close(release)
	st := <-done
	assert.Equal(t, []string{"A"}, st.Points)
	assert.Equal(t, "gravity waves", st.Query)
}

// overlapping submits "slow" then "fast"; the slow one completes last.
func overlapping(t *testing.T, guard bool) State {
	t.Helper()

	slowRelease := make(chan struct{})
	slowStarted := make(chan struct{})
	r := &funcRunner{fn: func(_ context.Context, q string) types.Outcome {
		if q == "slow" {
			close(slowStarted)
			<-slowRelease
		}
		return answered(q)
	}}
	v := New(r, guard, quietLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		v.Ask(context.Background(), "slow")
	}()
	<-slowStarted

	fast, _ := v.Ask(context.Background(), "fast")
	assert.Equal(t, []string{"fast"}, fast.Points)

	close(slowRelease)
	wg.Wait()
	return v.Snapshot()
}

func TestView_OverlappingSubmissions_Guarded(t *testing.T) {
	st := overlapping(t, true)
	assert.Equal(t, []string{"fast"}, st.Points, "latest issued submission wins")
	assert.False(t, st.Loading)
}

func TestView_OverlappingSubmissions_Unguarded(t *testing.T) {
	st := overlapping(t, false)
	assert.Equal(t, []string{"slow"}, st.Points, "latest completed submission wins")
	assert.False(t, st.Loading)
}

func TestView_ContextDeadlinePassedToRunner(t *testing.T) {
	r := &funcRunner{fn: func(ctx context.Context, _ string) types.Outcome {
		<-ctx.Done()
		return types.Outcome{Kind: types.OutcomeTransportError, Err: ctx.Err()}
	}}
	v := New(r, true, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	st, _ := v.Ask(ctx, "gravity")
	assert.Equal(t, Error, st.Phase)
	assert.Contains(t, st.LastError, "deadline")
}

func TestSnapshot_IsACopy(t *testing.T) {
	r := &funcRunner{fn: func(context.Context, string) types.Outcome { return answered("A", "B") }}
	v := New(r, true, quietLogger())
	v.Ask(context.Background(), "q")

	snap := v.Snapshot()
	snap.Points[0] = "mutated"
	assert.Equal(t, []string{"A", "B"}, v.Snapshot().Points)
}
