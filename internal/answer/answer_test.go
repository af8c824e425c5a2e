// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/studyweb/internal/cache"
	"github.com/pdiddy/studyweb/internal/encyclopedia"
	"github.com/pdiddy/studyweb/pkg/types"
)

func strPtr(s string) *string { return &s }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// stubLooker records the topics it was asked for.
type stubLooker struct {
	page   types.PageExtract
	err    error
	topics []string
}

func (s *stubLooker) Lookup(_ context.Context, topic string) (types.PageExtract, error) {
	s.topics = append(s.topics, topic)
	return s.page, s.err
}

// --- Shape ---

func TestShape(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		extract     string
		wantPoints  []string
		wantDetails string
	}{
		{
			name:        "default two points",
			query:       "what is gravity",
			extract:     "A. B. C. D.",
			wantPoints:  []string{"A", "B"},
			wantDetails: "C. D.",
		},
		{
			name:        "three points",
			query:       "three uses of water",
			extract:     "A. B. C. D. E. F.",
			wantPoints:  []string{"A", "B", "C"},
			wantDetails: "D. E",
		},
		{
			name:        "four wins over three",
			query:       "three or four facts about mars",
			extract:     "A. B. C. D. E. F. G.",
			wantPoints:  []string{"A", "B", "C", "D"},
			wantDetails: "E. F",
		},
		{
			name:        "fewer sentences than points",
			query:       "four functions of the kidney",
			extract:     "Only one. And two.",
			wantPoints:  []string{"Only one", "And two."},
			wantDetails: "",
		},
		{
			name:        "single detail sentence",
			query:       "define osmosis",
			extract:     "A. B. C.",
			wantPoints:  []string{"A", "B"},
			wantDetails: "C.",
		},
		{
			name:        "no delimiter",
			query:       "define osmosis",
			extract:     "Osmosis is diffusion of water",
			wantPoints:  []string{"Osmosis is diffusion of water"},
			wantDetails: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shape(tt.query, types.PageExtract{Extract: strPtr(tt.extract)})
			assert.Equal(t, tt.wantPoints, got.Points)
			assert.Equal(t, tt.wantDetails, got.Details)
		})
	}
}

func TestShape_PointsNeverExceedSentences(t *testing.T) {
	extracts := []string{"", "One", "One. Two", "One. Two. Three"}
	queries := []string{"x", "three x", "four x"}
	for _, e := range extracts {
		for _, q := range queries {
			got := Shape(q, types.PageExtract{Extract: strPtr(e)})
			assert.LessOrEqual(t, len(got.Points), len(strings.Split(e, ". ")), "extract %q query %q", e, q)
		}
	}
}

func TestShape_ImageAndTopic(t *testing.T) {
	got := Shape("define photosynthesis", types.PageExtract{
		Extract:  strPtr("S1. S2. S3. S4. S5."),
		ImageURL: "https://upload.wikimedia.org/leaf.png",
	})
	assert.Equal(t, "photosynsis", got.Topic)
	assert.Equal(t, []string{"S1", "S2"}, got.Points)
	assert.Equal(t, "S3. S4", got.Details)
	assert.Equal(t, "https://upload.wikimedia.org/leaf.png", got.ImageURL)
}

// --- Run ---

func TestRun_Answered(t *testing.T) {
	look := &stubLooker{page: types.PageExtract{Title: "Gravity", Extract: strPtr("A. B. C. D.")}}
	p := New(look, nil, quietLogger())

	out := p.Run(context.Background(), "what is gravity")
	require.Equal(t, types.OutcomeAnswered, out.Kind)
	assert.Equal(t, []string{"gravity"}, look.topics)
	assert.Equal(t, []string{"A", "B"}, out.Answer.Points)
	assert.Equal(t, "C. D.", out.Answer.Details)
	assert.Empty(t, out.Answer.ImageURL)
	assert.NoError(t, out.Err)
}

func TestRun_NotFound(t *testing.T) {
	for name, page := range map[string]types.PageExtract{
		"no extract field": {Title: "Qwxzv", ImageURL: "https://example.org/ignored.png"},
		"empty extract":    {Title: "Blank", Extract: strPtr("")},
	} {
		t.Run(name, func(t *testing.T) {
			p := New(&stubLooker{page: page}, nil, quietLogger())
			out := p.Run(context.Background(), "define qwxzv")
			assert.Equal(t, types.OutcomeNotFound, out.Kind)

			shown := Display(out)
			assert.Equal(t, []string{NotFoundMessage}, shown.Points)
			assert.Empty(t, shown.Details)
			assert.Empty(t, shown.ImageURL)
		})
	}
}

func TestRun_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	p := New(&stubLooker{err: boom}, nil, quietLogger())

	out := p.Run(context.Background(), "what is gravity")
	assert.Equal(t, types.OutcomeTransportError, out.Kind)
	assert.ErrorIs(t, out.Err, boom)
	assert.Equal(t, "gravity", out.Answer.Topic)

	shown := Display(out)
	assert.Equal(t, []string{ErrorMessage}, shown.Points)
	assert.Empty(t, shown.Details)
	assert.Empty(t, shown.ImageURL)
}

func TestRun_UsesCache(t *testing.T) {
	look := &stubLooker{page: types.PageExtract{Extract: strPtr("A. B.")}}
	c := cache.NewMemory(time.Minute)
	p := New(look, c, quietLogger())

	first := p.Run(context.Background(), "define osmosis")
	second := p.Run(context.Background(), "what is osmosis")

	assert.Equal(t, first.Answer.Points, second.Answer.Points)
	assert.Len(t, look.topics, 1, "second run is served from cache")
}

func TestRun_ErrorsAreNotCached(t *testing.T) {
	look := &stubLooker{err: errors.New("timeout")}
	c := cache.NewMemory(time.Minute)
	p := New(look, c, quietLogger())

	p.Run(context.Background(), "osmosis")
	p.Run(context.Background(), "osmosis")
	assert.Len(t, look.topics, 2)
	assert.Equal(t, 0, c.Len())
}

// --- Run against an HTTP stub of the action API ---

func TestRun_EndToEnd(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "gravity", r.URL.Query().Get("titles"))
		w.Write([]byte(`{"query":{"pages":{"1":{"title":"Gravity","extract":"A. B. C. D.","original":{"source":"https://img/g.png"}}}}}`))
	}))
	defer ts.Close()

	client := &encyclopedia.Client{HTTP: ts.Client(), Endpoint: ts.URL, Log: quietLogger()}
	p := New(client, nil, quietLogger())

	out := p.Run(context.Background(), "what is gravity")
	require.Equal(t, types.OutcomeAnswered, out.Kind)
	assert.Equal(t, []string{"A", "B"}, out.Answer.Points)
	assert.Equal(t, "C. D.", out.Answer.Details)
	assert.Equal(t, "https://img/g.png", out.Answer.ImageURL)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRun_EndToEndMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"batchcomplete":""}`))
	}))
	defer ts.Close()

	client := &encyclopedia.Client{HTTP: ts.Client(), Endpoint: ts.URL, Log: quietLogger()}
	out := New(client, nil, quietLogger()).Run(context.Background(), "gravity")

	assert.Equal(t, types.OutcomeTransportError, out.Kind)
	assert.ErrorIs(t, out.Err, encyclopedia.ErrMalformedResponse)
}
