// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer turns a question into a direct answer: it derives the
// topic, looks up the page extract, and shapes the leading sentences
// into answer points and a short explanation.
package answer

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/studyweb/internal/cache"
	"github.com/pdiddy/studyweb/internal/topic"
	"github.com/pdiddy/studyweb/pkg/types"
)

// Messages shown in place of answer points.
const (
	NotFoundMessage = "No academic answer found."
	ErrorMessage    = "Error fetching data."
)

// detailSentences is how many sentences follow the points as explanation.
const detailSentences = 2

// Looker fetches the page extract for a topic.
type Looker interface {
	Lookup(ctx context.Context, topic string) (types.PageExtract, error)
}

// Pipeline runs one question through lookup and shaping.
type Pipeline struct {
	Lookup Looker
	// Cache is optional; nil disables caching.
	Cache cache.PageCache
	Log   logrus.FieldLogger
}

// New returns a Pipeline. A nil cache disables caching and a nil logger
// uses the logrus standard logger.
func New(lookup Looker, c cache.PageCache, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{Lookup: lookup, Cache: c, Log: log}
}

// Run answers query. It never returns an error: failures are reported in
// the outcome so callers can render every branch the same way.
func (p *Pipeline) Run(ctx context.Context, query string) types.Outcome {
	t := topic.ExtractTopic(query)
	log := p.logger().WithField("topic", t)

	page, err := p.page(ctx, t)
	if err != nil {
		log.WithError(err).Warn("lookup failed")
		return types.Outcome{
			Kind:   types.OutcomeTransportError,
			Answer: types.Answer{Topic: t},
			Err:    err,
		}
	}

	// An empty extract counts as missing.
	if !page.HasExtract() || *page.Extract == "" {
		log.Info("no extract for topic")
		return types.Outcome{
			Kind:   types.OutcomeNotFound,
			Answer: types.Answer{Topic: t},
		}
	}

	a := Shape(query, page)
	log.WithField("points", len(a.Points)).Debug("answer shaped")
	return types.Outcome{Kind: types.OutcomeAnswered, Answer: a}
}

// page consults the cache before the lookup. Cache failures are logged
// and otherwise ignored.
func (p *Pipeline) page(ctx context.Context, t string) (types.PageExtract, error) {
	log := p.logger().WithField("topic", t)

	if p.Cache != nil {
		page, err := p.Cache.Get(ctx, t)
		if err == nil {
			log.Debug("cache hit")
			return page, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.WithError(err).Warn("cache read failed")
		}
	}

	page, err := p.Lookup.Lookup(ctx, t)
	if err != nil {
		return types.PageExtract{}, err
	}

	if p.Cache != nil {
		if err := p.Cache.Set(ctx, t, page); err != nil {
			log.WithError(err).Warn("cache write failed")
		}
	}
	return page, nil
}

func (p *Pipeline) logger() logrus.FieldLogger {
	if p.Log != nil {
		return p.Log
	}
	return logrus.StandardLogger()
}

// Shape builds the answer for query from a page that has an extract.
// Points are the first PointsCount(query) sentences, or fewer when the
// extract is short. Details joins the next two sentences with ". ".
func Shape(query string, page types.PageExtract) types.Answer {
	var extract string
	if page.Extract != nil {
		extract = *page.Extract
	}

	sentences := topic.SplitSentences(extract)
	n := topic.PointsCount(query)

	pointsEnd := min(n, len(sentences))
	detailsEnd := min(n+detailSentences, len(sentences))

	points := make([]string, pointsEnd)
	copy(points, sentences[:pointsEnd])

	var details string
	if pointsEnd < detailsEnd {
		details = strings.Join(sentences[pointsEnd:detailsEnd], topic.SentenceDelimiter)
	}

	return types.Answer{
		Topic:    topic.ExtractTopic(query),
		Points:   points,
		Details:  details,
		ImageURL: page.ImageURL,
	}
}

// Display returns the fields a view renders for o. Not-found and error
// outcomes occupy the points slot with a single message and leave the
// details and image empty.
func Display(o types.Outcome) types.Answer {
	switch o.Kind {
	case types.OutcomeAnswered:
		return o.Answer
	case types.OutcomeNotFound:
		return types.Answer{Topic: o.Answer.Topic, Points: []string{NotFoundMessage}}
	default:
		return types.Answer{Topic: o.Answer.Topic, Points: []string{ErrorMessage}}
	}
}
