// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores encyclopedia page extracts by topic so repeated
// questions about the same topic skip the network. Only pages are kept;
// questions and shaped answers are never stored.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/studyweb/pkg/types"
)

// ErrMiss is returned by backends when a topic is absent or expired.
var ErrMiss = errors.New("cache: page not found")

const (
	keyPrefix  = "page"
	defaultTTL = time.Hour
)

// PageCache stores page extracts keyed by topic.
type PageCache interface {
	Get(ctx context.Context, topic string) (types.PageExtract, error)
	Set(ctx context.Context, topic string, page types.PageExtract) error
	Close() error
}

// New returns the backend selected by cfg. An empty backend means none.
func New(cfg types.CacheConfig) (PageCache, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	switch cfg.Backend {
	case types.CacheNone, "":
		return Noop{}, nil
	case types.CacheMemory:
		return NewMemory(ttl), nil
	case types.CacheSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("cache backend sqlite requires a path")
		}
		return NewSQLite(cfg.Path, ttl)
	default:
		return nil, fmt.Errorf("unsupported cache backend %q: use none, memory, or sqlite", cfg.Backend)
	}
}

func key(topic string) string {
	return keyPrefix + ":" + topic
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (types.PageExtract, error) {
	return types.PageExtract{}, ErrMiss
}

func (Noop) Set(context.Context, string, types.PageExtract) error { return nil }

func (Noop) Close() error { return nil }
