// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/studyweb/pkg/types"
)

// Memory is an in-process cache backed by patrickmn/go-cache.
type Memory struct {
	c *gocache.Cache
}

// NewMemory creates a Memory cache whose entries expire after ttl.
// Expired entries are purged every 2*ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{c: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached page for topic or ErrMiss.
func (m *Memory) Get(ctx context.Context, topic string) (types.PageExtract, error) {
	if err := ctx.Err(); err != nil {
		return types.PageExtract{}, err
	}
	v, found := m.c.Get(key(topic))
	if !found {
		return types.PageExtract{}, ErrMiss
	}
	data, ok := v.([]byte)
	if !ok {
		return types.PageExtract{}, ErrMiss
	}
	var page types.PageExtract
	if err := json.Unmarshal(data, &page); err != nil {
		return types.PageExtract{}, fmt.Errorf("decoding cached page: %w", err)
	}
	return page, nil
}

// Set stores page under topic with the default expiration.
func (m *Memory) Set(ctx context.Context, topic string, page types.PageExtract) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encoding page: %w", err)
	}
	m.c.SetDefault(key(topic), data)
	return nil
}

// Len returns the number of entries, including expired ones not yet purged.
func (m *Memory) Len() int {
	return m.c.ItemCount()
}

// Close drops all entries.
func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
