// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package encyclopedia looks up page extracts from the Wikipedia action API.
package encyclopedia

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/studyweb/internal/httputil"
	"github.com/pdiddy/studyweb/pkg/types"
)

// DefaultEndpoint is the English Wikipedia action API. Declared as a var
// so tests can substitute an httptest server.
var DefaultEndpoint = "https://en.wikipedia.org/w/api.php"

// ErrMalformedResponse is returned when the body decodes but lacks the
// query.pages mapping or the mapping is empty.
var ErrMalformedResponse = errors.New("malformed encyclopedia response")

// Client queries the action API for a page extract and original image.
type Client struct {
	HTTP      *http.Client
	Endpoint  string
	UserAgent string
	Log       logrus.FieldLogger
}

// NewClient builds a Client from cfg, filling in the default endpoint.
func NewClient(cfg types.LookupConfig, log logrus.FieldLogger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		Endpoint:  endpoint,
		UserAgent: cfg.UserAgent,
		Log:       log,
	}
}

// Lookup fetches the plain-text extract and original image for the page
// titled topic. It issues exactly one GET request.
//
// A page without an extract is not an error: the returned PageExtract has
// a nil Extract. Transport failures, non-2xx statuses, undecodable bodies
// and missing page mappings are errors.
func (c *Client) Lookup(ctx context.Context, topic string) (types.PageExtract, error) {
	reqURL := buildURL(c.endpoint(), topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.PageExtract{}, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	c.logger().WithField("topic", topic).Debug("encyclopedia lookup")

	var qr queryResponse
	if err := httputil.GetJSON(ctx, c.HTTP, req, &qr); err != nil {
		return types.PageExtract{}, fmt.Errorf("encyclopedia request: %w", err)
	}
	if qr.Query == nil || qr.Query.Pages == nil {
		return types.PageExtract{}, fmt.Errorf("%w: missing query.pages", ErrMalformedResponse)
	}
	if len(qr.Query.Pages.entries) == 0 {
		return types.PageExtract{}, fmt.Errorf("%w: no pages", ErrMalformedResponse)
	}

	p := qr.Query.Pages.entries[0]
	page := types.PageExtract{
		Title:   p.Title,
		Extract: p.Extract,
	}
	if p.Original != nil {
		page.ImageURL = p.Original.Source
	}
	return page, nil
}

func (c *Client) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return DefaultEndpoint
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Log != nil {
		return c.Log
	}
	return logrus.StandardLogger()
}

// buildURL assembles the lookup URL. The parameter order follows the
// browser request the page sends; explaintext is a bare flag.
func buildURL(endpoint, topic string) string {
	return endpoint +
		"?action=query" +
		"&prop=" + url.QueryEscape("extracts|pageimages") +
		"&explaintext" +
		"&piprop=original" +
		"&titles=" + url.QueryEscape(topic) +
		"&format=json" +
		"&origin=*"
}

// Action API JSON structures.
type queryResponse struct {
	Query *queryBody `json:"query"`
}

type queryBody struct {
	Pages *pageMap `json:"pages"`
}

type pageEntry struct {
	PageID   int       `json:"pageid"`
	Title    string    `json:"title"`
	Missing  *string   `json:"missing"`
	Extract  *string   `json:"extract"`
	Original *imageRef `json:"original"`
}

type imageRef struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// pageMap decodes the pages object in property order: keys that are
// array indices ("12", "736") first in ascending numeric order, then the
// rest ("-1") in document order. Page keys are opaque ids, so callers
// select the first value rather than a known key.
type pageMap struct {
	entries []pageEntry
}

func (m *pageMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("pages: expected object, got %v", tok)
	}

	type indexed struct {
		index uint32
		entry pageEntry
	}
	var numeric []indexed
	var named []pageEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var e pageEntry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("pages: %w", err)
		}
		if idx, ok := arrayIndex(key); ok {
			numeric = append(numeric, indexed{idx, e})
			continue
		}
		named = append(named, e)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	slices.SortStableFunc(numeric, func(a, b indexed) int {
		return cmp.Compare(a.index, b.index)
	})
	for _, n := range numeric {
		m.entries = append(m.entries, n.entry)
	}
	m.entries = append(m.entries, named...)
	return nil
}

// arrayIndex reports whether key is a canonical array index: decimal
// digits with no leading zero, below 2^32-1.
func arrayIndex(key string) (uint32, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}
