// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for studyweb: the page
// extract returned by the encyclopedia lookup, the shaped answer, the
// tagged pipeline outcome, and configuration.
package types

// PageExtract is the projection of the first page entry returned by an
// encyclopedia lookup. It lives for a single pipeline run.
type PageExtract struct {
	// Title is the page title as normalized by the API.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Extract is the plain-text page body. Nil means the API returned no
	// extract field (missing page, disambiguation, empty body).
	Extract *string `json:"extract,omitempty" yaml:"extract,omitempty"`

	// ImageURL is the source of the page's original image, if any.
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// HasExtract reports whether the page carried an extract field.
func (p PageExtract) HasExtract() bool {
	return p.Extract != nil
}

// Answer holds the fields a view renders for one completed question.
// Points, Details and ImageURL are always replaced together.
type Answer struct {
	// Topic is the search string derived from the question.
	Topic string `json:"topic" yaml:"topic"`

	// Points are the leading sentences of the extract, in source order.
	Points []string `json:"points" yaml:"points"`

	// Details holds the two sentences following Points, joined by ". ".
	Details string `json:"details" yaml:"details"`

	// ImageURL is the page's original image, empty when absent.
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// OutcomeKind classifies a pipeline run.
type OutcomeKind int

const (
	// OutcomeAnswered means the page had an extract and an answer was shaped.
	OutcomeAnswered OutcomeKind = iota
	// OutcomeNotFound means the page entry had no extract.
	OutcomeNotFound
	// OutcomeTransportError covers network, HTTP status, and decode failures.
	OutcomeTransportError
)

// String returns the lowercase name used in logs and JSON output.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAnswered:
		return "answered"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeTransportError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one pipeline run. Answer is meaningful
// only for OutcomeAnswered (Topic is always set); Err only for
// OutcomeTransportError.
type Outcome struct {
	Kind   OutcomeKind
	Answer Answer
	Err    error
}
