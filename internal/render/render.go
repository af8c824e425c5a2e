// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes a view's answer as text, JSON, or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/studyweb/internal/view"
)

// Document is the machine-readable form of an answered view.
type Document struct {
	Query    string   `json:"query" yaml:"query"`
	Topic    string   `json:"topic" yaml:"topic"`
	Phase    string   `json:"phase" yaml:"phase"`
	Points   []string `json:"points" yaml:"points"`
	Details  string   `json:"details,omitempty" yaml:"details,omitempty"`
	ImageURL string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// FromState builds a Document from a view snapshot.
func FromState(s view.State) Document {
	points := s.Points
	if points == nil {
		points = []string{}
	}
	return Document{
		Query:    s.Query,
		Topic:    s.Topic,
		Phase:    s.Phase.String(),
		Points:   points,
		Details:  s.Details,
		ImageURL: s.ImageURL,
		Error:    s.LastError,
	}
}

// Text writes the answer the way the page lays it out: a bulleted
// direct answer, then the explanation and image when present. Nothing is
// written while the view has no answer.
func Text(w io.Writer, s view.State) error {
	if s.Loading {
		_, err := fmt.Fprintln(w, "Searching...")
		return err
	}
	if len(s.Points) == 0 {
		return nil
	}

	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("Direct Answer:\n")
	for _, p := range s.Points {
		printf("  • %s\n", p)
	}
	if s.Details != "" {
		printf("\nBrief Explanation:\n  %s\n", s.Details)
	}
	if s.ImageURL != "" {
		printf("\nImage: %s\n", s.ImageURL)
	}
	return err
}

// JSON writes doc as indented JSON.
func JSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// YAML writes doc as YAML.
func YAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
