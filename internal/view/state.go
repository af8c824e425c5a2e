// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package view holds the state of one long-lived question view and the
// transitions between its phases:
//
//	Idle → Loading → {Answered, Empty, Error} → Loading → ...
//
// State values are snapshots; the reducers return new values and never
// modify their input.
package view

import (
	"slices"

	"github.com/pdiddy/studyweb/internal/answer"
	"github.com/pdiddy/studyweb/pkg/types"
)

// Phase is the coarse state of the view.
type Phase int

const (
	Idle Phase = iota
	Loading
	Answered
	Empty
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Answered:
		return "answered"
	case Empty:
		return "empty"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of the view.
type State struct {
	Query    string
	Topic    string
	Points   []string
	Details  string
	ImageURL string
	Loading  bool
	Phase    Phase

	// Generation is the number of the latest submission issued.
	Generation uint64

	// LastError describes the most recent transport failure, if the
	// current answer is an error.
	LastError string
}

// clone returns s with its slices copied.
func (s State) clone() State {
	s.Points = slices.Clone(s.Points)
	return s
}

// SetQuery records a keystroke-level edit. It never touches the answer.
func SetQuery(s State, q string) State {
	s = s.clone()
	s.Query = q
	return s
}

// Begin enters Loading for a new submission. The answer fields are
// cleared before the lookup starts. It returns the new state and the
// generation assigned to the submission.
func Begin(s State) (State, uint64) {
	s = s.clone()
	s.Generation++
	s.Points = nil
	s.Details = ""
	s.ImageURL = ""
	s.Topic = ""
	s.LastError = ""
	s.Loading = true
	s.Phase = Loading
	return s, s.Generation
}

// Complete applies the outcome of submission gen. With guard set, an
// outcome from a submission that is no longer the latest is dropped and
// ok is false. Without guard the last completion wins, matching a view
// with no request tracking.
func Complete(s State, gen uint64, o types.Outcome, guard bool) (next State, ok bool) {
	if guard && gen != s.Generation {
		return s, false
	}

	shown := answer.Display(o)

	s = s.clone()
	s.Topic = shown.Topic
	s.Points = slices.Clone(shown.Points)
	s.Details = shown.Details
	s.ImageURL = shown.ImageURL
	s.Loading = false
	s.LastError = ""

	switch o.Kind {
	case types.OutcomeAnswered:
		s.Phase = Answered
	case types.OutcomeNotFound:
		s.Phase = Empty
	default:
		s.Phase = Error
		if o.Err != nil {
			s.LastError = o.Err.Error()
		}
	}
	return s, true
}
