// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topic derives a lookup topic from a free-text question and
// holds the small string heuristics used to shape an answer.
//
// The heuristics are deliberately naive: stopwords are stripped as
// substrings, not whole words, so "theory" loses its "the". Callers rely
// on this exact behaviour.
package topic

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stopwords is matched leftmost-first, so the order matters where one
// entry is a prefix of another ("uses" before "use").
var stopwords = regexp.MustCompile(`define|what is|two|three|four|uses|use|functions|function|of|the`)

// SentenceDelimiter splits an extract into sentences.
const SentenceDelimiter = ". "

// DefaultPoints is the number of answer points when the question does not
// ask for three or four.
const DefaultPoints = 2

// ExtractTopic lower-cases text, removes every stopword occurrence, and
// trims surrounding whitespace. Interior whitespace is left as is.
func ExtractTopic(text string) string {
	cleaned := stopwords.ReplaceAllString(Lower(text), "")
	return strings.TrimSpace(cleaned)
}

// Lower applies the locale-independent full Unicode lower-case mapping:
// a word-final "Σ" becomes "ς" and "İ" becomes "i" plus a combining dot.
// strings.ToLower maps rune by rune and gets both wrong.
func Lower(s string) string {
	// A Caser holds state, so each call gets its own.
	return cases.Lower(language.Und).String(s)
}

// PointsCount returns how many leading sentences make up the direct
// answer. It inspects the raw question, not the extracted topic: "four"
// anywhere yields 4, otherwise "three" yields 3, otherwise 2.
func PointsCount(query string) int {
	lower := Lower(query)
	n := DefaultPoints
	if strings.Contains(lower, "three") {
		n = 3
	}
	if strings.Contains(lower, "four") {
		n = 4
	}
	return n
}

// SplitSentences splits an extract on the literal ". " delimiter. It is
// not abbreviation-aware and ignores "!" and "?".
func SplitSentences(extract string) []string {
	return strings.Split(extract, SentenceDelimiter)
}
