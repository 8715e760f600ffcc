// Package exercise holds the pure rules of speech exercises: deriving target
// words, the feedback template, video link normalisation and the
// pronunciation check.
package exercise

import (
	"fmt"
	"regexp"
)

var separators = regexp.MustCompile(`[\s,]+`)

// TargetWords splits description on runs of whitespace and commas, keeping
// the original case and order. Empty leading or trailing pieces are dropped.
func TargetWords(description string) []string {
	parts := separators.Split(description, -1)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// Feedback returns the static coaching text attached to a new assignment.
func Feedback(title string) string {
	return fmt.Sprintf("Let's practice the sound in: %s. Focus on clear pronunciation.", title)
}
