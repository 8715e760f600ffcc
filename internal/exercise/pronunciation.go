package exercise

import "strings"

const (
	// ScoreCorrect is awarded when any target word was heard.
	ScoreCorrect = 100
	// ScoreIncorrect is awarded otherwise. There is no partial credit.
	ScoreIncorrect = 0

	verdictCorrect   = "Correct pronunciation!"
	verdictIncorrect = "Try again."
)

// Matches reports whether the case-folded transcript contains any case-folded
// target word as a substring. "cap" therefore matches "caption".
func Matches(transcript string, targets []string) bool {
	heard := strings.ToLower(transcript)
	for _, word := range targets {
		if strings.Contains(heard, strings.ToLower(word)) {
			return true
		}
	}
	return false
}

// Score returns ScoreCorrect if Matches, ScoreIncorrect otherwise.
func Score(transcript string, targets []string) int {
	if Matches(transcript, targets) {
		return ScoreCorrect
	}
	return ScoreIncorrect
}

// Verdict is the short spoken response for a scored attempt.
func Verdict(matched bool) string {
	if matched {
		return verdictCorrect
	}
	return verdictIncorrect
}
