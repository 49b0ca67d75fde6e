package main

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/jask/accountdeck/internal/query"
)

// maxHintDistance bounds how far a typo may be from a known token.
const maxHintDistance = 3

// suggestToken returns the known selector token closest to s, if any is
// within maxHintDistance edits.
func suggestToken(s string) (string, bool) {
	best, bestDist := "", maxHintDistance+1
	for _, tok := range query.Tokens() {
		if d := levenshtein.ComputeDistance(s, tok); d < bestDist {
			best, bestDist = tok, d
		}
	}
	return best, best != ""
}

// unknownSelector formats the warning printed when a selector falls back to
// "any".
func unknownSelector(flag, value string) string {
	msg := fmt.Sprintf("unknown --%s %q, showing any", flag, value)
	if hint, ok := suggestToken(value); ok {
		msg += fmt.Sprintf(" (did you mean %q?)", hint)
	}
	return msg
}
