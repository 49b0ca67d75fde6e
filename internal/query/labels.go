package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jask/accountdeck/internal/database/repository"
)

// Selector tokens accepted on the command line and in config. The first
// token of each list is the canonical spelling.
var (
	suggestionTokens = map[Suggestions][]string{
		SuggestionsAny:    {"any", "all"},
		SuggestionsHas:    {"has", "yes", "with"},
		SuggestionsHasNot: {"has-not", "no", "without"},
	}
	periodTokens = map[Period][]string{
		PeriodAny:    {"any", "all"},
		PeriodBefore: {"before"},
		PeriodWindow: {"window", "range"},
		PeriodAfter:  {"after"},
	}
	sortTokens = map[SortKey][]string{
		SortFriendsDesc:    {"friends", "friendsdesc"},
		SortLastUpdatedAsc: {"updated", "lastupdateasc", "last-updated"},
		SortCreatedDesc:    {"created", "createddesc"},
	}
)

// ParseStatus maps a selector string to a status; "any", "all" and anything
// unrecognised select every status.
func ParseStatus(s string) (repository.Status, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" || norm == "any" || norm == "all" {
		return AnyStatus, true
	}
	if st, ok := repository.ParseStatus(norm); ok {
		return st, true
	}
	return AnyStatus, false
}

// ParseSuggestions maps a selector string; unknown input yields SuggestionsAny
// and false.
func ParseSuggestions(s string) (Suggestions, bool) {
	v, ok := lookup(suggestionTokens, s)
	return v, ok
}

// ParsePeriod maps a selector string for the bounds b: a word such as
// "before", or the year forms "<2024", ">2024" and "2023-2024" spelled with
// b's own years. Anything else, including other years, yields PeriodAny and
// false.
func ParsePeriod(s string, b Periods) (Period, bool) {
	if b == (Periods{}) {
		b = PeriodsFor(DefaultCutoffYear)
	}
	switch strings.ReplaceAll(strings.TrimSpace(s), " ", "") {
	case fmt.Sprintf("<%d", b.Cutoff):
		return PeriodBefore, true
	case fmt.Sprintf(">%d", b.Cutoff):
		return PeriodAfter, true
	case fmt.Sprintf("%d-%d", b.Low, b.High):
		return PeriodWindow, true
	}
	v, ok := lookup(periodTokens, s)
	return v, ok
}

// ParseSortKey maps a selector string; unknown input yields SortFriendsDesc
// and false.
func ParseSortKey(s string) (SortKey, bool) {
	v, ok := lookup(sortTokens, s)
	return v, ok
}

func lookup[K comparable](table map[K][]string, s string) (K, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for k, tokens := range table {
		for _, t := range tokens {
			if norm == t {
				return k, true
			}
		}
	}
	var zero K
	return zero, false
}

// Tokens returns every canonical selector spelling, used for hints.
func Tokens() []string {
	out := []string{"any"}
	for _, st := range repository.Statuses() {
		out = append(out, strings.ToLower(string(st)))
	}
	for k, v := range suggestionTokens {
		if k != SuggestionsAny {
			out = append(out, v[0])
		}
	}
	for k, v := range periodTokens {
		if k != PeriodAny {
			out = append(out, v[0])
		}
	}
	for _, v := range sortTokens {
		out = append(out, v[0])
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (s Suggestions) String() string {
	switch s {
	case SuggestionsHas:
		return "With Suggestions"
	case SuggestionsHasNot:
		return "No Suggestions"
	}
	return "Suggestions: All"
}

// Label renders the period using the configured bounds.
func (p Period) Label(b Periods) string {
	switch p {
	case PeriodBefore:
		return fmt.Sprintf("Before %d", b.Cutoff)
	case PeriodWindow:
		return fmt.Sprintf("%d - %d", b.Low, b.High)
	case PeriodAfter:
		return fmt.Sprintf("After %d", b.Cutoff)
	}
	return "Created: Any Time"
}

func (k SortKey) String() string {
	switch k {
	case SortLastUpdatedAsc:
		return "Last Update (Oldest)"
	case SortCreatedDesc:
		return "Created (Newest)"
	}
	return "Friends (High-Low)"
}

// StatusLabel renders a status selector.
func StatusLabel(s repository.Status) string {
	if s == AnyStatus {
		return "Status: All"
	}
	return string(s)
}
