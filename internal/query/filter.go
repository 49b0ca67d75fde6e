// Package query derives the visible account rows from the full collection:
// filtering, stable sorting and page windows. Everything here is pure.
package query

import (
	"strings"

	"github.com/jask/accountdeck/internal/database/repository"
)

// AnyStatus is the status selector that matches every record.
const AnyStatus repository.Status = ""

// Suggestions selects on the pending friend-suggestions flag.
type Suggestions int

const (
	SuggestionsAny Suggestions = iota
	SuggestionsHas
	SuggestionsHasNot
)

// Period selects on the creation year relative to the configured cutoff.
type Period int

const (
	PeriodAny Period = iota
	PeriodBefore
	PeriodWindow
	PeriodAfter
)

// SortKey is the single active ordering of a view.
type SortKey int

const (
	SortFriendsDesc SortKey = iota
	SortLastUpdatedAsc
	SortCreatedDesc
)

// Filter is the value object describing a view. The zero value matches
// everything and sorts by friend count, highest first.
type Filter struct {
	Search      string
	Status      repository.Status
	Suggestions Suggestions
	Created     Period
	Sort        SortKey
}

// Periods holds the creation-year bounds. Before/After compare against
// Cutoff; Window is the inclusive range [Low, High].
type Periods struct {
	Cutoff int
	Low    int
	High   int
}

// DefaultCutoffYear is the reference cutoff for the creation-period selector.
const DefaultCutoffYear = 2024

// PeriodsFor builds the period bounds for a cutoff year, with the window
// covering the cutoff and the year before it.
func PeriodsFor(cutoff int) Periods {
	if cutoff <= 0 {
		cutoff = DefaultCutoffYear
	}
	return Periods{Cutoff: cutoff, Low: cutoff - 1, High: cutoff}
}

// Matches reports whether a satisfies every active predicate of f. Predicates
// are checked cheapest first and stop at the first failure.
func Matches(a repository.Account, f Filter, p Periods) bool {
	if f.Status != AnyStatus && a.Status != f.Status {
		return false
	}
	switch f.Suggestions {
	case SuggestionsHas:
		if !a.HasSuggestions {
			return false
		}
	case SuggestionsHasNot:
		if a.HasSuggestions {
			return false
		}
	}
	if !matchesPeriod(a, f.Created, p) {
		return false
	}
	return matchesSearch(a, f.Search)
}

func matchesSearch(a repository.Account, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(a.Name), q) {
		return true
	}
	if strings.Contains(a.UID, q) {
		return true
	}
	return a.Notes != "" && strings.Contains(strings.ToLower(a.Notes), q)
}

func matchesPeriod(a repository.Account, period Period, p Periods) bool {
	if period == PeriodAny {
		return true
	}
	// unknown creation date cannot satisfy a year bound
	if a.CreatedAt.IsZero() {
		return false
	}
	year := a.CreatedAt.Year()
	switch period {
	case PeriodBefore:
		return year < p.Cutoff
	case PeriodAfter:
		return year > p.Cutoff
	case PeriodWindow:
		return year >= p.Low && year <= p.High
	}
	return true
}
