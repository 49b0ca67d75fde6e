package dashboard

import (
	"slices"

	"github.com/jask/accountdeck/internal/database/repository"
)

// Selection is the set of account ids checked by the operator.
type Selection map[string]struct{}

func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Selection) Len() int { return len(s) }

// IDs returns the selected ids in sorted order.
func (s Selection) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Toggle returns a copy with id flipped.
func (s Selection) Toggle(id string) Selection {
	next := s.clone()
	if next.Has(id) {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return next
}

// TogglePage flips the selection of the visible page only: when every row on
// the page is already selected those rows are deselected, otherwise all of
// them are added. Ids outside the page are left alone.
func (s Selection) TogglePage(page []repository.Account) Selection {
	if len(page) == 0 {
		return s
	}
	next := s.clone()
	all := true
	for _, a := range page {
		if !s.Has(a.ID) {
			all = false
			break
		}
	}
	for _, a := range page {
		if all {
			delete(next, a.ID)
		} else {
			next[a.ID] = struct{}{}
		}
	}
	return next
}

// PageFullySelected reports whether every row of a non-empty page is selected.
func (s Selection) PageFullySelected(page []repository.Account) bool {
	if len(page) == 0 {
		return false
	}
	for _, a := range page {
		if !s.Has(a.ID) {
			return false
		}
	}
	return true
}

// Retain drops ids that are not present in records.
func (s Selection) Retain(records []repository.Account) Selection {
	if len(s) == 0 {
		return s
	}
	present := make(map[string]struct{}, len(records))
	for _, a := range records {
		present[a.ID] = struct{}{}
	}
	next := make(Selection, len(s))
	for id := range s {
		if _, ok := present[id]; ok {
			next[id] = struct{}{}
		}
	}
	return next
}

func (s Selection) clone() Selection {
	next := make(Selection, len(s)+1)
	for id := range s {
		next[id] = struct{}{}
	}
	return next
}
