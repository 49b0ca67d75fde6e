// Package dashboard owns the operator-facing state of the account table:
// the active filter, the current page, the selection and any destructive
// action waiting for confirmation. Transitions are plain functions over
// State; Controller applies them against a Store.
package dashboard

import (
	"github.com/jask/accountdeck/internal/database/repository"
	"github.com/jask/accountdeck/internal/query"
)

// State is the complete UI state of one session. It holds no derived data.
type State struct {
	Filter    query.Filter
	Page      int
	PageSize  int
	Selection Selection
	Pending   *Confirmation
}

// Confirmation is a delete waiting for the operator to confirm.
type Confirmation struct {
	IDs  []string
	Bulk bool // came from the selection
}

// NewState returns the initial state: empty filter, first page.
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = query.DefaultPageSize
	}
	return State{Page: 1, PageSize: pageSize, Selection: Selection{}}
}

// View is everything the presentation layer needs for one frame.
type View struct {
	State
	Window  query.Page
	Buttons []int
	Rows    int // accounts in the store
	Active  int // accounts in the store with StatusActive
}

// Derive computes the view of records under s.
func Derive(s State, records []repository.Account, p query.Periods) View {
	rows := query.ComputeView(records, s.Filter, p)
	win := query.Paginate(rows, s.Page, s.PageSize)
	v := View{
		State:   s,
		Window:  win,
		Buttons: query.PageButtons(win.Page, win.TotalPages),
		Rows:    len(records),
	}
	v.State.Page = win.Page
	for _, a := range records {
		if a.Status == repository.StatusActive {
			v.Active++
		}
	}
	return v
}

// Reduce applies an event that does not touch the store. Store events are
// returned unchanged; Controller handles them.
func Reduce(s State, ev Event, records []repository.Account, p query.Periods) State {
	switch e := ev.(type) {
	case FilterChanged:
		s.Filter = e.Filter
		s.Page = 1
		s.Selection = Selection{}
	case PageRequested:
		s.Page = clampedPage(s, e.Page, records, p)
	case PageStep:
		s.Page = clampedPage(s, s.Page+e.Delta, records, p)
	case SelectToggled:
		s.Selection = s.Selection.Toggle(e.ID)
	case PageSelectionToggled:
		page := query.Paginate(query.ComputeView(records, s.Filter, p), s.Page, s.PageSize)
		s.Selection = s.Selection.TogglePage(page.Items)
	case DeleteRequested:
		ids, bulk := e.IDs, false
		if len(ids) == 0 {
			ids, bulk = s.Selection.IDs(), true
		}
		if len(ids) > 0 {
			s.Pending = &Confirmation{IDs: ids, Bulk: bulk}
		}
	case Cancelled:
		s.Pending = nil
	}
	return s
}

// Reconcile brings s back in line with records after a store mutation: the
// page is clamped to the new page count and ids that left the store are
// dropped from the selection. Ids whose attributes changed stay selected.
func Reconcile(s State, records []repository.Account, p query.Periods) State {
	s.Page = clampedPage(s, s.Page, records, p)
	s.Selection = s.Selection.Retain(records)
	return s
}

func clampedPage(s State, page int, records []repository.Account, p query.Periods) int {
	n := len(query.ComputeView(records, s.Filter, p))
	return query.ClampPage(page, query.TotalPages(n, s.PageSize))
}
