package dashboard

import (
	"github.com/jask/accountdeck/internal/database/repository"
	"github.com/jask/accountdeck/internal/query"
)

// Event is a discrete operator action sent by the presentation layer.
type Event interface {
	event()
}

// FilterChanged replaces the active filter.
type FilterChanged struct{ Filter query.Filter }

// PageRequested jumps to a page number; out-of-range numbers are clamped.
type PageRequested struct{ Page int }

// PageStep moves by Delta pages.
type PageStep struct{ Delta int }

// SelectToggled flips one id.
type SelectToggled struct{ ID string }

// PageSelectionToggled is the select-all checkbox of the current page.
type PageSelectionToggled struct{}

// DeleteRequested asks to delete IDs, or the selection when IDs is empty.
// Nothing is removed until Confirmed.
type DeleteRequested struct{ IDs []string }

// Confirmed executes the pending delete.
type Confirmed struct{}

// Cancelled drops the pending delete.
type Cancelled struct{}

// StatusRequested sets Status on every selected account.
type StatusRequested struct{ Status repository.Status }

// Edited applies typed field edits to one account.
type Edited struct {
	ID    string
	Edits []repository.Edit
}

// Upserted inserts or replaces a whole account.
type Upserted struct{ Account repository.Account }

// Refreshed reloads the store after an outside change.
type Refreshed struct{}

func (FilterChanged) event()        {}
func (PageRequested) event()        {}
func (PageStep) event()             {}
func (SelectToggled) event()        {}
func (PageSelectionToggled) event() {}
func (DeleteRequested) event()      {}
func (Confirmed) event()            {}
func (Cancelled) event()            {}
func (StatusRequested) event()      {}
func (Edited) event()               {}
func (Upserted) event()             {}
func (Refreshed) event()            {}
