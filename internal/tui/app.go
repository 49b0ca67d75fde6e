package tui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/accountdeck/internal/dashboard"
	"github.com/jask/accountdeck/internal/database/repository"
	"github.com/jask/accountdeck/internal/query"
	"github.com/jask/accountdeck/internal/service"
)

// App is the account dashboard screen.
type App struct {
	ctx      context.Context
	ctrl     *dashboard.Controller
	services Services
	log      *zap.Logger

	view   dashboard.View
	cursor int // row on the current page
	modal  modalState
	status string

	search    textinput.Model
	searching bool
	pathInput textinput.Model

	statusCursor int
	form         editForm
	popupID      string // account shown in the 2FA or cookies popup
	audit        string
	auditing     bool
	lastImport   *service.IngestResult

	now       func() time.Time
	clock     time.Time
	tickGen   int
	copyText  func(string) error
	tickEvery time.Duration
}

// Services are the collaborators outside the dashboard state machine.
type Services struct {
	Auditor *service.Auditor
	Ingest  *service.IngestService
}

type modalState string

const (
	modalNone          modalState = ""
	modalConfirmDelete modalState = "confirmDelete"
	modalStatusPicker  modalState = "statusPicker"
	modalEdit          modalState = "edit"
	modalTwoFA         modalState = "twoFA"
	modalCookies       modalState = "cookies"
	modalImport        modalState = "import"
)

func New(ctx context.Context, ctrl *dashboard.Controller, services Services, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	search := textinput.New()
	search.Placeholder = "name, uid or notes"
	search.Prompt = "/ "
	search.CharLimit = 100
	search.Width = 30

	path := textinput.New()
	path.Placeholder = "accounts.csv"
	path.CharLimit = 400
	path.Width = 50

	return &App{
		ctx:       ctx,
		ctrl:      ctrl,
		services:  services,
		log:       log,
		view:      ctrl.View(),
		search:    search,
		pathInput: path,
		now:       time.Now,
		copyText:  clipboard.WriteAll,
		tickEvery: time.Second,
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.searching {
			return a.handleSearchKey(m)
		}
		return a.handleKey(m)
	case viewMsg:
		// a newer frame may have been applied while the command ran
		a.setView(a.ctrl.View())
		if m.err != nil {
			a.status = "error: " + m.err.Error()
		} else if m.status != "" {
			a.status = m.status
		}
	case auditMsg:
		a.auditing = false
		if a.modal == modalEdit && a.form.id == m.id {
			a.audit = m.text
		} else {
			a.status = "analysis: " + m.text
		}
	case ingestDoneMsg:
		res := m.result
		a.lastImport = &res
		a.status = importSummary(res)
		return a, a.dispatch(dashboard.Refreshed{}, "")
	case tickMsg:
		if a.modal != modalTwoFA || m.gen != a.tickGen {
			return a, nil
		}
		a.clock = m.at
		return a, a.tick()
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q":
		return a, tea.Quit
	case "/":
		a.searching = true
		return a, a.search.Focus()
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.view.Window.Items)-1 {
			a.cursor++
		}
	case "left", "h", "pgup":
		a.apply(dashboard.PageStep{Delta: -1})
	case "right", "l", "pgdown":
		a.apply(dashboard.PageStep{Delta: 1})
	case "home", "g":
		a.apply(dashboard.PageRequested{Page: 1})
	case "end", "G":
		a.apply(dashboard.PageRequested{Page: a.view.Window.TotalPages})
	case "1", "2", "3", "4", "5":
		if i := int(m.String()[0] - '1'); i < len(a.view.Buttons) {
			a.apply(dashboard.PageRequested{Page: a.view.Buttons[i]})
		}
	case " ":
		if acc, ok := a.current(); ok {
			a.apply(dashboard.SelectToggled{ID: acc.ID})
		}
	case "a":
		a.apply(dashboard.PageSelectionToggled{})
	case "s":
		f := a.view.Filter
		f.Status = nextStatus(f.Status)
		a.setFilter(f)
	case "f":
		f := a.view.Filter
		f.Suggestions = (f.Suggestions + 1) % 3
		a.setFilter(f)
	case "y":
		f := a.view.Filter
		f.Created = (f.Created + 1) % 4
		a.setFilter(f)
	case "o":
		f := a.view.Filter
		f.Sort = (f.Sort + 1) % 3
		a.setFilter(f)
	case "x", "delete":
		if acc, ok := a.current(); ok {
			a.requestDelete([]string{acc.ID})
		}
	case "D":
		if a.view.Selection.Len() == 0 {
			a.status = "no accounts selected"
			return a, nil
		}
		a.requestDelete(nil)
	case "b":
		if a.view.Selection.Len() == 0 {
			a.status = "no accounts selected"
			return a, nil
		}
		a.statusCursor = 0
		a.modal = modalStatusPicker
	case "e", "enter":
		if acc, ok := a.current(); ok {
			a.form = newEditForm(acc)
			a.audit = ""
			a.modal = modalEdit
			return a, a.form.focus()
		}
	case "t":
		if acc, ok := a.current(); ok {
			a.popupID = acc.ID
			a.clock = a.now()
			a.tickGen++
			a.modal = modalTwoFA
			return a, a.tick()
		}
	case "c":
		if acc, ok := a.current(); ok {
			a.popupID = acc.ID
			a.modal = modalCookies
		}
	case "A":
		if acc, ok := a.current(); ok {
			a.status = "analysing " + acc.Name + "..."
			return a, a.auditCmd(acc)
		}
	case "i":
		a.pathInput.SetValue("")
		a.modal = modalImport
		return a, a.pathInput.Focus()
	case "r":
		return a, a.dispatch(dashboard.Refreshed{}, "reloaded")
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEnter, tea.KeyEsc:
		a.searching = false
		a.search.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	before := a.search.Value()
	a.search, cmd = a.search.Update(m)
	if v := a.search.Value(); v != before {
		f := a.view.Filter
		f.Search = strings.TrimSpace(v)
		a.setFilter(f)
	}
	return a, cmd
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmDelete:
		switch m.String() {
		case "y", "Y", "enter":
			a.modal = modalNone
			return a, a.dispatch(dashboard.Confirmed{}, "deleted")
		case "n", "N", "esc":
			a.modal = modalNone
			a.apply(dashboard.Cancelled{})
		}
	case modalStatusPicker:
		statuses := repository.Statuses()
		switch m.String() {
		case "esc":
			a.modal = modalNone
		case "up", "k":
			if a.statusCursor > 0 {
				a.statusCursor--
			}
		case "down", "j":
			if a.statusCursor < len(statuses)-1 {
				a.statusCursor++
			}
		case "enter":
			a.modal = modalNone
			st := statuses[a.statusCursor]
			return a, a.dispatch(dashboard.StatusRequested{Status: st}, "status set to "+string(st))
		}
	case modalEdit:
		return a.handleEditKey(m)
	case modalTwoFA:
		switch m.String() {
		case "esc", "q", "t":
			a.modal = modalNone
		}
	case modalCookies:
		switch m.String() {
		case "esc", "q", "c":
			a.modal = modalNone
		case "y":
			acc, ok := a.ctrl.Account(a.popupID)
			if !ok {
				a.modal = modalNone
				return a, nil
			}
			if err := a.copyText(acc.Cookies); err != nil {
				a.status = "error: copy cookies: " + err.Error()
				return a, nil
			}
			a.status = "cookies copied"
		}
	case modalImport:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.pathInput.Blur()
			return a, nil
		case tea.KeyEnter:
			path := strings.TrimSpace(a.pathInput.Value())
			if path == "" {
				a.status = "enter a CSV path"
				return a, nil
			}
			a.modal = modalNone
			a.pathInput.Blur()
			return a, a.ingestCmd(path)
		}
		var cmd tea.Cmd
		a.pathInput, cmd = a.pathInput.Update(m)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleEditKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.modal = modalNone
		return a, nil
	case "tab", "down":
		return a, a.form.move(1)
	case "shift+tab", "up":
		return a, a.form.move(-1)
	case "ctrl+a":
		acc, ok := a.ctrl.Account(a.form.id)
		if !ok || a.auditing {
			return a, nil
		}
		a.auditing = true
		a.audit = ""
		return a, a.auditCmd(acc)
	case "ctrl+s", "enter":
		edits, err := a.form.edits()
		if err != nil {
			a.status = "error: " + err.Error()
			return a, nil
		}
		a.modal = modalNone
		return a, a.dispatch(dashboard.Edited{ID: a.form.id, Edits: edits}, "saved")
	}
	return a, a.form.update(m)
}

// apply runs an event that only touches UI state.
func (a *App) apply(ev dashboard.Event) {
	v, err := a.ctrl.Dispatch(a.ctx, ev)
	a.setView(v)
	if err != nil {
		a.status = "error: " + err.Error()
	}
}

func (a *App) setFilter(f query.Filter) {
	a.apply(dashboard.FilterChanged{Filter: f})
	a.cursor = 0
}

func (a *App) requestDelete(ids []string) {
	a.apply(dashboard.DeleteRequested{IDs: ids})
	if a.view.Pending != nil {
		a.modal = modalConfirmDelete
	}
}

func (a *App) setView(v dashboard.View) {
	a.view = v
	if n := len(v.Window.Items); a.cursor >= n {
		a.cursor = max(0, n-1)
	}
}

func (a *App) current() (repository.Account, bool) {
	items := a.view.Window.Items
	if a.cursor < 0 || a.cursor >= len(items) {
		return repository.Account{}, false
	}
	return items[a.cursor], true
}

func nextStatus(s repository.Status) repository.Status {
	order := append([]repository.Status{query.AnyStatus}, repository.Statuses()...)
	for i, st := range order {
		if st == s {
			return order[(i+1)%len(order)]
		}
	}
	return query.AnyStatus
}
