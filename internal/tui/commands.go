package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/accountdeck/internal/dashboard"
	"github.com/jask/accountdeck/internal/database/repository"
	"github.com/jask/accountdeck/internal/service"
)

type viewMsg struct {
	status string
	err    error
}

type auditMsg struct {
	id   string
	text string
}

type ingestDoneMsg struct {
	result service.IngestResult
}

// tickMsg refreshes the 2FA popup. gen identifies the popup opening that
// started the chain.
type tickMsg struct {
	gen int
	at  time.Time
}

type statusMsg string

type errMsg struct{ error }

// dispatch sends a store-touching event from a command goroutine.
func (a *App) dispatch(ev dashboard.Event, done string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.ctrl.Dispatch(a.ctx, ev)
		if err != nil {
			return viewMsg{err: err}
		}
		return viewMsg{status: done}
	}
}

func (a *App) auditCmd(acc repository.Account) tea.Cmd {
	if a.services.Auditor == nil {
		return func() tea.Msg { return auditMsg{id: acc.ID, text: service.MsgNoAPIKey} }
	}
	return func() tea.Msg {
		return auditMsg{id: acc.ID, text: a.services.Auditor.Analyze(a.ctx, acc)}
	}
}

func (a *App) ingestCmd(path string) tea.Cmd {
	if a.services.Ingest == nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("import not configured")} }
	}
	abs := path
	if p, err := filepath.Abs(path); err == nil {
		abs = p
	}
	a.status = "importing..."
	return func() tea.Msg {
		f, err := os.Open(abs)
		if err != nil {
			return errMsg{fmt.Errorf("open %s: %w", abs, err)}
		}
		defer f.Close()
		res, err := a.services.Ingest.ImportCSV(a.ctx, f)
		if err != nil {
			return errMsg{err}
		}
		return ingestDoneMsg{result: res}
	}
}

func (a *App) tick() tea.Cmd {
	gen := a.tickGen
	return tea.Tick(a.tickEvery, func(t time.Time) tea.Msg { return tickMsg{gen: gen, at: t} })
}

func importSummary(res service.IngestResult) string {
	out := fmt.Sprintf("import: %d imported, %d skipped, %d warnings, %d errors",
		res.Imported, res.Skipped, len(res.Warnings), len(res.Errors))
	if len(res.Errors) > 0 {
		out += " (first: " + res.Errors[0].Error() + ")"
	}
	return out
}
