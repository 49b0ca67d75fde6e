package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/accountdeck/internal/dashboard"
	"github.com/jask/accountdeck/internal/database/repository"
	"github.com/jask/accountdeck/internal/llm"
	"github.com/jask/accountdeck/internal/otp"
	"github.com/jask/accountdeck/internal/service"
)

const testSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func accounts(n int) []repository.Account {
	out := make([]repository.Account, n)
	for i := range out {
		out[i] = repository.Account{
			ID:          fmt.Sprintf("acc-%d", i),
			Name:        fmt.Sprintf("user_%d", i),
			UID:         fmt.Sprintf("1000%04d", i),
			Status:      repository.StatusActive,
			FriendCount: 10000 - i,
			TwoFASecret: testSecret,
			Cookies:     fmt.Sprintf(`[{"name":"c_user","value":"%d"}]`, i),
			CreatedAt:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func newApp(t *testing.T, n int) (*App, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore(accounts(n)...)
	ctrl, err := dashboard.NewController(context.Background(), store, dashboard.Options{PageSize: 50})
	require.NoError(t, err)
	app := New(context.Background(), ctrl, Services{
		Auditor: &service.Auditor{Analyzer: llm.NewOfflineProvider()},
		Ingest:  &service.IngestService{Store: store},
	}, nil)
	app.copyText = func(string) error { return nil }
	return app, store
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(a *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = a.Update(key(k))
	}
	return cmd
}

// run executes a command chain that ends without a timer.
func run(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		require.NotNil(t, msg)
		_, cmd = a.Update(msg)
	}
}

func TestViewShowsCountsAndRange(t *testing.T) {
	a, _ := newApp(t, 120)
	out := a.View()
	require.Contains(t, out, "Total: 120  Active: 120")
	require.Contains(t, out, "Showing 1 to 50 of 120 results")
	require.Contains(t, out, "[1] 2 3")
	require.Contains(t, out, "Page 1 of 3")

	press(a, "G")
	require.Contains(t, a.View(), "Showing 101 to 120 of 120 results")
	press(a, "right")
	require.Equal(t, 3, a.view.Page)
	press(a, "1")
	require.Equal(t, 1, a.view.Page)
}

func TestSelectionKeys(t *testing.T) {
	a, _ := newApp(t, 120)
	press(a, " ", "down", " ")
	require.Equal(t, []string{"acc-0", "acc-1"}, a.view.Selection.IDs())
	require.Contains(t, a.View(), "Selected: 2")

	press(a, "right", "a")
	require.Equal(t, 52, a.view.Selection.Len())
	require.True(t, a.view.Selection.Has("acc-0"))
	press(a, "a")
	require.Equal(t, 2, a.view.Selection.Len())
}

func TestSearchClearsSelection(t *testing.T) {
	a, _ := newApp(t, 120)
	press(a, " ")
	require.Equal(t, 1, a.view.Selection.Len())

	press(a, "/")
	require.True(t, a.searching)
	press(a, "u", "s", "e", "r", "_", "7")
	press(a, "enter")
	require.False(t, a.searching)
	require.Equal(t, "user_7", a.view.Filter.Search)
	require.Zero(t, a.view.Selection.Len())
	require.Equal(t, 11, a.view.Window.Total)
}

func TestFilterCycling(t *testing.T) {
	a, store := newApp(t, 3)
	require.NoError(t, store.UpdateStatusMany(context.Background(), []string{"acc-1"}, repository.StatusLocked))
	run(t, a, press(a, "r"))

	press(a, "s")
	require.Equal(t, repository.StatusActive, a.view.Filter.Status)
	require.Equal(t, 2, a.view.Window.Total)
	press(a, "s", "s")
	require.Equal(t, repository.StatusLocked, a.view.Filter.Status)
	require.Equal(t, 1, a.view.Window.Total)

	press(a, "o")
	require.Contains(t, a.View(), "Sort: ")
	press(a, "y", "y", "y", "y")
	require.Equal(t, 1, a.view.Window.Total)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	a, store := newApp(t, 3)

	press(a, "x")
	require.Equal(t, modalConfirmDelete, a.modal)
	require.Contains(t, a.View(), "Delete 1 account?")
	press(a, "n")
	require.Equal(t, modalNone, a.modal)
	require.Nil(t, a.view.Pending)

	press(a, "x")
	run(t, a, press(a, "y"))
	list, _ := store.List(context.Background())
	require.Len(t, list, 2)
	require.Equal(t, 2, a.view.Rows)
	require.Equal(t, "deleted", a.status)
}

func TestBulkDeleteAndStatus(t *testing.T) {
	a, store := newApp(t, 5)

	press(a, "D")
	require.Equal(t, modalNone, a.modal)
	require.Equal(t, "no accounts selected", a.status)
	press(a, "b")
	require.Equal(t, modalNone, a.modal)

	press(a, " ", "down", " ")
	press(a, "b", "down", "down")
	run(t, a, press(a, "enter"))
	require.Zero(t, a.view.Selection.Len())
	got, err := store.Get(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Equal(t, repository.StatusLocked, got.Status)
	require.Equal(t, 3, a.view.Active)

	press(a, " ", "down", " ")
	press(a, "D")
	require.Contains(t, a.View(), "Delete 2 accounts?")
	run(t, a, press(a, "y"))
	require.Equal(t, 3, a.view.Rows)
	require.Zero(t, a.view.Selection.Len())
}

func TestEditForm(t *testing.T) {
	a, store := newApp(t, 3)
	press(a, "down", "e")
	require.Equal(t, modalEdit, a.modal)
	require.Equal(t, "acc-1", a.form.id)
	require.Contains(t, a.View(), "Edit user_1")

	a.form.inputs[fieldStatus].SetValue("bogus")
	press(a, "ctrl+s")
	require.Equal(t, modalEdit, a.modal)
	require.Contains(t, a.status, "status")

	a.form.inputs[fieldStatus].SetValue("checkpoint")
	a.form.inputs[fieldFriends].SetValue("20000")
	a.form.inputs[fieldCreated].SetValue("2021-07-04")
	a.form.inputs[fieldNotes].SetValue("vip")
	run(t, a, press(a, "ctrl+s"))
	require.Equal(t, modalNone, a.modal)

	got, err := store.Get(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Equal(t, repository.StatusCheckpoint, got.Status)
	require.Equal(t, 20000, got.FriendCount)
	require.Equal(t, time.Date(2021, 7, 4, 0, 0, 0, 0, time.UTC), got.CreatedAt)
	require.Equal(t, "vip", got.Notes)
	require.Equal(t, "acc-1", a.view.Window.Items[0].ID)
}

func TestEditFormAudit(t *testing.T) {
	a, _ := newApp(t, 1)
	press(a, "e")
	cmd := press(a, "ctrl+a")
	require.True(t, a.auditing)
	require.Contains(t, a.View(), "analysing")
	run(t, a, cmd)
	require.False(t, a.auditing)
	require.Contains(t, a.audit, "Recommendation:")
}

func TestAuditFromTable(t *testing.T) {
	a, _ := newApp(t, 1)
	a.services.Auditor = nil
	run(t, a, press(a, "A"))
	require.Equal(t, "analysis: "+service.MsgNoAPIKey, a.status)
}

func TestTwoFAPopup(t *testing.T) {
	a, _ := newApp(t, 1)
	at := time.Unix(59, 0)
	a.now = func() time.Time { return at }

	cmd := press(a, "t")
	require.NotNil(t, cmd)
	require.Equal(t, modalTwoFA, a.modal)
	out := a.View()
	require.Contains(t, out, otp.Display(testSecret, at))
	require.Contains(t, out, "expire in 1 seconds")

	_, next := a.Update(tickMsg{gen: a.tickGen, at: time.Unix(61, 0)})
	require.NotNil(t, next)
	require.Contains(t, a.View(), "expire in 29 seconds")

	press(a, "esc")
	_, next = a.Update(tickMsg{gen: a.tickGen, at: time.Unix(62, 0)})
	require.Nil(t, next)
}

func TestReopenedTwoFAPopupDropsOldTicks(t *testing.T) {
	a, _ := newApp(t, 1)
	a.now = func() time.Time { return time.Unix(59, 0) }

	press(a, "t")
	first := a.tickGen
	press(a, "esc", "t")
	require.Equal(t, modalTwoFA, a.modal)
	require.NotEqual(t, first, a.tickGen)

	_, next := a.Update(tickMsg{gen: first, at: time.Unix(65, 0)})
	require.Nil(t, next)
	require.Contains(t, a.View(), "expire in 1 seconds")

	_, next = a.Update(tickMsg{gen: a.tickGen, at: time.Unix(65, 0)})
	require.NotNil(t, next)
	require.Contains(t, a.View(), "expire in 25 seconds")
}

func TestCookiesCopy(t *testing.T) {
	a, _ := newApp(t, 2)
	var copied string
	a.copyText = func(s string) error { copied = s; return nil }

	press(a, "down", "c")
	require.Equal(t, modalCookies, a.modal)
	require.Contains(t, a.View(), `"c_user"`)
	press(a, "y")
	require.Equal(t, `[{"name":"c_user","value":"1"}]`, copied)
	require.Equal(t, "cookies copied", a.status)
	press(a, "esc")
	require.Equal(t, modalNone, a.modal)
}

func TestImportModal(t *testing.T) {
	a, _ := newApp(t, 1)
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,uid\nnew_user,555\n"), 0o600))

	press(a, "i")
	require.Equal(t, modalImport, a.modal)
	for _, r := range path {
		a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	run(t, a, press(a, "enter"))
	require.Equal(t, 2, a.view.Rows)
	require.NotNil(t, a.lastImport)
	require.Equal(t, 1, a.lastImport.Imported)
	require.True(t, strings.HasPrefix(a.status, "import: 1 imported"), a.status)
}

func TestQuit(t *testing.T) {
	a, _ := newApp(t, 1)
	cmd := press(a, "q")
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEditFormKeepsUntouchedCreatedTime(t *testing.T) {
	created := time.Date(2023, 5, 6, 13, 45, 0, 0, time.UTC)
	acc := repository.Account{ID: "acc-9", Status: repository.StatusActive, CreatedAt: created}

	form := newEditForm(acc)
	edits, err := form.edits()
	require.NoError(t, err)
	require.Equal(t, created, repository.Apply(acc, edits...).CreatedAt)

	form.inputs[fieldCreated].SetValue("")
	edits, err = form.edits()
	require.NoError(t, err)
	require.True(t, repository.Apply(acc, edits...).CreatedAt.IsZero())

	form.inputs[fieldCreated].SetValue("06/05/2023")
	_, err = form.edits()
	require.Error(t, err)
}
