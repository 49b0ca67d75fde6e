package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jask/accountdeck/internal/database/repository"
	"github.com/jask/accountdeck/internal/otp"
	"github.com/jask/accountdeck/internal/query"
)

// styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	codeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))

	statusColors = map[repository.Status]lipgloss.Color{
		repository.StatusActive:     lipgloss.Color("42"),
		repository.StatusCheckpoint: lipgloss.Color("214"),
		repository.StatusLocked:     lipgloss.Color("196"),
		repository.StatusDisabled:   lipgloss.Color("245"),
	}
)

var columns = []string{"", "Name", "UID", "Status", "Friends", "Sugg.", "Created", "Updated", "Notes"}

const (
	colStatus = 3
	notesMax  = 28
)

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	b.WriteString(a.renderToolbar())
	b.WriteString("\n")
	b.WriteString(a.renderTable())
	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	if a.modal != modalNone {
		b.WriteString("\n")
		b.WriteString(modalStyle.Render(a.renderModal()))
	}
	if a.status != "" {
		b.WriteString("\n" + a.status)
	}
	return b.String()
}

func (a *App) renderHeader() string {
	v := a.view
	out := titleStyle.Render("Account Deck")
	out += fmt.Sprintf("  Total: %d  Active: %d", v.Rows, v.Active)
	if n := v.Selection.Len(); n > 0 {
		out += fmt.Sprintf("  Selected: %d", n)
	}
	return out
}

func (a *App) renderToolbar() string {
	f := a.view.Filter
	p := a.ctrl.Periods()
	search := a.search.View()
	if !a.searching && f.Search == "" {
		search = mutedStyle.Render("[/] search")
	}
	return fmt.Sprintf("%s  [s] %s  [f] %s  [y] %s  [o] Sort: %s",
		search, query.StatusLabel(f.Status), f.Suggestions, f.Created.Label(p), f.Sort)
}

func (a *App) renderTable() string {
	items := a.view.Window.Items
	if len(items) == 0 {
		return mutedStyle.Render("No accounts match the current filters.")
	}
	rows := make([][]string, len(items))
	for i, acc := range items {
		check := "[ ]"
		if a.view.Selection.Has(acc.ID) {
			check = "[x]"
		}
		rows[i] = []string{
			check,
			acc.Name,
			acc.UID,
			string(acc.Status),
			strconv.Itoa(acc.FriendCount),
			yesNo(acc.HasSuggestions),
			dateOrEmpty(acc.CreatedAt),
			dateOrEmpty(acc.LastUpdated),
			truncate(acc.Notes, notesMax),
		}
	}
	allOnPage := " "
	if a.view.Selection.PageFullySelected(items) {
		allOnPage = "x"
	}
	headers := append([]string{"[" + allOnPage + "]"}, columns[1:]...)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			s := cellStyle
			if row >= 0 && row < len(items) {
				if a.view.Selection.Has(items[row].ID) {
					s = s.Inherit(selectedStyle)
				}
				if col == colStatus {
					s = s.Foreground(statusColors[items[row].Status])
				}
				if row == a.cursor {
					s = s.Inherit(cursorStyle)
				}
			}
			return s
		})
	return t.Render()
}

func (a *App) renderFooter() string {
	w := a.view.Window
	out := fmt.Sprintf("Showing %d to %d of %d results", w.From, w.To, w.Total)
	if w.TotalPages > 0 {
		buttons := make([]string, len(a.view.Buttons))
		for i, p := range a.view.Buttons {
			if p == w.Page {
				buttons[i] = "[" + strconv.Itoa(p) + "]"
			} else {
				buttons[i] = strconv.Itoa(p)
			}
		}
		out += fmt.Sprintf("   ‹ %s ›  Page %d of %d", strings.Join(buttons, " "), w.Page, w.TotalPages)
	}
	out += "\n" + mutedStyle.Render("[space] Select  [a] Select page  [D] Delete selected  [b] Bulk status  [e] Edit  [x] Delete  [t] 2FA  [c] Cookies  [A] Analyse  [i] Import  [←/→] Page  [q] Quit")
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmDelete:
		n := 0
		if a.view.Pending != nil {
			n = len(a.view.Pending.IDs)
		}
		noun := "account"
		if n != 1 {
			noun = "accounts"
		}
		return titleStyle.Render("Delete "+strconv.Itoa(n)+" "+noun+"?") + "\nThis cannot be undone.\n[y] Delete  [n] Cancel"
	case modalStatusPicker:
		out := titleStyle.Render(fmt.Sprintf("Set status of %d selected", a.view.Selection.Len())) + "\n"
		for i, st := range repository.Statuses() {
			marker := " "
			if i == a.statusCursor {
				marker = "▶"
			}
			out += fmt.Sprintf("%s %s\n", marker, st)
		}
		return out + "[enter] Apply  [esc] Cancel"
	case modalEdit:
		return a.renderEdit()
	case modalTwoFA:
		acc, _ := a.ctrl.Account(a.popupID)
		code := otp.Display(acc.TwoFASecret, a.clock)
		left := otp.Remaining(a.clock)
		bar := strings.Repeat("█", left) + strings.Repeat("░", 30-left)
		return titleStyle.Render("2FA code for "+acc.Name) + "\n" +
			codeStyle.Render(code) + "\n" + bar + "\n" +
			fmt.Sprintf("This code will expire in %d seconds.", left) + "\n[esc] Close"
	case modalCookies:
		acc, _ := a.ctrl.Account(a.popupID)
		body := acc.Cookies
		if body == "" {
			body = mutedStyle.Render("(no cookies)")
		}
		return titleStyle.Render("Cookies for "+acc.Name) + "\n" + body + "\n[y] Copy JSON  [esc] Close"
	case modalImport:
		out := titleStyle.Render("Import CSV") + "\n" + a.pathInput.View() +
			"\nHeader row required: name, uid and any of email, password, twofa_secret, cookies, status, friend_count, has_suggestions, created, last_updated, notes." +
			"\n[enter] Import  [esc] Cancel"
		if a.lastImport != nil {
			out += "\nLast import: " + importSummary(*a.lastImport)
		}
		return out
	}
	return ""
}

func (a *App) renderEdit() string {
	f := &a.form
	out := titleStyle.Render("Edit "+f.name) + "\n"
	out += fmt.Sprintf("  %-20s %s\n", "Username", mutedStyle.Render(f.name))
	for i := range f.inputs {
		marker := " "
		if field(i) == f.active {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-20s %s\n", marker, fieldLabels[i], f.inputs[i].View())
	}
	switch {
	case a.auditing:
		out += "\nAI health check: analysing..."
	case a.audit != "":
		out += "\nAI health check: " + a.audit
	}
	return out + "\n[tab] Next  [enter] Save  [ctrl+a] AI health check  [esc] Cancel"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
