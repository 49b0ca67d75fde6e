package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/accountdeck/internal/database/repository"
)

type field int

const (
	fieldStatus field = iota
	fieldPassword
	fieldSecret
	fieldFriends
	fieldCreated
	fieldSuggestions
	fieldCookies
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Status", "Password", "2FA Secret Key", "Friend Count",
	"Created Date", "Friend Suggestions?", "Cookies (JSON)", "Internal Notes",
}

// editForm holds one text input per editable field. Values are parsed into
// typed edits only on save.
type editForm struct {
	id      string
	name    string
	created time.Time
	inputs  [fieldCount]textinput.Model
	active  field
}

func newEditForm(acc repository.Account) editForm {
	f := editForm{id: acc.ID, name: acc.Name, created: acc.CreatedAt}
	values := [fieldCount]string{
		string(acc.Status),
		acc.Password,
		acc.TwoFASecret,
		strconv.Itoa(acc.FriendCount),
		dateOrEmpty(acc.CreatedAt),
		yesNo(acc.HasSuggestions),
		acc.Cookies,
		acc.Notes,
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 4000
		in.Width = 48
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[fieldCreated].Placeholder = "YYYY-MM-DD"
	f.inputs[fieldSuggestions].Placeholder = "yes / no"
	return f
}

func (f *editForm) focus() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.active].Focus()
}

func (f *editForm) move(delta int) tea.Cmd {
	f.active = field((int(f.active) + delta + int(fieldCount)) % int(fieldCount))
	return f.focus()
}

func (f *editForm) update(m tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.active], cmd = f.inputs[f.active].Update(m)
	return cmd
}

func (f *editForm) value(fl field) string {
	return strings.TrimSpace(f.inputs[fl].Value())
}

// edits parses every field. The first invalid field aborts the save.
func (f *editForm) edits() ([]repository.Edit, error) {
	status, ok := repository.ParseStatus(f.value(fieldStatus))
	if !ok {
		return nil, fmt.Errorf("status %q: want one of active, checkpoint, locked, disabled", f.value(fieldStatus))
	}
	friends, err := strconv.Atoi(f.value(fieldFriends))
	if err != nil || friends < 0 {
		return nil, fmt.Errorf("friend count %q is not a count", f.value(fieldFriends))
	}
	// an untouched date keeps its stored time of day
	created := f.created
	if v := f.value(fieldCreated); v != dateOrEmpty(f.created) {
		created = time.Time{}
		if v != "" {
			if created, err = time.Parse(time.DateOnly, v); err != nil {
				return nil, fmt.Errorf("created date %q: want YYYY-MM-DD", v)
			}
		}
	}
	var suggestions bool
	switch strings.ToLower(f.value(fieldSuggestions)) {
	case "yes", "y", "true":
		suggestions = true
	case "no", "n", "false", "":
	default:
		return nil, fmt.Errorf("friend suggestions %q: want yes or no", f.value(fieldSuggestions))
	}
	return []repository.Edit{
		repository.SetStatus(status),
		repository.SetPassword(f.value(fieldPassword)),
		repository.SetTwoFASecret(f.value(fieldSecret)),
		repository.SetFriendCount(friends),
		repository.SetCreatedAt(created),
		repository.SetSuggestions(suggestions),
		repository.SetCookies(f.value(fieldCookies)),
		repository.SetNotes(f.inputs[fieldNotes].Value()),
	}, nil
}

func dateOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
