package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jask/accountdeck/internal/database/repository"
	"github.com/jask/accountdeck/internal/query"
)

var listOpts struct {
	search      string
	status      string
	suggestions string
	created     string
	sort        string
	page        int
	pageSize    int
	format      string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of the filtered account view",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listOpts.search, "search", "", "case-insensitive match on name, uid or notes")
	f.StringVar(&listOpts.status, "status", "any", "any, active, checkpoint, locked, disabled")
	f.StringVar(&listOpts.suggestions, "suggestions", "any", "any, has, has-not")
	f.StringVar(&listOpts.created, "created", "any", "any, before, window, after (or <cutoff, low-high, >cutoff years)")
	f.StringVar(&listOpts.sort, "sort", "friends", "friends, updated, created")
	f.IntVar(&listOpts.page, "page", 1, "page number, clamped to the available pages")
	f.IntVar(&listOpts.pageSize, "page-size", 0, "rows per page (default from config)")
	f.StringVarP(&listOpts.format, "format", "o", "table", "table, json or yaml")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	filter, warnings := parseFilter()
	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
		logger.Warn("list selector ignored", zap.String("detail", w))
	}

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()
	records, err := b.store.List(ctx)
	if err != nil {
		return err
	}

	size := listOpts.pageSize
	if size <= 0 {
		size = cfg.View.PageSize
	}
	view := query.ComputeView(records, filter, query.PeriodsFor(cfg.View.CutoffYear))
	page := query.Paginate(view, listOpts.page, size)
	return writePage(cmd.OutOrStdout(), listOpts.format, page)
}

func parseFilter() (query.Filter, []string) {
	var f query.Filter
	var warnings []string
	var ok bool
	f.Search = strings.TrimSpace(listOpts.search)
	if f.Status, ok = query.ParseStatus(listOpts.status); !ok {
		warnings = append(warnings, unknownSelector("status", listOpts.status))
	}
	if f.Suggestions, ok = query.ParseSuggestions(listOpts.suggestions); !ok {
		warnings = append(warnings, unknownSelector("suggestions", listOpts.suggestions))
	}
	if f.Created, ok = query.ParsePeriod(listOpts.created, query.PeriodsFor(cfg.View.CutoffYear)); !ok {
		warnings = append(warnings, unknownSelector("created", listOpts.created))
	}
	if f.Sort, ok = query.ParseSortKey(listOpts.sort); !ok {
		warnings = append(warnings, unknownSelector("sort", listOpts.sort))
	}
	return f, warnings
}

// listRow is the serialized form of one account. Credentials are omitted.
type listRow struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Email          string `json:"email,omitempty" yaml:"email,omitempty"`
	UID            string `json:"uid" yaml:"uid"`
	Status         string `json:"status" yaml:"status"`
	FriendCount    int    `json:"friend_count" yaml:"friend_count"`
	HasSuggestions bool   `json:"has_suggestions" yaml:"has_suggestions"`
	Created        string `json:"created,omitempty" yaml:"created,omitempty"`
	LastUpdated    string `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
	Notes          string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type listPage struct {
	Page       int       `json:"page" yaml:"page"`
	TotalPages int       `json:"total_pages" yaml:"total_pages"`
	Total      int       `json:"total" yaml:"total"`
	From       int       `json:"from" yaml:"from"`
	To         int       `json:"to" yaml:"to"`
	Accounts   []listRow `json:"accounts" yaml:"accounts"`
}

func toListPage(p query.Page) listPage {
	out := listPage{Page: p.Page, TotalPages: p.TotalPages, Total: p.Total, From: p.From, To: p.To, Accounts: []listRow{}}
	for _, a := range p.Items {
		out.Accounts = append(out.Accounts, listRow{
			ID:             a.ID,
			Name:           a.Name,
			Email:          a.Email,
			UID:            a.UID,
			Status:         string(a.Status),
			FriendCount:    a.FriendCount,
			HasSuggestions: a.HasSuggestions,
			Created:        formatTime(a.CreatedAt),
			LastUpdated:    formatTime(a.LastUpdated),
			Notes:          a.Notes,
		})
	}
	return out
}

func writePage(w io.Writer, format string, p query.Page) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toListPage(p))
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toListPage(p)); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		_, err := fmt.Fprintln(w, renderTable(p.Items))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "Showing %d to %d of %d results (page %d of %d)\n", p.From, p.To, p.Total, p.Page, p.TotalPages)
		return err
	default:
		return fmt.Errorf("unknown format %q: want table, json or yaml", format)
	}
}

func renderTable(items []repository.Account) string {
	rows := make([][]string, len(items))
	for i, a := range items {
		rows[i] = []string{
			a.Name, a.UID, string(a.Status), strconv.Itoa(a.FriendCount),
			yesNo(a.HasSuggestions), dateOnly(a.CreatedAt), dateOnly(a.LastUpdated), a.Notes,
		}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "UID", "Status", "Friends", "Sugg.", "Created", "Updated", "Notes").
		Rows(rows...).
		Render()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func dateOnly(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.DateOnly)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
