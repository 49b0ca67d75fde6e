package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoAPIKey is returned by providers that need a key and have none.
var ErrNoAPIKey = errors.New("llm: api key not configured")

// Analyzer produces a short health assessment of one account.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (string, error)
}

// AnalyzeRequest is the subset of an account sent for analysis. Credentials
// never leave the process.
type AnalyzeRequest struct {
	Status         string
	FriendCount    int
	Created        string
	LastUpdated    string
	HasSuggestions bool
	Notes          string
}

// Prompt renders the instruction text for req.
func Prompt(req AnalyzeRequest) string {
	var b strings.Builder
	b.WriteString("You are a social media account health expert. Analyze the following account data and provide a brief health assessment (2-3 sentences) and one actionable recommendation.\n\n")
	b.WriteString("Data:\n")
	fmt.Fprintf(&b, "- Status: %s\n", req.Status)
	fmt.Fprintf(&b, "- Friend Count: %d\n", req.FriendCount)
	fmt.Fprintf(&b, "- Created Date: %s\n", orUnknown(req.Created))
	fmt.Fprintf(&b, "- Last Updated: %s\n", orUnknown(req.LastUpdated))
	fmt.Fprintf(&b, "- Has Friend Suggestions: %s\n", yesNo(req.HasSuggestions))
	fmt.Fprintf(&b, "- Notes: %s\n\n", orNone(req.Notes))
	b.WriteString("Keep the tone professional and concise.")
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
