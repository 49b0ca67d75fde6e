package llm

import (
	"context"
	"fmt"
	"strings"
)

// OfflineProvider is a rule-based analyzer used when no API is configured or
// the operator opts out of sending data. Output follows the same shape as the
// hosted model: a short assessment and one recommendation.
type OfflineProvider struct{}

func NewOfflineProvider() *OfflineProvider { return &OfflineProvider{} }

func (OfflineProvider) Analyze(ctx context.Context, req AnalyzeRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var findings []string
	advice := "Keep activity steady and review the account again next month."

	switch strings.ToLower(req.Status) {
	case "active":
		findings = append(findings, "The account is active")
	case "checkpoint":
		findings = append(findings, "The account is held at a checkpoint")
		advice = "Complete the identity checkpoint before any further activity."
	case "locked":
		findings = append(findings, "The account is locked")
		advice = "Start the unlock flow and rotate the password once access is restored."
	case "disabled":
		findings = append(findings, "The account is disabled")
		advice = "File an appeal and pause automation on this account until it is resolved."
	default:
		findings = append(findings, fmt.Sprintf("The account status %q is not recognised", req.Status))
	}

	switch {
	case req.FriendCount < 50:
		findings = append(findings, fmt.Sprintf("with a thin network of %s", pluralize(req.FriendCount, "friend")))
		if strings.EqualFold(req.Status, "active") {
			advice = "Grow the network gradually, a few accepted requests per day."
		}
	case req.FriendCount > 4500:
		findings = append(findings, fmt.Sprintf("close to the friend limit at %s", pluralize(req.FriendCount, "friend")))
		if strings.EqualFold(req.Status, "active") {
			advice = "Prune inactive friends to stay below the platform limit."
		}
	default:
		findings = append(findings, fmt.Sprintf("with %s", pluralize(req.FriendCount, "friend")))
	}

	text := strings.Join(findings, " ") + "."
	if req.HasSuggestions {
		text += " Pending friend suggestions indicate the account is still being recommended."
	}
	if notes := strings.ToLower(req.Notes); strings.Contains(notes, "flag") || strings.Contains(notes, "review") {
		text += " Notes mention a review flag, so treat recent logins with caution."
	}
	return text + " Recommendation: " + advice, nil
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
