package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromptCarriesAccountFields(t *testing.T) {
	p := Prompt(AnalyzeRequest{
		Status:         "Locked",
		FriendCount:    321,
		Created:        "2023-04-01",
		HasSuggestions: true,
	})
	require.Contains(t, p, "- Status: Locked")
	require.Contains(t, p, "- Friend Count: 321")
	require.Contains(t, p, "- Created Date: 2023-04-01")
	require.Contains(t, p, "- Last Updated: unknown")
	require.Contains(t, p, "- Has Friend Suggestions: Yes")
	require.Contains(t, p, "- Notes: None")
}

func TestGeminiWithoutKey(t *testing.T) {
	p := NewGeminiProvider("  ", "")
	_, err := p.Analyze(context.Background(), AnalyzeRequest{Status: "Active"})
	require.ErrorIs(t, err, ErrNoAPIKey)
	require.Equal(t, DefaultGeminiModel, p.model)
}

func TestOfflineProvider(t *testing.T) {
	var a Analyzer = NewOfflineProvider()

	out, err := a.Analyze(context.Background(), AnalyzeRequest{Status: "Active", FriendCount: 1, Notes: "Flagged for review due to login patterns."})
	require.NoError(t, err)
	require.Contains(t, out, "1 friend.")
	require.Contains(t, out, "review flag")
	require.Contains(t, out, "Grow the network")

	out, err = a.Analyze(context.Background(), AnalyzeRequest{Status: "Checkpoint", FriendCount: 4800})
	require.NoError(t, err)
	require.Contains(t, out, "close to the friend limit")
	require.Contains(t, out, "identity checkpoint")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Analyze(ctx, AnalyzeRequest{})
	require.ErrorIs(t, err, context.Canceled)
}
