package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jask/accountdeck/internal/database/repository"
	"github.com/jask/accountdeck/internal/llm"
)

// Messages shown in place of an analysis.
const (
	MsgNoAPIKey = "Error: API key is missing. Set GEMINI_API_KEY or run `accountdeck key set gemini`."
	MsgFailed   = "Failed to generate analysis. Please try again later."
	MsgEmpty    = "No analysis generated."
)

// DefaultAuditTimeout bounds one analysis call.
const DefaultAuditTimeout = 30 * time.Second

// Auditor runs the account health analysis. It never returns an error: every
// failure is logged and turned into one of the fixed messages above.
type Auditor struct {
	Analyzer llm.Analyzer
	Log      *zap.Logger
	Timeout  time.Duration
}

func (a *Auditor) Analyze(ctx context.Context, acc repository.Account) string {
	log := a.Log
	if log == nil {
		log = zap.NewNop()
	}
	if a.Analyzer == nil {
		return MsgNoAPIKey
	}
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultAuditTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	text, err := a.Analyzer.Analyze(ctx, RequestFor(acc))
	switch {
	case errors.Is(err, llm.ErrNoAPIKey):
		log.Warn("analysis skipped, no api key", zap.String("account", acc.ID))
		return MsgNoAPIKey
	case err != nil:
		log.Error("analysis failed", zap.String("account", acc.ID), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return MsgFailed
	case text == "":
		return MsgEmpty
	}
	log.Info("analysis complete", zap.String("account", acc.ID), zap.Duration("elapsed", time.Since(start)))
	return text
}

// RequestFor maps an account onto the analysis request. Unknown dates are sent
// as empty strings.
func RequestFor(acc repository.Account) llm.AnalyzeRequest {
	return llm.AnalyzeRequest{
		Status:         string(acc.Status),
		FriendCount:    acc.FriendCount,
		Created:        formatDate(acc.CreatedAt),
		LastUpdated:    formatDate(acc.LastUpdated),
		HasSuggestions: acc.HasSuggestions,
		Notes:          acc.Notes,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}
