package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, err := New("warn", path)
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept", zap.String("account", "acc-1"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"kept"`)
	require.Contains(t, string(data), `"account":"acc-1"`)
	require.NotContains(t, string(data), "dropped")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New("loud", filepath.Join(t.TempDir(), "x.log"))
	require.Error(t, err)
}

func TestEmptyPathIsNop(t *testing.T) {
	log, err := New("info", "")
	require.NoError(t, err)
	log.Info("nowhere")
}
