package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/accountdeck/internal/database"
)

// MaintenanceService houses destructive operations on the sqlite store.
type MaintenanceService struct {
	DB  *sql.DB
	Log *zap.Logger
}

// Reset removes every account and returns how many were deleted. The schema
// is kept so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) (int, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	var deleted int64
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM accounts")
		if err != nil {
			return fmt.Errorf("reset accounts: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	}); err != nil {
		return 0, err
	}
	if _, err := s.DB.ExecContext(ctx, "VACUUM"); err != nil && s.Log != nil {
		s.Log.Warn("vacuum after reset failed", zap.Error(err))
	}
	if s.Log != nil {
		s.Log.Info("store reset", zap.Int64("deleted", deleted))
	}
	return int(deleted), nil
}
