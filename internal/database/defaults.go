package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jask/accountdeck/internal/database/repository"
)

// SeedIfEmpty inserts accounts when the accounts table has no rows.
// It is idempotent and safe to run on every startup; it reports how many
// rows were written.
func SeedIfEmpty(ctx context.Context, db *sql.DB, accounts []repository.Account) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	if n > 0 || len(accounts) == 0 {
		return 0, nil
	}
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accounts(id, name, email, uid, password, twofa_secret, cookies, status,
		 friend_count, has_suggestions, created_at, last_updated, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, a := range accounts {
			if _, err := stmt.ExecContext(ctx, a.ID, a.Name, a.Email, a.UID, a.Password, a.TwoFASecret,
				a.Cookies, string(a.Status), a.FriendCount, a.HasSuggestions,
				timeOrNil(a.CreatedAt), timeOrNil(a.LastUpdated), a.Notes); err != nil {
				return fmt.Errorf("seed account %s: %w", a.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(accounts), nil
}

func timeOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
