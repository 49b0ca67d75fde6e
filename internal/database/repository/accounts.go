package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// AccountRepo is the sqlite-backed account store. Rows keep the position
// they were first inserted at so listings follow collection order.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Upsert(ctx context.Context, a Account) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(id, name, email, uid, password, twofa_secret, cookies, status,
	 friend_count, has_suggestions, created_at, last_updated, notes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 email=excluded.email,
	 uid=excluded.uid,
	 password=excluded.password,
	 twofa_secret=excluded.twofa_secret,
	 cookies=excluded.cookies,
	 status=excluded.status,
	 friend_count=excluded.friend_count,
	 has_suggestions=excluded.has_suggestions,
	 created_at=excluded.created_at,
	 last_updated=excluded.last_updated,
	 notes=excluded.notes;
	`, a.ID, a.Name, a.Email, a.UID, a.Password, a.TwoFASecret, a.Cookies, string(a.Status),
		a.FriendCount, a.HasSuggestions, nullableTime(a.CreatedAt), nullableTime(a.LastUpdated), a.Notes)
	if err != nil {
		return fmt.Errorf("upsert account %s: %w", a.ID, err)
	}
	return nil
}

func (r *AccountRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AccountRepo) Get(ctx context.Context, id string) (Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return Account{}, ErrNotFound
	}
	return a, err
}

// ExistsUID reports whether any account carries the external id.
func (r *AccountRepo) ExistsUID(ctx context.Context, uid string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE uid = ?`, uid).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *AccountRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	return err
}

func (r *AccountRepo) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args := inClause(`DELETE FROM accounts WHERE id IN `, ids)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete accounts: %w", err)
	}
	return nil
}

func (r *AccountRepo) UpdateStatusMany(ctx context.Context, ids []string, status Status) error {
	if len(ids) == 0 {
		return nil
	}
	query, args := inClause(`UPDATE accounts SET status = ? WHERE id IN `, ids)
	args = append([]interface{}{string(status)}, args...)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update account status: %w", err)
	}
	return nil
}

const accountColumns = `id, name, email, uid, password, twofa_secret, cookies, status,
 friend_count, has_suggestions, created_at, last_updated, notes`

func inClause(prefix string, ids []string) (string, []interface{}) {
	marks := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return prefix + "(" + marks + ")", args
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row scanner) (Account, error) {
	var a Account
	var status string
	var created, updated sql.NullTime
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.UID, &a.Password, &a.TwoFASecret, &a.Cookies, &status,
		&a.FriendCount, &a.HasSuggestions, &created, &updated, &a.Notes); err != nil {
		return Account{}, err
	}
	a.Status = Status(status)
	if created.Valid {
		a.CreatedAt = created.Time.UTC()
	}
	if updated.Valid {
		a.LastUpdated = updated.Time.UTC()
	}
	return a, nil
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
