package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"batalhao/internal/adapters/storage"
	domain "batalhao/internal/domain/account"
)

const timeLayout = time.RFC3339Nano

const accountColumns = "id, name, email, password_hash, role, patente, created_at, last_login, failed_logins, locked_until"

// SQLiteStore implements Store on the account table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a store over db.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID returns the account with id or domain.ErrNotFound.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE id = ?", id)
	return scanOne(row)
}

// GetByEmail looks an account up by its normalised e-mail.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE email = ?", normalizeEmail(email))
	return scanOne(row)
}

// Save inserts or updates an account. A second account with the same
// e-mail is rejected with domain.ErrEmailTaken.
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	query := "INSERT INTO account (" + accountColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			email=excluded.email,
			password_hash=excluded.password_hash,
			role=excluded.role,
			patente=excluded.patente,
			last_login=excluded.last_login,
			failed_logins=excluded.failed_logins,
			locked_until=excluded.locked_until`

	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.Name,
		normalizeEmail(a.Email),
		a.PasswordHash,
		a.Role,
		a.Patente,
		a.CreatedAt.UTC().Format(timeLayout),
		nullableTime(a.LastLogin),
		a.FailedLogins,
		nullableTime(a.LockedUntil),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: account.email") {
		return domain.ErrEmailTaken
	}
	return err
}

// Delete removes the account. Deleting an unknown id returns domain.ErrNotFound.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns accounts ordered by name.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	var b strings.Builder
	var args []any

	b.WriteString("SELECT " + accountColumns + " FROM account")
	if filter.Role != "" {
		b.WriteString(" WHERE role = ?")
		args = append(args, filter.Role)
	}
	b.WriteString(" ORDER BY name COLLATE NOCASE, email")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// Count returns the number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&n)
	return n, err
}

// CountByRole returns the number of accounts holding role.
func (s *SQLiteStore) CountByRole(ctx context.Context, role string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account WHERE role = ?", role).Scan(&n)
	return n, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func scanOne(row *sql.Row) (domain.Account, error) {
	a, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, err
}

func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var a domain.Account
	var createdAt string
	var lastLogin, lockedUntil sql.NullString
	err := scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.Patente,
		&createdAt,
		&lastLogin,
		&a.FailedLogins,
		&lockedUntil,
	)
	if err != nil {
		return domain.Account{}, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Account{}, err
	}
	if lastLogin.Valid && lastLogin.String != "" {
		a.LastLogin, _ = parseTime(lastLogin.String)
	}
	if lockedUntil.Valid && lockedUntil.String != "" {
		a.LockedUntil, _ = parseTime(lockedUntil.String)
	}
	return a, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
