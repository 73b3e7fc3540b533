package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Account statuses. Disabled accounts keep their row but cannot log in or
// use an existing token.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	Status       string
	PasswordHash string
	TokenVersion int
	CreatedAt    time.Time
}

// AuthState is the per-request slice of a user the middleware re-checks on
// every protected call.
type AuthState struct {
	TokenVersion int
	Status       string
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const userColumns = `id, username, email, first_name, last_name, phone, status, password_hash, token_version, created_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Phone, &u.Status, &u.PasswordHash, &u.TokenVersion, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) CreateUser(ctx context.Context, u User) error {
	status := u.Status
	if status == "" {
		status = StatusActive
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, email, first_name, last_name, phone, status, password_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Phone, status, u.PasswordHash)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = ?
	`, email))
	if err != nil {
		return nil, fmt.Errorf("get by email: %w", err)
	}
	return u, nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	u, err := scanUser(r.DB.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = ?
	`, username))
	if err != nil {
		return nil, fmt.Errorf("get by username: %w", err)
	}
	return u, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = ?
	`, id))
	if err != nil {
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return u, nil
}

// GetAuthState loads the token version and account status in one query.
// Unknown users come back as (nil, nil).
func (r *Repo) GetAuthState(ctx context.Context, id string) (*AuthState, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT token_version, status
		FROM users
		WHERE id = ?
	`, id)

	var st AuthState
	if err := row.Scan(&st.TokenVersion, &st.Status); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get auth state: %w", err)
	}
	return &st, nil
}

// UpdateProfile replaces the editable profile fields.
func (r *Repo) UpdateProfile(ctx context.Context, id, firstName, lastName, phone string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET first_name = ?, last_name = ?, phone = ?
		WHERE id = ?
	`, firstName, lastName, phone, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update profile: user not found")
	}
	return nil
}

// SetStatus flips an account between active and disabled. Disabling also
// bumps the token version so outstanding tokens die immediately.
func (r *Repo) SetStatus(ctx context.Context, id, status string) error {
	if status != StatusActive && status != StatusDisabled {
		return fmt.Errorf("set status: unknown status %q", status)
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET status = ?, token_version = token_version + 1
		WHERE id = ?
	`, status, id)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set status rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set status: user not found")
	}
	return nil
}

func (r *Repo) UpdatePasswordAndBumpTokenVersion(ctx context.Context, id string, passwordHash string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update password: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, token_version = token_version + 1
		WHERE id = ?
	`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update password: user not found")
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update password: %w", err)
	}
	return nil
}

func (r *Repo) BumpTokenVersion(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET token_version = token_version + 1
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("bump token version: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("bump token version rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bump token version: user not found")
	}
	return nil
}
