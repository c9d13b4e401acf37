// internal/account/account.go
//
// Player accounts.
// Responsibilities:
//   - Creating users with a validated screen name and a bcrypt password hash.
//   - Looking users up by id or (case-insensitive) screen name.
//   - Verifying passwords on login.
//
// A logged-in player's score namespace is their user id; guests use the
// anonymous cookie id (see internal/httpserver).

package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUsernameTaken is returned when the screen name already exists.
	ErrUsernameTaken = errors.New("account: username taken")
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("account: user not found")
	// ErrBadCredentials is returned when a login does not match.
	ErrBadCredentials = errors.New("account: invalid username or password")
)

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Repo reads and writes users.
type Repo struct {
	db   *sql.DB
	cost int
}

// NewRepo wraps a migrated database.
func NewRepo(db *sql.DB) *Repo { return &Repo{db: db, cost: bcrypt.DefaultCost} }

// WithCost sets the bcrypt cost (tests use bcrypt.MinCost).
func (r *Repo) WithCost(cost int) *Repo {
	r.cost = cost
	return r
}

// Create validates input, checks uniqueness, hashes the password and inserts.
func (r *Repo) Create(ctx context.Context, username, password string) (*User, error) {
	username = NormalizeName(username)
	if err := ValidateScreenName(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339),
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// FindByUsername loads a user by screen name, ignoring case.
func (r *Repo) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE lower(username)=lower(?)`,
		NormalizeName(username)))
}

// FindByID loads a user by id.
func (r *Repo) FindByID(ctx context.Context, id string) (*User, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id=?`, id))
}

// Authenticate returns the user when username and password match.
func (r *Repo) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := r.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

func (r *Repo) scan(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}
