package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-storefront/internal/postgres"
)

type Users interface {
	Create(ctx context.Context, u User) error
	FindByUsername(ctx context.Context, username string) (User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Repo is the Postgres Users.
type Repo struct{ DB *pgxpool.Pool }

var _ Users = (*Repo)(nil)

func (r *Repo) Create(ctx context.Context, u User) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.Username, u.Email, u.PasswordHash, string(u.Role), u.IsActive, u.CreatedAt, u.UpdatedAt)
	if c, dup := postgres.UniqueViolation(err); dup {
		switch c {
		case "users_email_key":
			return ErrEmailTaken
		default:
			return ErrUsernameTaken
		}
	}
	return err
}

func (r *Repo) FindByUsername(ctx context.Context, username string) (User, error) {
	var (
		u    User
		role string
	)
	err := r.DB.QueryRow(ctx, `
		SELECT id, username, email, password_hash, role, is_active, last_login, created_at, updated_at
		FROM users WHERE username=$1`, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	u.Role = Role(role)
	return u, err
}

func (r *Repo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET last_login=$2, updated_at=$2 WHERE id=$1`, id, at)
	return err
}
