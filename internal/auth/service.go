package auth

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ariefcatur/go-storefront/internal/redisx"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)

type Service struct {
	Users      Users
	Sessions   Sessions
	Log        zerolog.Logger
	Now        func() time.Time
	BcryptCost int
	SessionTTL time.Duration
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (in RegisterInput) validate() error {
	u := strings.TrimSpace(in.Username)
	if n := len(u); n < 3 || n > 50 {
		return &ValidationError{Field: "username", Msg: "Username must be 3-50 characters"}
	}
	if !usernamePattern.MatchString(u) {
		return &ValidationError{Field: "username", Msg: "Username can only contain letters, numbers, and underscores"}
	}
	e := strings.TrimSpace(in.Email)
	if a, err := mail.ParseAddress(e); err != nil || a.Address != e || !strings.Contains(e[strings.LastIndex(e, "@"):], ".") {
		return &ValidationError{Field: "email", Msg: "Please enter a valid email"}
	}
	if len(in.Password) < 6 {
		return &ValidationError{Field: "password", Msg: "Password must be at least 6 characters"}
	}
	if in.ConfirmPassword != in.Password {
		return &ValidationError{Field: "confirmPassword", Msg: "Passwords do not match"}
	}
	return nil
}

// CreateUser stores a new account without opening a session.
func (s *Service) CreateUser(ctx context.Context, in RegisterInput, role Role) (User, error) {
	if err := in.validate(); err != nil {
		return User{}, err
	}
	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return User{}, err
	}
	now := s.now()
	u := User{
		ID:           uuid.New(),
		Username:     strings.ToLower(strings.TrimSpace(in.Username)),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return User{}, err
	}
	s.Log.Info().Str("username", u.Username).Str("role", string(u.Role)).Msg("user created")
	return u, nil
}

// Register creates a regular account and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	u, err := s.CreateUser(ctx, in, RoleUser)
	if err != nil {
		return Session{}, err
	}
	return s.open(ctx, u)
}

func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return Session{}, &ValidationError{Field: "username", Msg: "Username is required"}
	}
	if password == "" {
		return Session{}, &ValidationError{Field: "password", Msg: "Password is required"}
	}

	u, err := s.Users.FindByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return Session{}, ErrDeactivated
	}

	if err := s.Users.TouchLastLogin(ctx, u.ID, s.now()); err != nil {
		s.Log.Warn().Err(err).Str("username", u.Username).Msg("update last login failed")
	}
	return s.open(ctx, u)
}

func (s *Service) open(ctx context.Context, u User) (Session, error) {
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = redisx.TTLSession
	}
	sess := Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.Role,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.Sessions.Put(ctx, sess, ttl); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, token)
}

func (s *Service) Authenticate(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrUnauthenticated
	}
	sess, err := s.Sessions.Get(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if !sess.ExpiresAt.IsZero() && s.now().After(sess.ExpiresAt) {
		return Session{}, ErrUnauthenticated
	}
	return sess, nil
}
