package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-storefront/internal/redisx"
)

type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

type Sessions interface {
	Put(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// RedisSessions stores sessions under session:{token} and lets Redis expire them.
type RedisSessions struct{ RDB *redis.Client }

func (r RedisSessions) Put(ctx context.Context, s Session, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, fmt.Sprintf(redisx.KeySession, s.Token), b, ttl).Err()
}

func (r RedisSessions) Get(ctx context.Context, token string) (Session, error) {
	b, err := r.RDB.Get(ctx, fmt.Sprintf(redisx.KeySession, token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrUnauthenticated
	}
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (r RedisSessions) Delete(ctx context.Context, token string) error {
	return r.RDB.Del(ctx, fmt.Sprintf(redisx.KeySession, token)).Err()
}
