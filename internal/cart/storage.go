package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-storefront/internal/redisx"
)

// Storage holds one named cart as a whole list.
type Storage interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
}

// FileStorage keeps the cart as a JSON file. A missing file is an empty cart.
type FileStorage struct {
	Path string
}

func (f FileStorage) Load(context.Context) ([]Line, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return []Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal(b, &lines); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", f.Path, err)
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

func (f FileStorage) Save(_ context.Context, lines []Line) error {
	b, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save cart: %w", err)
		}
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return os.Rename(tmp, f.Path)
}

// RedisStorage keeps the cart under cart:{Name}.
type RedisStorage struct {
	RDB  *redis.Client
	Name string
}

func (r RedisStorage) key() string { return fmt.Sprintf(redisx.KeyCart, r.Name) }

func (r RedisStorage) Load(ctx context.Context) ([]Line, error) {
	b, err := r.RDB.Get(ctx, r.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal(b, &lines); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", r.key(), err)
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

func (r RedisStorage) Save(ctx context.Context, lines []Line) error {
	b, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, r.key(), b, redisx.TTLCart).Err()
}
