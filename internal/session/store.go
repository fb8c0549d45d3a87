package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidSessionID is returned for ids that are not UUIDs
var ErrInvalidSessionID = errors.New("invalid session id")

// TokenStore persists one token per session id. Load returns "" with a nil
// error when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context, sessionID string) (string, error)
	Save(ctx context.Context, sessionID, token string) error
	Delete(ctx context.Context, sessionID string) error
}

// Pruner is implemented by stores that need expired entries removed on a
// schedule
type Pruner interface {
	Prune(ctx context.Context) (int, error)
}

func validateID(sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, sessionID)
	}
	return nil
}

// FileStore keeps one sealed token file per session under dir
type FileStore struct {
	dir    string
	sealer *Sealer
	ttl    time.Duration
}

// NewFileStore creates the directory if needed
func NewFileStore(dir string, sealer *Sealer, ttl time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{dir: dir, sealer: sealer, ttl: ttl}, nil
}

func (f *FileStore) path(sessionID string) string {
	return filepath.Join(f.dir, sessionID+".tok")
}

// Load reads and unseals the token for sessionID. Expired files read as empty.
func (f *FileStore) Load(_ context.Context, sessionID string) (string, error) {
	if err := validateID(sessionID); err != nil {
		return "", err
	}

	p := f.path(sessionID)
	info, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat session file: %w", err)
	}
	if f.ttl > 0 && time.Since(info.ModTime()) > f.ttl {
		return "", nil
	}

	sealed, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}
	token, err := f.sealer.Open(sealed)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// Save seals the token and writes it atomically
func (f *FileStore) Save(_ context.Context, sessionID, token string) error {
	if err := validateID(sessionID); err != nil {
		return err
	}

	sealed, err := f.sealer.Seal([]byte(token))
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, sessionID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(sessionID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store session file: %w", err)
	}
	return nil
}

// Delete removes the token; a missing file is not an error
func (f *FileStore) Delete(_ context.Context, sessionID string) error {
	if err := validateID(sessionID); err != nil {
		return err
	}
	if err := os.Remove(f.path(sessionID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// Prune deletes token files older than the store TTL
func (f *FileStore) Prune(ctx context.Context) (int, error) {
	if f.ttl <= 0 {
		return 0, nil
	}

	matches, err := filepath.Glob(filepath.Join(f.dir, "*.tok"))
	if err != nil {
		return 0, fmt.Errorf("failed to list session files: %w", err)
	}

	removed := 0
	for _, p := range matches {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) <= f.ttl {
			continue
		}
		if err := os.Remove(p); err == nil {
			removed++
		}
	}
	return removed, nil
}

// RedisStore keeps sealed tokens in redis with a TTL
type RedisStore struct {
	client redis.Cmdable
	sealer *Sealer
	ttl    time.Duration
	prefix string
}

// NewRedisStore wraps an existing redis client
func NewRedisStore(client redis.Cmdable, sealer *Sealer, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		sealer: sealer,
		ttl:    ttl,
		prefix: "directtree:session:",
	}
}

// NewRedisClient connects to redisURL and pings it
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

// Load reads and unseals the token for sessionID
func (r *RedisStore) Load(ctx context.Context, sessionID string) (string, error) {
	if err := validateID(sessionID); err != nil {
		return "", err
	}
	sealed, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session token: %w", err)
	}
	token, err := r.sealer.Open(sealed)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// Save seals and stores the token with the store TTL
func (r *RedisStore) Save(ctx context.Context, sessionID, token string) error {
	if err := validateID(sessionID); err != nil {
		return err
	}
	sealed, err := r.sealer.Seal([]byte(token))
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(sessionID), sealed, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session token: %w", err)
	}
	return nil
}

// Delete removes the token
func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := validateID(sessionID); err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}
