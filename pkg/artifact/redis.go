package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "mantle:ws:"
	indexSuffix      = "__index"
)

// RedisStore implements Store on top of Redis.
// Workspaces are JSON documents under <prefix><name>; a set under
// <prefix>__index tracks the names.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL expires stored workspaces after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithKeyPrefix overrides the default "mantle:ws:" key prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect creates a client for addr and pings it, retrying with
// exponential backoff up to attempts times.
func Connect(ctx context.Context, addr string, db, attempts int, opts ...RedisOption) (*RedisStore, error) {
	if attempts < 1 {
		attempts = 1
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	b := newBackoff(100*time.Millisecond, 2*time.Second)
	var err error
	for i := 0; i < attempts; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			return NewRedisStore(client, opts...), nil
		}
		if i == attempts-1 {
			break
		}
		if werr := b.wait(ctx); werr != nil {
			err = werr
			break
		}
	}
	_ = client.Close()
	return nil, fmt.Errorf("connect redis %s: %w", addr, err)
}

func (s *RedisStore) key(name string) string { return s.prefix + name }
func (s *RedisStore) indexKey() string      { return s.prefix + indexSuffix }

// Add stores ws under name unless the name is taken.
func (s *RedisStore) Add(ctx context.Context, name string, ws *Workspace) error {
	if err := validate(name, ws); err != nil {
		return err
	}
	ws.Name = name
	data, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.key(name), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("store workspace: %w", err)
	}
	if !ok {
		return ErrExists
	}
	return s.client.SAdd(ctx, s.indexKey(), name).Err()
}

// AddOrReplace stores ws under name.
func (s *RedisStore) AddOrReplace(ctx context.Context, name string, ws *Workspace) error {
	if err := validate(name, ws); err != nil {
		return err
	}
	ws.Name = name
	data, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(name), data, s.ttl)
		pipe.SAdd(ctx, s.indexKey(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store workspace: %w", err)
	}
	return nil
}

// Retrieve loads the workspace stored under name.
func (s *RedisStore) Retrieve(ctx context.Context, name string) (*Workspace, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}

	var ws Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("unmarshal workspace: %w", err)
	}
	return &ws, nil
}

// Remove deletes the workspace and its index entry.
func (s *RedisStore) Remove(ctx context.Context, name string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(name))
		pipe.SRem(ctx, s.indexKey(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove workspace: %w", err)
	}
	return nil
}

// Exists reports whether name is stored.
func (s *RedisStore) Exists(ctx context.Context, name string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(name)).Result()
	if err != nil {
		return false, fmt.Errorf("check workspace: %w", err)
	}
	return n > 0, nil
}

// Names lists stored names, pruning index entries whose key has expired.
func (s *RedisStore) Names(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}

	names := make([]string, 0, len(members))
	for _, m := range members {
		ok, err := s.Exists(ctx, m)
		if err != nil {
			return nil, err
		}
		if !ok {
			_ = s.client.SRem(ctx, s.indexKey(), m).Err()
			continue
		}
		names = append(names, m)
	}
	sort.Strings(names)
	return names, nil
}

// Clear removes every workspace under the prefix.
func (s *RedisStore) Clear(ctx context.Context) error {
	members, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return fmt.Errorf("list workspaces: %w", err)
	}
	keys := make([]string, 0, len(members)+1)
	for _, m := range members {
		keys = append(keys, s.key(m))
	}
	keys = append(keys, s.indexKey())
	return s.client.Del(ctx, keys...).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
