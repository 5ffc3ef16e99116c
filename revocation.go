package auth

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
)

// defaultRevocationPrefix namespaces blacklist keys in shared Redis databases
const defaultRevocationPrefix = "auth:revoked:"

// RedisRevocationStore blacklists tokens as Redis keys with a TTL, so
// entries are destroyed by the store itself once the token would have
// expired naturally. Concurrent inserts touch independent keys and never
// corrupt one another.
type RedisRevocationStore struct {
	client redis.UniversalClient
	prefix string
	logger Logger
}

var _ RevocationStore = (*RedisRevocationStore)(nil)

// NewRedisRevocationStore wraps an existing Redis client
func NewRedisRevocationStore(client redis.UniversalClient) *RedisRevocationStore {
	return &RedisRevocationStore{
		client: client,
		prefix: defaultRevocationPrefix,
		logger: defLogger{},
	}
}

func (s *RedisRevocationStore) WithPrefix(prefix string) *RedisRevocationStore {
	if prefix != "" {
		s.prefix = prefix
	}
	return s
}

func (s *RedisRevocationStore) WithLogger(logger Logger) *RedisRevocationStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Revoke inserts a self-expiring entry for the raw token string. The ttl
// must be at least the token's remaining natural lifetime; that invariant
// belongs to the caller, which knows the decoded expiry.
func (s *RedisRevocationStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return errors.New("token is required", errors.CategoryBadInput)
	}

	if ttl <= 0 {
		// already past natural expiry, nothing to blacklist
		return nil
	}

	if err := s.client.Set(ctx, s.prefix+token, "1", ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to write revocation entry")
	}

	return nil
}

// Contains reports whether the exact token string is blacklisted
func (s *RedisRevocationStore) Contains(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+token).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to read revocation entry")
	}
	return n > 0, nil
}

// MemoryRevocationStore is an in-process RevocationStore for tests and
// single-node embedded deployments. Entries are pruned lazily on writes and
// filtered by deadline on reads.
type MemoryRevocationStore struct {
	mu        sync.RWMutex
	deadlines map[string]time.Time
	now       func() time.Time
}

var _ RevocationStore = (*MemoryRevocationStore)(nil)

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		deadlines: make(map[string]time.Time),
		now:       time.Now,
	}
}

// WithClock overrides the time source for deterministic expiry in tests
func (s *MemoryRevocationStore) WithClock(now func() time.Time) *MemoryRevocationStore {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return errors.New("token is required", errors.CategoryBadInput)
	}

	if ttl <= 0 {
		return nil
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, deadline := range s.deadlines {
		if deadline.Before(now) {
			delete(s.deadlines, key)
		}
	}

	s.deadlines[token] = now.Add(ttl)

	return nil
}

func (s *MemoryRevocationStore) Contains(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deadline, ok := s.deadlines[token]
	if !ok {
		return false, nil
	}

	return s.now().Before(deadline), nil
}
