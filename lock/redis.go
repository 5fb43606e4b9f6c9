package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL bounds how long a crashed holder can block a key.
	DefaultTTL = 10 * time.Minute

	// DefaultPollInterval is the wait between acquisition attempts.
	DefaultPollInterval = 250 * time.Millisecond

	// DefaultPrefix namespaces lock keys in a shared Redis.
	DefaultPrefix = "deployweb:lock:"
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker backed by SET NX PX leases.
// A lease outliving TTL is lost; Unlock then reports ErrNotHeld.
type Redis struct {
	client       redis.UniversalClient
	ttl          time.Duration
	pollInterval time.Duration
	prefix       string
	logger       *slog.Logger
}

var _ Locker = (*Redis)(nil)

// RedisOption configures a Redis locker.
type RedisOption func(*Redis)

// WithTTL sets the lease duration.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

// WithPollInterval sets the wait between acquisition attempts.
func WithPollInterval(d time.Duration) RedisOption {
	return func(r *Redis) {
		r.pollInterval = d
	}
}

// WithPrefix sets the key namespace.
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// WithLogger configures the locker with a logger. Nil disables logging.
func WithLogger(logger *slog.Logger) RedisOption {
	return func(r *Redis) {
		r.logger = logger
	}
}

// NewRedis creates a Redis locker using client.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client:       client,
		ttl:          DefaultTTL,
		pollInterval: DefaultPollInterval,
		prefix:       DefaultPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Lock implements Locker.
func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	redisKey := r.prefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquiring lock %q: %w", key, err)
		}
		if ok {
			r.logger.DebugContext(ctx, "lock acquired", "key", key)
			return r.unlockFunc(redisKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for lock %q: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (r *Redis) unlockFunc(redisKey, token string) Unlock {
	return func() error {
		// Release must not be skipped because the request context was cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		n, err := releaseScript.Run(ctx, r.client, []string{redisKey}, token).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("releasing lock %q: %w", redisKey, err)
		}
		if n == 0 {
			r.logger.Warn("lock lease expired before release", "key", redisKey)
			return ErrNotHeld
		}
		return nil
	}
}
