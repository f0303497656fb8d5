package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	throttleWindow      = 15 * time.Minute
	throttleMaxFailures = 5
)

// LoginThrottle counts failed login attempts per login name in Redis.
// Key format: login_failures:<login>, expiring after throttleWindow.
// The counter is advisory: a Redis outage never blocks logins.
type LoginThrottle struct {
	client *redis.Client
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client) *LoginThrottle {
	return &LoginThrottle{client: client}
}

// TooMany reports whether login has exceeded the failure budget inside the
// current window.
func (t *LoginThrottle) TooMany(ctx context.Context, login string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(login)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= throttleMaxFailures, nil
}

// RecordFailure counts one failed attempt and refreshes the window expiry.
func (t *LoginThrottle) RecordFailure(ctx context.Context, login string) error {
	key := t.key(login)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, throttleWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, login string) error {
	return t.client.Del(ctx, t.key(login)).Err()
}

func (t *LoginThrottle) key(login string) string {
	return "login_failures:" + login
}
