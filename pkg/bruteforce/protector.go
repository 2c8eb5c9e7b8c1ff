// Package bruteforce exposes the lockout state maintained by the login flow.
// Counting failures is the login flow's job; this side only reads.
package bruteforce

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Protector reports whether a subject is temporarily locked out of a realm.
type Protector interface {
	IsTemporarilyDisabled(ctx context.Context, realm, subject string) (bool, error)
}

// Noop never locks anyone out.
type Noop struct{}

func (Noop) IsTemporarilyDisabled(context.Context, string, string) (bool, error) { return false, nil }

// RedisProtector reads failure counters stored under FailureKey. The key is
// expected to carry its own TTL, which bounds the lockout.
type RedisProtector struct {
	rdb         *redis.Client
	maxFailures int
}

func NewRedisProtector(rdb *redis.Client, maxFailures int) *RedisProtector {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	return &RedisProtector{rdb: rdb, maxFailures: maxFailures}
}

// FailureKey is the redis key holding the failed login count of a subject.
func FailureKey(realm, subject string) string {
	return fmt.Sprintf("bruteforce:%s:%s", realm, subject)
}

func (p *RedisProtector) IsTemporarilyDisabled(ctx context.Context, realm, subject string) (bool, error) {
	v, err := p.rdb.Get(ctx, FailureKey(realm, subject)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("bruteforce lookup: %w", err)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return false, fmt.Errorf("bruteforce counter %q: %w", v, err)
	}
	return n >= p.maxFailures, nil
}
