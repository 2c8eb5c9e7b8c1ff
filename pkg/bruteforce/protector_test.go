package bruteforce

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopNeverLocks(t *testing.T) {
	locked, err := Noop{}.IsTemporarilyDisabled(context.Background(), "demo", "user-1")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestFailureKey(t *testing.T) {
	assert.Equal(t, "bruteforce:demo:user-1", FailureKey("demo", "user-1"))
}

func TestNewRedisProtectorDefaultsThreshold(t *testing.T) {
	assert.Equal(t, 5, NewRedisProtector(nil, 0).maxFailures)
	assert.Equal(t, 3, NewRedisProtector(nil, 3).maxFailures)
}

func TestRedisProtectorIsTemporarilyDisabled(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	p := NewRedisProtector(rdb, 3)

	tests := []struct {
		name    string
		subject string
		counter string // empty: key absent
		locked  bool
		wantErr bool
	}{
		{name: "no failures recorded", subject: "fresh"},
		{name: "below threshold", subject: "alice", counter: "2"},
		{name: "at threshold", subject: "bob", counter: "3", locked: true},
		{name: "above threshold", subject: "carol", counter: "9", locked: true},
		{name: "garbage counter", subject: "mallory", counter: "lots", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.counter != "" {
				require.NoError(t, mr.Set(FailureKey("demo", tt.subject), tt.counter))
			}
			locked, err := p.IsTemporarilyDisabled(context.Background(), "demo", tt.subject)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, locked)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.locked, locked)
		})
	}
}

func TestRedisProtectorScopesCountersByRealm(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, mr.Set(FailureKey("demo", "alice"), "10"))

	locked, err := NewRedisProtector(rdb, 0).IsTemporarilyDisabled(context.Background(), "other", "alice")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestRedisProtectorUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	_, err := NewRedisProtector(rdb, 3).IsTemporarilyDisabled(context.Background(), "demo", "alice")
	assert.ErrorContains(t, err, "bruteforce lookup")
}
