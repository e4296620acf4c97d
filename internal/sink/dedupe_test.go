package sink

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisDeduper_BadURL(t *testing.T) {
	_, err := NewRedisDeduper(context.Background(), "not-a-redis-url", time.Minute)
	assert.Error(t, err)
}

// Needs a running Redis, e.g. IRGSH_TEST_REDIS=redis://localhost:6379/15
func TestRedisDeduper_Seen(t *testing.T) {
	redisURL := os.Getenv("IRGSH_TEST_REDIS")
	if redisURL == "" {
		t.Skip("IRGSH_TEST_REDIS not set")
	}

	ctx := context.Background()
	deduper, err := NewRedisDeduper(ctx, redisURL, time.Minute)
	require.NoError(t, err)
	defer deduper.Close()

	key := ReportKey("title", uuid.NewString())

	seen, err := deduper.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = deduper.Seen(ctx, key)
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, deduper.Forget(ctx, key))
	seen, err = deduper.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)
}
