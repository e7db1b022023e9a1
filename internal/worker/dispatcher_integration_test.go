//go:build integration

package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"wfgpos/internal/reconcile"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(rdC) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestDispatcher_PoolDeliversDaySummary(t *testing.T) {
	rdb := newRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := &chanHandler{ch: make(chan json.RawMessage, 1)}
	NewPool(rdb, map[string]Handler{JobDaySummary: h}).Start(ctx, 1)

	d := NewDispatcher(rdb)
	require.NoError(t, d.EnqueueDaySummary(ctx, reconcile.DaySummary{SessionKey: "abc"}))

	select {
	case raw := <-h.ch:
		var got reconcile.DaySummary
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "abc", got.SessionKey)
	case <-time.After(10 * time.Second):
		t.Fatal("job was not delivered")
	}
}

func TestSendToDLQ_PushesEntry(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()

	SendToDLQ(ctx, rdb, QueueDaySummary, JobDaySummary, json.RawMessage(`{}`), "smtp down", 3)

	n, err := DLQLength(ctx, rdb, QueueDaySummary)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	raw, err := rdb.LIndex(ctx, DLQPrefix+QueueDaySummary, 0).Result()
	require.NoError(t, err)
	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	assert.Equal(t, "smtp down", entry.Reason)
	assert.Equal(t, 3, entry.Attempts)
}

type chanHandler struct {
	ch chan json.RawMessage
}

func (h *chanHandler) Process(_ context.Context, raw json.RawMessage) {
	h.ch <- raw
}
