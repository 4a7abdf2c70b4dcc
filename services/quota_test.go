package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func quotaAt(t *testing.T, day time.Time) (*QuotaCounter, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	q := NewQuotaCounter(kv)
	q.now = func() time.Time { return day }
	return q, kv
}

func TestQuotaStartsEmpty(t *testing.T) {
	q, _ := quotaAt(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	stats := q.Stats(context.Background())
	require.Equal(t, 0, stats.Used)
	require.Equal(t, DailyQuotaLimit, stats.Limit)
	require.Equal(t, DailyQuotaLimit, stats.Remaining)
}

func TestQuotaIncrementCounts(t *testing.T) {
	ctx := context.Background()
	q, _ := quotaAt(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	for i := 0; i < 5; i++ {
		q.Increment(ctx)
	}
	stats := q.Stats(ctx)
	require.Equal(t, 5, stats.Used)
	require.Equal(t, DailyQuotaLimit-5, stats.Remaining)
}

func TestQuotaDayRolloverResetsLazily(t *testing.T) {
	ctx := context.Background()
	day1 := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	q, kv := quotaAt(t, day1)

	q.Increment(ctx)
	q.Increment(ctx)
	require.Equal(t, 2, q.Stats(ctx).Used)

	slotBefore, err := kv.Get(ctx, quotaSlotKey)
	require.NoError(t, err)

	// Next day: reads see zero but the stale slot is left alone.
	q.now = func() time.Time { return day1.AddDate(0, 0, 1) }
	require.Equal(t, 0, q.Stats(ctx).Used)

	slotAfter, err := kv.Get(ctx, quotaSlotKey)
	require.NoError(t, err)
	require.Equal(t, slotBefore, slotAfter, "Stats must not rewrite the slot")

	// The first increment of the new day starts a fresh record at 1.
	q.Increment(ctx)
	require.Equal(t, 1, q.Stats(ctx).Used)
}

func TestQuotaIsAdvisoryPastTheLimit(t *testing.T) {
	ctx := context.Background()
	q, kv := quotaAt(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	// Seed the slot just under the limit instead of looping 1500 times.
	require.NoError(t, kv.Set(ctx, quotaSlotKey, `{"date":"2025-06-01","count":1499}`))

	q.Increment(ctx)
	q.Increment(ctx)

	stats := q.Stats(ctx)
	require.Equal(t, 1501, stats.Used, "counting continues past the limit")
	require.Equal(t, 0, stats.Remaining, "remaining clamps at zero")
}

func TestQuotaTreatsCorruptSlotAsZero(t *testing.T) {
	ctx := context.Background()
	q, kv := quotaAt(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	require.NoError(t, kv.Set(ctx, quotaSlotKey, "not json at all"))
	require.Equal(t, 0, q.Stats(ctx).Used)

	q.Increment(ctx)
	require.Equal(t, 1, q.Stats(ctx).Used, "increment recovers the slot")
}
