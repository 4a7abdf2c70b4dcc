package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingTipProvider struct {
	calls int
}

func (p *countingTipProvider) GardeningTip(context.Context) string {
	p.calls++
	return fmt.Sprintf("tip #%d", p.calls)
}

func TestDailyTipCachedForTheDay(t *testing.T) {
	ctx := context.Background()
	provider := &countingTipProvider{}
	svc := NewTipService(NewMemoryKV(), provider)
	day1 := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day1 }

	first := svc.DailyTip(ctx)
	second := svc.DailyTip(ctx)
	require.Equal(t, first, second)
	require.Equal(t, 1, provider.calls, "same-day reads hit the cache")

	// After midnight a fresh tip is fetched and cached.
	svc.now = func() time.Time { return day1.AddDate(0, 0, 1) }
	third := svc.DailyTip(ctx)
	require.NotEqual(t, first, third)
	require.Equal(t, 2, provider.calls)

	fourth := svc.DailyTip(ctx)
	require.Equal(t, third, fourth)
	require.Equal(t, 2, provider.calls)
}

func TestThemePreferenceDefaultsToLight(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	require.Equal(t, "light", ThemePreference(ctx, kv))

	require.True(t, SaveThemePreference(ctx, kv, "dark"))
	require.Equal(t, "dark", ThemePreference(ctx, kv))

	require.False(t, SaveThemePreference(ctx, kv, "neon"))
	require.Equal(t, "dark", ThemePreference(ctx, kv), "invalid save leaves the stored value")
}
