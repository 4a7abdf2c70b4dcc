package services

import (
	"context"
	"testing"
	"time"

	"github.com/arnab412/SabujSathi/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type staticMissionGenerator struct {
	calls int
}

func (g *staticMissionGenerator) GenerateMission(context.Context) *models.Mission {
	g.calls++
	return &models.Mission{
		ID:         uuid.NewString(),
		Code:       "generated_" + uuid.NewString()[:8],
		Label:      "পানি দিন",
		Sub:        "Watering",
		Desc:       "গাছে পানি দিন।",
		XP:         40,
		IconName:   "Droplets",
		ColorTheme: "blue",
		Source:     "ai",
		Active:     true,
	}
}

func newProgressionFixture(t *testing.T) (*ProgressionService, *ProgressStore, *staticMissionGenerator) {
	t.Helper()
	db := newTestDB(t)
	store := NewProgressStore(db)
	badges := NewBadgeService(db)
	require.NoError(t, badges.SeedBadgeTypes())
	gen := &staticMissionGenerator{}
	svc := NewProgressionService(db, store, badges, gen)
	require.NoError(t, svc.SeedMissions())
	return svc, store, gen
}

func TestSeedMissionsIsIdempotent(t *testing.T) {
	svc, _, _ := newProgressionFixture(t)
	require.NoError(t, svc.SeedMissions())

	missions, err := svc.ActiveMissions()
	require.NoError(t, err)
	require.Len(t, missions, len(models.SeedMissions))
}

func TestCompleteMissionAwardsXPAndImpact(t *testing.T) {
	svc, store, gen := newProgressionFixture(t)
	ctx := context.Background()

	missions, err := svc.ActiveMissions()
	require.NoError(t, err)
	require.NotEmpty(t, missions)
	target := missions[0]

	before := store.Read(models.GuestUID)

	result, err := svc.CompleteMission(ctx, models.GuestUID, target.ID)
	require.NoError(t, err)
	require.Equal(t, target.XP, result.XPEarned)
	require.NotEmpty(t, result.Note)
	require.NotNil(t, result.Replacement)
	require.Equal(t, 1, gen.calls)

	after := store.Read(models.GuestUID)
	require.Equal(t, before.TotalXP+target.XP, after.TotalXP)
	require.Equal(t, before.ImpactWater+1, after.ImpactWater)
	require.Equal(t, before.ImpactOxygen+1, after.ImpactOxygen)
	require.Equal(t, before.ImpactCarbon+1, after.ImpactCarbon)

	// The completion is recorded and the mission retired.
	var completions int64
	require.NoError(t, svc.DB.Model(&models.MissionCompletion{}).
		Where("mission_id = ?", target.ID).Count(&completions).Error)
	require.EqualValues(t, 1, completions)

	_, err = svc.CompleteMission(ctx, models.GuestUID, target.ID)
	require.ErrorIs(t, err, ErrMissionNotFound)
}

func TestCompleteMissionAwardsCrossedBadges(t *testing.T) {
	svc, store, _ := newProgressionFixture(t)
	ctx := context.Background()

	// Seed missions carry 40-50 XP, enough to cross the first badge at 50
	// after two completions.
	missions, err := svc.ActiveMissions()
	require.NoError(t, err)
	for _, m := range missions[:2] {
		_, err := svc.CompleteMission(ctx, models.GuestUID, m.ID)
		require.NoError(t, err)
	}

	require.GreaterOrEqual(t, store.Read(models.GuestUID).TotalXP, int64(50))

	var badges int64
	require.NoError(t, svc.DB.Model(&models.UserBadge{}).
		Where("external_user_id = ?", models.GuestUID).Count(&badges).Error)
	require.GreaterOrEqual(t, badges, int64(1))
}

func TestCompleteMissionUnknownID(t *testing.T) {
	svc, _, _ := newProgressionFixture(t)
	_, err := svc.CompleteMission(context.Background(), models.GuestUID, uuid.NewString())
	require.ErrorIs(t, err, ErrMissionNotFound)
}

func TestTopUpMissionsRefillsThePool(t *testing.T) {
	svc, _, gen := newProgressionFixture(t)
	ctx := context.Background()

	missions, err := svc.ActiveMissions()
	require.NoError(t, err)
	for _, m := range missions {
		// Retire directly so completions don't generate replacements.
		require.NoError(t, svc.DB.Model(&models.Mission{}).
			Where("id = ?", m.ID).Update("active", false).Error)
	}

	require.NoError(t, svc.TopUpMissions(ctx))
	require.Equal(t, activeMissionTarget, gen.calls)

	refilled, err := svc.ActiveMissions()
	require.NoError(t, err)
	require.Len(t, refilled, activeMissionTarget)
}

func TestSameDayCheckInDoesNotCommit(t *testing.T) {
	svc, store, _ := newProgressionFixture(t)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }
	svc.CheckIn(models.GuestUID)

	calls := 0
	unsubscribe := store.Subscribe(models.GuestUID, func(models.UserProgress) { calls++ })
	defer unsubscribe()

	streak, already := svc.CheckIn(models.GuestUID)
	require.True(t, already)
	require.Equal(t, 1, streak)
	require.Equal(t, 1, calls, "a no-op check-in writes nothing and notifies nobody")
}

func TestCheckInStreakTransitions(t *testing.T) {
	svc, store, _ := newProgressionFixture(t)

	day := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	// A fresh record has never checked in, so the first check-in resets
	// the default streak to 1.
	streak, already := svc.CheckIn(models.GuestUID)
	require.Equal(t, 1, streak)
	require.False(t, already)

	// Same day again: no-op.
	streak, already = svc.CheckIn(models.GuestUID)
	require.Equal(t, 1, streak)
	require.True(t, already)

	// Next day: streak grows.
	svc.now = func() time.Time { return day.AddDate(0, 0, 1) }
	streak, already = svc.CheckIn(models.GuestUID)
	require.Equal(t, 2, streak)
	require.False(t, already)

	// Skipping a day resets to 1.
	svc.now = func() time.Time { return day.AddDate(0, 0, 3) }
	streak, already = svc.CheckIn(models.GuestUID)
	require.Equal(t, 1, streak)
	require.False(t, already)

	require.Equal(t, 1, store.Read(models.GuestUID).Streak)
}
