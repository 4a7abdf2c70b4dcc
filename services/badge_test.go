package services

import (
	"testing"

	"github.com/arnab412/SabujSathi/models"
	"github.com/stretchr/testify/require"
)

func TestSeedBadgeTypesIsIdempotent(t *testing.T) {
	svc := NewBadgeService(newTestDB(t))
	require.NoError(t, svc.SeedBadgeTypes())
	require.NoError(t, svc.SeedBadgeTypes())

	var count int64
	require.NoError(t, svc.DB.Model(&models.BadgeType{}).Count(&count).Error)
	require.EqualValues(t, len(models.BadgeTriggers), count)
}

func TestAutoAwardBadgesByThreshold(t *testing.T) {
	svc := NewBadgeService(newTestDB(t))
	require.NoError(t, svc.SeedBadgeTypes())

	require.NoError(t, svc.AutoAwardBadges(models.GuestUID, 160))

	ladder, err := svc.UserBadges(models.GuestUID)
	require.NoError(t, err)
	require.Len(t, ladder, len(models.BadgeTriggers))

	unlocked := map[string]bool{}
	for _, entry := range ladder {
		unlocked[entry["code"].(string)] = entry["unlocked"].(bool)
	}
	require.True(t, unlocked["NATURE_LOVER"], "50 XP threshold crossed")
	require.True(t, unlocked["WATER_SAVER"], "150 XP threshold crossed")
	require.False(t, unlocked["SOIL_EXPERT"], "300 XP threshold not reached")

	// Awarding again must not duplicate.
	require.NoError(t, svc.AutoAwardBadges(models.GuestUID, 160))
	var count int64
	require.NoError(t, svc.DB.Model(&models.UserBadge{}).
		Where("external_user_id = ?", models.GuestUID).Count(&count).Error)
	require.EqualValues(t, 2, count)
}
