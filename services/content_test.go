package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuideForLevelBands(t *testing.T) {
	require.Equal(t, 1, GuideForLevel(1).MinLevel)
	require.Equal(t, 2, GuideForLevel(2).MinLevel)
	require.Equal(t, 2, GuideForLevel(3).MinLevel)
	require.Equal(t, 4, GuideForLevel(5).MinLevel)
	require.Equal(t, 8, GuideForLevel(12).MinLevel)

	// Levels beyond the table still get the last band.
	require.Equal(t, 8, GuideForLevel(500).MinLevel)
	require.Equal(t, 8, GuideForLevel(0).MinLevel)
}
