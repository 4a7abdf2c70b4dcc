package models

import (
	"time"

	"gorm.io/gorm"
)

// Level math: one level every LevelThreshold lifetime XP.
const LevelThreshold = 500

// Default guest identity. The deployed client runs in guest mode only, so a
// single record with this uid is the source of truth for all UI surfaces.
const (
	GuestUID         = "guest_user"
	GuestDisplayName = "সবুজ বন্ধু" // Green Friend
	GuestEmail       = "guest@sobuj.sathi"
)

// UserProgress is the singleton progress record for a user: lifetime XP,
// streak and eco-impact counters. Level and per-level XP are derived from
// TotalXP so they can never drift from it.
type UserProgress struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"`

	DisplayName string `json:"display_name"`
	Email       string `json:"email"`

	TotalXP     int64 `json:"total_xp" gorm:"default:0"`
	Streak      int   `json:"streak" gorm:"default:1"`
	LastCheckIn int64 `json:"last_check_in"` // epoch millis

	UnlockedCards []int64 `json:"unlocked_cards" gorm:"serializer:json"`

	// Impact counters, each incremented independently by completed missions
	ImpactWater  int64 `json:"impact_water" gorm:"default:0"`
	ImpactOxygen int64 `json:"impact_oxygen" gorm:"default:0"`
	ImpactCarbon int64 `json:"impact_carbon" gorm:"default:0"`

	Timestamps
}

// Level derives the current level from lifetime XP.
func (p *UserProgress) Level() int {
	return int(p.TotalXP/LevelThreshold) + 1
}

// LevelXP derives progress within the current level.
func (p *UserProgress) LevelXP() int64 {
	return p.TotalXP % LevelThreshold
}

// DefaultProgress returns the record a fresh install starts with.
func DefaultProgress(uid string) *UserProgress {
	return &UserProgress{
		ExternalUserID: uid,
		DisplayName:    GuestDisplayName,
		Email:          GuestEmail,
		TotalXP:        0,
		Streak:         1,
		LastCheckIn:    time.Now().UnixMilli(),
		UnlockedCards:  []int64{},
		ImpactWater:    5,
		ImpactOxygen:   10,
		ImpactCarbon:   5,
	}
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
