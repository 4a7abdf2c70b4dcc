package models

import (
	"time"
)

// BadgeType: static config (seeded at startup)
type BadgeType struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	Code        string `gorm:"uniqueIndex;not null"` // e.g., "NATURE_LOVER"
	Name        string `gorm:"not null"`
	Description string
	IconName    string `gorm:"type:varchar(32)"` // client-side lucide icon key
	Rarity      string `gorm:"type:varchar(16);default:'common'"`
	XPThreshold int64  `gorm:"not null"` // lifetime XP required
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// UserBadge: awarded instance
type UserBadge struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	ExternalUserID string    `gorm:"index;not null"`
	BadgeTypeID    string    `gorm:"index;not null"`
	AwardedAt      time.Time `gorm:"autoCreateTime"`
}

// BadgeTriggers mirror the client's XP badge ladder.
var BadgeTriggers = []BadgeType{
	{
		Code:        "NATURE_LOVER",
		Name:        "Nature Lover",
		Description: "Earned your first 50 XP caring for plants",
		IconName:    "Heart",
		Rarity:      "common",
		XPThreshold: 50,
	},
	{
		Code:        "WATER_SAVER",
		Name:        "Water Saver",
		Description: "Reached 150 lifetime XP",
		IconName:    "Droplets",
		Rarity:      "common",
		XPThreshold: 150,
	},
	{
		Code:        "SOIL_EXPERT",
		Name:        "Soil Expert",
		Description: "Reached 300 lifetime XP",
		IconName:    "Shovel",
		Rarity:      "rare",
		XPThreshold: 300,
	},
	{
		Code:        "SUN_SEEKER",
		Name:        "Sun Seeker",
		Description: "Reached 500 lifetime XP — level 2!",
		IconName:    "Sun",
		Rarity:      "rare",
		XPThreshold: 500,
	},
	{
		Code:        "GREEN_THUMB",
		Name:        "Green Thumb",
		Description: "Reached 800 lifetime XP",
		IconName:    "Leaf",
		Rarity:      "epic",
		XPThreshold: 800,
	},
	{
		Code:        "BUG_HERO",
		Name:        "Bug Hero",
		Description: "Reached 1200 lifetime XP",
		IconName:    "Bug",
		Rarity:      "epic",
		XPThreshold: 1200,
	},
}
