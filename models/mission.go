package models

import "time"

// Mission is a short eco-friendly daily task shown on the home screen.
// Completed missions are retired and replaced by a freshly generated one.
type Mission struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	Code       string `gorm:"index" json:"code"` // stable key for seeded missions
	Label      string `json:"label"`              // Bengali title
	Sub        string `json:"sub"`                // short English subtitle
	Desc       string `json:"desc"`               // Bengali description
	XP         int64  `json:"xp"`
	IconName   string `gorm:"type:varchar(32)" json:"icon_name"`   // Leaf, Droplets, Sun, ...
	ColorTheme string `gorm:"type:varchar(16)" json:"color_theme"` // green, blue, orange, ...
	Source     string `gorm:"type:varchar(16);default:'seed'" json:"source"` // seed | ai | fallback
	Active     bool   `gorm:"default:true;index" json:"active"`

	Timestamps
}

// MissionCompletion records a finished mission and the XP it paid out.
type MissionCompletion struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	MissionID      string    `gorm:"index;not null" json:"mission_id"`
	XPEarned       int64     `json:"xp_earned"`
	CompletedAt    time.Time `gorm:"autoCreateTime" json:"completed_at"`
}

// SeedMissions is the initial pool a fresh database starts with, matching
// the client's built-in mission cards.
var SeedMissions = []Mission{
	{
		Code:       "gratitude",
		Label:      "গাছকে ধন্যবাদ দিন",
		Sub:        "Gratitude",
		Desc:       "গাছের পাতায় আলতো হাত বুলিয়ে মনে মনে ধন্যবাদ জানান।",
		XP:         40,
		IconName:   "HandHeart",
		ColorTheme: "red",
		Source:     "seed",
		Active:     true,
	},
	{
		Code:       "recycle_water",
		Label:      "চাল ধোয়া জল",
		Sub:        "Recycle Water",
		Desc:       "আজ ট্যাপের জল না দিয়ে, চাল বা সবজি ধোয়া জল গাছে দিন।",
		XP:         50,
		IconName:   "Recycle",
		ColorTheme: "blue",
		Source:     "seed",
		Active:     true,
	},
	{
		Code:       "nature_care",
		Label:      "পাখির তৃষ্ণা",
		Sub:        "Kindness",
		Desc:       "বারান্দায় বা ছাদে পাখিদের জন্য একটি পাত্রে জল রাখুন।",
		XP:         45,
		IconName:   "Bird",
		ColorTheme: "orange",
		Source:     "seed",
		Active:     true,
	},
}
