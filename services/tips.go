package services

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const (
	tipSlotKey   = "sobuj_sathi_daily_tip"
	themeSlotKey = "sobuj_sathi_theme"
)

// tipRecord is the persisted daily-tip slot.
type tipRecord struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// TipProvider generates a fresh gardening tip.
type TipProvider interface {
	GardeningTip(ctx context.Context) string
}

// TipService caches one tip per calendar day so the client never pays for
// the same tip twice. Slot failures degrade to fetching a fresh tip.
type TipService struct {
	KV       KV
	Provider TipProvider

	now func() time.Time // overridable in tests
}

func NewTipService(kv KV, provider TipProvider) *TipService {
	return &TipService{KV: kv, Provider: provider, now: time.Now}
}

// DailyTip returns today's tip, fetching and caching a new one when the
// stored slot is missing or stale.
func (s *TipService) DailyTip(ctx context.Context) string {
	today := s.now().Format("2006-01-02")

	if raw, err := s.KV.Get(ctx, tipSlotKey); err == nil {
		var rec tipRecord
		if err := json.Unmarshal([]byte(raw), &rec); err == nil && rec.Date == today && rec.Text != "" {
			return rec.Text
		}
	}

	tip := s.Provider.GardeningTip(ctx)
	raw, _ := json.Marshal(tipRecord{Date: today, Text: tip})
	if err := s.KV.Set(ctx, tipSlotKey, string(raw)); err != nil {
		log.Printf("⚠️ [TIPS] failed to cache daily tip: %v", err)
	}
	return tip
}

// Warm fetches today's tip if the slot is stale, for the scheduler.
func (s *TipService) Warm(ctx context.Context) {
	_ = s.DailyTip(ctx)
}

// ThemePreference reads the stored theme, defaulting to light.
func ThemePreference(ctx context.Context, kv KV) string {
	theme, err := kv.Get(ctx, themeSlotKey)
	if err != nil || (theme != "dark" && theme != "light") {
		return "light"
	}
	return theme
}

// SaveThemePreference stores the theme; invalid values are rejected.
func SaveThemePreference(ctx context.Context, kv KV, theme string) bool {
	if theme != "dark" && theme != "light" {
		return false
	}
	if err := kv.Set(ctx, themeSlotKey, theme); err != nil {
		log.Printf("⚠️ [THEME] failed to save preference: %v", err)
	}
	return true
}
