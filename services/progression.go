package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/arnab412/SabujSathi/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrMissionNotFound is returned for completes against unknown or already
// retired missions.
var ErrMissionNotFound = errors.New("mission not found or already completed")

// activeMissionTarget is how many missions the home screen shows.
const activeMissionTarget = 3

// thankYouNotes shown after a completed mission.
var thankYouNotes = []string{
	"আপনার মমতা গাছের প্রাণে স্পন্দন জাগাল। ধন্যবাদ!",
	"প্রকৃতি তার রক্ষাকর্তাকে চিনে নিল। দারুণ কাজ!",
	"আজকের এই যত্ন পৃথিবী মনে রাখবে।",
	"সবুজের বন্ধুত্ব অমূল্য। আপনি তা প্রমাণ করলেন।",
	"একটি ছোট পদক্ষেপ, কিন্তু প্রকৃতির জন্য বিশাল প্রাপ্তি।",
}

// MissionGenerator produces a replacement mission after one is completed.
type MissionGenerator interface {
	GenerateMission(ctx context.Context) *models.Mission
}

// ProgressionService drives the gamification loop: missions award XP and
// impact counters through the Progress Store, badges follow XP, streaks
// follow daily check-ins.
type ProgressionService struct {
	DB        *gorm.DB
	Store     *ProgressStore
	Badges    *BadgeService
	Generator MissionGenerator

	now func() time.Time // overridable in tests
}

func NewProgressionService(db *gorm.DB, store *ProgressStore, badges *BadgeService, generator MissionGenerator) *ProgressionService {
	return &ProgressionService{
		DB:        db,
		Store:     store,
		Badges:    badges,
		Generator: generator,
		now:       time.Now,
	}
}

// SeedMissions inserts the built-in mission pool if missing (idempotent).
func (s *ProgressionService) SeedMissions() error {
	for _, mission := range models.SeedMissions {
		var count int64
		if err := s.DB.Model(&models.Mission{}).Where("code = ?", mission.Code).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			mission.ID = uuid.NewString()
			if err := s.DB.Create(&mission).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// ActiveMissions lists the current mission pool, oldest first.
func (s *ProgressionService) ActiveMissions() ([]models.Mission, error) {
	var missions []models.Mission
	err := s.DB.Where("active = ?", true).
		Order("created_at ASC").
		Limit(activeMissionTarget).
		Find(&missions).Error
	return missions, err
}

// MissionResult is what a completed mission hands back to the client.
type MissionResult struct {
	XPEarned    int64                `json:"xp_earned"`
	Note        string               `json:"note"` // thank-you message
	Replacement *models.Mission      `json:"replacement"`
	Progress    *models.UserProgress `json:"progress"`
}

// CompleteMission retires the mission, records the completion, awards its XP
// plus one point on each impact counter through the Progress Store, awards
// any newly crossed badges, and generates a replacement mission.
func (s *ProgressionService) CompleteMission(ctx context.Context, uid, missionID string) (*MissionResult, error) {
	var mission models.Mission
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND active = ?", missionID, true).First(&mission).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrMissionNotFound
			}
			return err
		}

		mission.Active = false
		if err := tx.Save(&mission).Error; err != nil {
			return err
		}

		completion := models.MissionCompletion{
			ID:             uuid.NewString(),
			ExternalUserID: uid,
			MissionID:      mission.ID,
			XPEarned:       mission.XP,
		}
		return tx.Create(&completion).Error
	})
	if err != nil {
		return nil, err
	}

	// Award as a delta under the store lock; a concurrent completion must
	// not overwrite this one's XP.
	var totalXP int64
	s.Store.Update(uid, func(prog *models.UserProgress) bool {
		prog.TotalXP += mission.XP
		prog.ImpactWater++
		prog.ImpactOxygen++
		prog.ImpactCarbon++
		totalXP = prog.TotalXP
		return true
	})

	if err := s.Badges.AutoAwardBadges(uid, totalXP); err != nil {
		log.Printf("⚠️ [PROGRESSION] badge award failed for %s: %v", uid, err)
	}

	replacement := s.Generator.GenerateMission(ctx)
	if err := s.DB.Create(replacement).Error; err != nil {
		log.Printf("⚠️ [PROGRESSION] failed to persist replacement mission: %v", err)
	}

	log.Printf("🎮 XP Awarded: %s → +%d (mission %s), total=%d", uid, mission.XP, mission.Code, totalXP)

	return &MissionResult{
		XPEarned:    mission.XP,
		Note:        thankYouNotes[rand.Intn(len(thankYouNotes))],
		Replacement: replacement,
		Progress:    s.Store.Read(uid),
	}, nil
}

// TopUpMissions refills the active pool to the target size with generated
// missions. Used by the scheduler.
func (s *ProgressionService) TopUpMissions(ctx context.Context) error {
	var count int64
	if err := s.DB.Model(&models.Mission{}).Where("active = ?", true).Count(&count).Error; err != nil {
		return err
	}
	for count < activeMissionTarget {
		mission := s.Generator.GenerateMission(ctx)
		if err := s.DB.Create(mission).Error; err != nil {
			return fmt.Errorf("failed to persist mission: %w", err)
		}
		count++
	}
	return nil
}

// CheckIn records today's check-in: consecutive days grow the streak, a gap
// resets it to 1, repeat check-ins on the same day are no-ops.
func (s *ProgressionService) CheckIn(uid string) (streak int, already bool) {
	now := s.now()
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	s.Store.Update(uid, func(prog *models.UserProgress) bool {
		lastDay := time.UnixMilli(prog.LastCheckIn).Format("2006-01-02")
		if lastDay == today {
			streak, already = prog.Streak, true
			return false
		}

		streak = 1
		if lastDay == yesterday {
			streak = prog.Streak + 1
		}
		prog.Streak = streak
		prog.LastCheckIn = now.UnixMilli()
		return true
	})
	return streak, already
}
