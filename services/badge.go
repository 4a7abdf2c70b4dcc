package services

import (
	"log"

	"github.com/arnab412/SabujSathi/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// SeedBadgeTypes inserts the badge ladder if it is not present (idempotent).
func (s *BadgeService) SeedBadgeTypes() error {
	for _, trigger := range models.BadgeTriggers {
		var count int64
		if err := s.DB.Model(&models.BadgeType{}).Where("code = ?", trigger.Code).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			trigger.ID = uuid.NewString()
			if err := s.DB.Create(&trigger).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// AutoAwardBadges awards every badge whose XP threshold the user has crossed
// and does not hold yet.
func (s *BadgeService) AutoAwardBadges(externalUserID string, totalXP int64) error {
	var types []models.BadgeType
	if err := s.DB.Where("xp_threshold <= ?", totalXP).Find(&types).Error; err != nil {
		return err
	}

	for _, bt := range types {
		var count int64
		s.DB.Model(&models.UserBadge{}).
			Where("external_user_id = ? AND badge_type_id = ?", externalUserID, bt.ID).
			Count(&count)
		if count == 0 {
			userBadge := models.UserBadge{
				ID:             uuid.NewString(),
				ExternalUserID: externalUserID,
				BadgeTypeID:    bt.ID,
			}
			if err := s.DB.Create(&userBadge).Error; err != nil {
				return err
			}
			log.Printf("🎖️ Badge awarded: %s → %s", bt.Name, externalUserID)
		}
	}
	return nil
}

// UserBadges returns the badge ladder with unlock state for the user.
func (s *BadgeService) UserBadges(externalUserID string) ([]map[string]interface{}, error) {
	var types []models.BadgeType
	if err := s.DB.Order("xp_threshold ASC").Find(&types).Error; err != nil {
		return nil, err
	}

	var owned []models.UserBadge
	if err := s.DB.Where("external_user_id = ?", externalUserID).Find(&owned).Error; err != nil {
		return nil, err
	}
	ownedAt := make(map[string]models.UserBadge, len(owned))
	for _, ub := range owned {
		ownedAt[ub.BadgeTypeID] = ub
	}

	out := make([]map[string]interface{}, 0, len(types))
	for _, bt := range types {
		entry := map[string]interface{}{
			"code":         bt.Code,
			"name":         bt.Name,
			"description":  bt.Description,
			"icon_name":    bt.IconName,
			"rarity":       bt.Rarity,
			"xp_threshold": bt.XPThreshold,
			"unlocked":     false,
		}
		if ub, ok := ownedAt[bt.ID]; ok {
			entry["unlocked"] = true
			entry["awarded_at"] = ub.AwardedAt
		}
		out = append(out, entry)
	}
	return out, nil
}
