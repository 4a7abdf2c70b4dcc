package services

import (
	"log"
	"sync"

	"github.com/arnab412/SabujSathi/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressPatch is a shallow partial update of the progress record. Nil
// fields are left untouched.
type ProgressPatch struct {
	DisplayName   *string
	Email         *string
	TotalXP       *int64
	Streak        *int
	LastCheckIn   *int64
	UnlockedCards *[]int64
	ImpactWater   *int64
	ImpactOxygen  *int64
	ImpactCarbon  *int64
}

type subscriber struct {
	id string
	fn func(models.UserProgress)
}

// ProgressStore owns the authoritative progress record and a registry of
// change subscribers. Writes are durable before any subscriber is notified,
// so a subscriber that re-reads the store sees the value it was just given.
// All commits serialise on one mutex, so concurrent mutators never lose an
// update as long as they go through Write or Update.
type ProgressStore struct {
	DB *gorm.DB

	mu   sync.Mutex
	subs map[string][]subscriber
}

func NewProgressStore(db *gorm.DB) *ProgressStore {
	return &ProgressStore{
		DB:   db,
		subs: make(map[string][]subscriber),
	}
}

// Read returns the current record, materializing and persisting defaults if
// none exists. It never fails: on storage errors it degrades to defaults.
// Missing identity fields are backfilled so older records survive schema
// growth.
func (s *ProgressStore) Read(uid string) *models.UserProgress {
	var prog models.UserProgress
	err := s.DB.Where("external_user_id = ?", uid).First(&prog).Error
	if err == gorm.ErrRecordNotFound {
		fresh := models.DefaultProgress(uid)
		fresh.ID = uuid.NewString()
		if createErr := s.DB.Create(fresh).Error; createErr != nil {
			log.Printf("⚠️ [STORE] failed to persist default record for %s: %v", uid, createErr)
		}
		return fresh
	}
	if err != nil {
		log.Printf("⚠️ [STORE] read failed for %s, falling back to defaults: %v", uid, err)
		return models.DefaultProgress(uid)
	}

	backfill(&prog)
	return &prog
}

// backfill fills fields a pre-schema-change record may be missing.
func backfill(prog *models.UserProgress) {
	if prog.DisplayName == "" {
		prog.DisplayName = models.GuestDisplayName
	}
	if prog.Email == "" {
		prog.Email = models.GuestEmail
	}
	if prog.UnlockedCards == nil {
		prog.UnlockedCards = []int64{}
	}
	if prog.Streak < 1 {
		prog.Streak = 1
	}
}

// Write merges patch over the current record, persists it, then notifies all
// subscribers for that uid synchronously, in registration order. A storage
// failure drops the update with a logged warning; subscribers are not
// notified of dropped writes.
func (s *ProgressStore) Write(uid string, patch ProgressPatch) {
	s.Update(uid, func(prog *models.UserProgress) bool {
		applyPatch(prog, patch)
		return true
	})
}

// Update runs mutate against the current record and commits the result, all
// under the store lock, so read-modify-write callers (XP awards, streaks)
// cannot lose an update to a concurrent commit. Returning false from mutate
// abandons the commit without notifying anyone. mutate must not call back
// into the store.
func (s *ProgressStore) Update(uid string, mutate func(*models.UserProgress) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prog := s.Read(uid)
	if !mutate(prog) {
		return
	}

	if err := s.DB.Save(prog).Error; err != nil {
		log.Printf("⚠️ [STORE] write dropped for %s: %v", uid, err)
		return
	}

	for _, sub := range s.subs[uid] {
		sub.fn(*prog)
	}
}

func applyPatch(prog *models.UserProgress, patch ProgressPatch) {
	if patch.DisplayName != nil {
		prog.DisplayName = *patch.DisplayName
	}
	if patch.Email != nil {
		prog.Email = *patch.Email
	}
	if patch.TotalXP != nil {
		prog.TotalXP = *patch.TotalXP
	}
	if patch.Streak != nil {
		prog.Streak = *patch.Streak
	}
	if patch.LastCheckIn != nil {
		prog.LastCheckIn = *patch.LastCheckIn
	}
	if patch.UnlockedCards != nil {
		prog.UnlockedCards = *patch.UnlockedCards
	}
	if patch.ImpactWater != nil {
		prog.ImpactWater = *patch.ImpactWater
	}
	if patch.ImpactOxygen != nil {
		prog.ImpactOxygen = *patch.ImpactOxygen
	}
	if patch.ImpactCarbon != nil {
		prog.ImpactCarbon = *patch.ImpactCarbon
	}
}

// Subscribe registers fn for every committed change to uid's record. The
// callback fires once immediately with the current record, then once per
// committed Write or Update, in commit order. The returned func removes
// exactly this subscription and is safe to call more than once.
func (s *ProgressStore) Subscribe(uid string, fn func(models.UserProgress)) func() {
	s.mu.Lock()
	id := uuid.NewString()
	s.subs[uid] = append(s.subs[uid], subscriber{id: id, fn: fn})
	current := s.Read(uid)
	// Fire under the lock so no Write can slip in between registration and
	// the initial callback. Callbacks must not call back into the store.
	fn(*current)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.subs[uid]
		for i, sub := range list {
			if sub.id == id {
				s.subs[uid] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}
