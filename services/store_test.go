package services

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/arnab412/SabujSathi/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserProgress{},
		&models.Mission{},
		&models.MissionCompletion{},
		&models.BadgeType{},
		&models.UserBadge{},
	))
	return db
}

func TestReadMaterializesDefaults(t *testing.T) {
	store := NewProgressStore(newTestDB(t))

	prog := store.Read(models.GuestUID)
	require.Equal(t, models.GuestUID, prog.ExternalUserID)
	require.Equal(t, models.GuestDisplayName, prog.DisplayName)
	require.EqualValues(t, 0, prog.TotalXP)
	require.Equal(t, 1, prog.Streak)
	require.EqualValues(t, 5, prog.ImpactWater)
	require.EqualValues(t, 10, prog.ImpactOxygen)
	require.EqualValues(t, 5, prog.ImpactCarbon)

	// The record is persisted, not just assembled: a second read finds it.
	again := store.Read(models.GuestUID)
	require.Equal(t, prog.ID, again.ID)
}

func TestWriteMergesOnlyPatchedFields(t *testing.T) {
	store := NewProgressStore(newTestDB(t))
	store.Read(models.GuestUID)

	xp := int64(120)
	store.Write(models.GuestUID, ProgressPatch{TotalXP: &xp})

	prog := store.Read(models.GuestUID)
	require.EqualValues(t, 120, prog.TotalXP)
	// Untouched fields keep their defaults.
	require.Equal(t, 1, prog.Streak)
	require.Equal(t, models.GuestDisplayName, prog.DisplayName)
	require.EqualValues(t, 5, prog.ImpactWater)
}

func TestLevelDerivation(t *testing.T) {
	store := NewProgressStore(newTestDB(t))

	xp := int64(480)
	store.Write(models.GuestUID, ProgressPatch{TotalXP: &xp})
	prog := store.Read(models.GuestUID)
	require.Equal(t, 1, prog.Level())
	require.EqualValues(t, 480, prog.LevelXP())

	xp = 530
	store.Write(models.GuestUID, ProgressPatch{TotalXP: &xp})
	prog = store.Read(models.GuestUID)
	require.Equal(t, 2, prog.Level())
	require.EqualValues(t, 30, prog.LevelXP())
}

func TestSubscribeFiresImmediatelyThenPerWrite(t *testing.T) {
	store := NewProgressStore(newTestDB(t))
	store.Read(models.GuestUID)

	var seen []int64
	unsubscribe := store.Subscribe(models.GuestUID, func(p models.UserProgress) {
		seen = append(seen, p.TotalXP)
	})

	require.Len(t, seen, 1, "subscription fires once with the current record")
	require.EqualValues(t, 0, seen[0])

	for _, xp := range []int64{50, 100, 150} {
		v := xp
		store.Write(models.GuestUID, ProgressPatch{TotalXP: &v})
	}
	require.Equal(t, []int64{0, 50, 100, 150}, seen, "writes notify in order")

	unsubscribe()
	xp := int64(999)
	store.Write(models.GuestUID, ProgressPatch{TotalXP: &xp})
	require.Len(t, seen, 4, "no notifications after unsubscribe")

	unsubscribe() // safe to call again
}

func TestUnsubscribeRemovesOnlyItsOwnSubscription(t *testing.T) {
	store := NewProgressStore(newTestDB(t))
	store.Read(models.GuestUID)

	var a, b int
	unsubA := store.Subscribe(models.GuestUID, func(models.UserProgress) { a++ })
	unsubB := store.Subscribe(models.GuestUID, func(models.UserProgress) { b++ })

	unsubA()
	xp := int64(10)
	store.Write(models.GuestUID, ProgressPatch{TotalXP: &xp})

	require.Equal(t, 1, a, "only the initial callback")
	require.Equal(t, 2, b, "initial callback plus one write")
	unsubB()
}

func TestWritesIsolatePerUID(t *testing.T) {
	store := NewProgressStore(newTestDB(t))
	store.Read(models.GuestUID)

	// Each uid materializes and mutates its own record.
	xp := int64(70)
	store.Write("someone_else", ProgressPatch{TotalXP: &xp})

	require.EqualValues(t, 0, store.Read(models.GuestUID).TotalXP)
	require.EqualValues(t, 70, store.Read("someone_else").TotalXP)
}

func TestConcurrentUpdatesNeverLoseAnAward(t *testing.T) {
	store := NewProgressStore(newTestDB(t))
	store.Read(models.GuestUID)

	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				store.Update(models.GuestUID, func(p *models.UserProgress) bool {
					p.TotalXP += 50
					p.ImpactWater++
					return true
				})
			}
		}()
	}
	wg.Wait()

	prog := store.Read(models.GuestUID)
	require.EqualValues(t, workers*perWorker*50, prog.TotalXP)
	require.EqualValues(t, 5+workers*perWorker, prog.ImpactWater, "default 5 plus one per award")
}

func TestReadDegradesToDefaultsOnStorageFailure(t *testing.T) {
	db := newTestDB(t)
	store := NewProgressStore(db)

	xp := int64(70)
	store.Write(models.GuestUID, ProgressPatch{TotalXP: &xp})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	prog := store.Read(models.GuestUID)
	require.EqualValues(t, 0, prog.TotalXP)
	require.Equal(t, 1, prog.Streak)
	require.Equal(t, models.GuestDisplayName, prog.DisplayName)
}

func TestDroppedWriteNotifiesNobody(t *testing.T) {
	db := newTestDB(t)
	store := NewProgressStore(db)
	store.Read(models.GuestUID)

	calls := 0
	unsubscribe := store.Subscribe(models.GuestUID, func(models.UserProgress) { calls++ })
	defer unsubscribe()
	require.Equal(t, 1, calls)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	xp := int64(99)
	store.Write(models.GuestUID, ProgressPatch{TotalXP: &xp})
	require.Equal(t, 1, calls, "a write the storage dropped must not notify")
}
