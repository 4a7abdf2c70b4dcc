package services

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const (
	quotaSlotKey = "sobuj_sathi_daily_quota"
	// DailyQuotaLimit approximates the free-tier request budget for Flash.
	DailyQuotaLimit = 1500
)

// quotaRecord is the persisted slot shape. Count is meaningful only while
// Date equals the current calendar day.
type quotaRecord struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// QuotaStats is the read-only view exposed to the client.
type QuotaStats struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// QuotaCounter tracks outbound AI requests per calendar day. It is advisory
// only: it never blocks a caller and never errors out. A stale date is
// treated as count zero without rewriting the slot; the slot is only
// rewritten on the next Increment.
type QuotaCounter struct {
	KV    KV
	Limit int

	now func() time.Time // overridable in tests
}

func NewQuotaCounter(kv KV) *QuotaCounter {
	return &QuotaCounter{KV: kv, Limit: DailyQuotaLimit, now: time.Now}
}

func (q *QuotaCounter) today() string {
	return q.now().Format("2006-01-02")
}

// load returns today's count, treating missing, stale or corrupted slots as
// zero.
func (q *QuotaCounter) load(ctx context.Context) int {
	raw, err := q.KV.Get(ctx, quotaSlotKey)
	if err != nil {
		if err != ErrSlotNotFound {
			log.Printf("⚠️ [QUOTA] slot read failed, assuming 0: %v", err)
		}
		return 0
	}
	var rec quotaRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		log.Printf("⚠️ [QUOTA] corrupted slot, assuming 0: %v", err)
		return 0
	}
	if rec.Date != q.today() {
		return 0
	}
	return rec.Count
}

// Stats reports usage for today. Remaining never goes negative.
func (q *QuotaCounter) Stats(ctx context.Context) QuotaStats {
	used := q.load(ctx)
	remaining := q.Limit - used
	if remaining < 0 {
		remaining = 0
	}
	return QuotaStats{Used: used, Limit: q.Limit, Remaining: remaining}
}

// Increment bumps today's count by one, starting a fresh record when the
// stored date is not today. Failures are logged and otherwise ignored.
func (q *QuotaCounter) Increment(ctx context.Context) {
	rec := quotaRecord{Date: q.today(), Count: q.load(ctx) + 1}
	raw, _ := json.Marshal(rec)
	if err := q.KV.Set(ctx, quotaSlotKey, string(raw)); err != nil {
		log.Printf("⚠️ [QUOTA] slot write failed: %v", err)
	}
}
