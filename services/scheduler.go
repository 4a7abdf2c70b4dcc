package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartDailyJobs runs the in-process periodic jobs: keeping today's tip slot
// warm and topping the active mission pool back up.
func StartDailyJobs(tips *TipService, progression *ProgressionService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Hourly: no-op once today's tip is cached, refreshes after midnight
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			tips.Warm(ctx)
		}),
	)

	// Every 10 minutes: refill missions consumed by completions
	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			if err := progression.TopUpMissions(ctx); err != nil {
				log.Printf("[Scheduler] mission top-up failed: %v", err)
			}
		}),
	)
}
