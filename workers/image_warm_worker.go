package workers

import (
	"context"
	"log"
	"time"

	"github.com/arnab412/SabujSathi/services"
)

// WarmGrowthImages periodically walks the growth stages and generates any
// stage image the cache is missing, so the growth view rarely has to fall
// back to the static URLs. Each generated image spends one AI request.
func WarmGrowthImages(ctx context.Context, growth *services.GrowthImageService, pollInterval time.Duration) {
	log.Println("Starting growth image warm-up worker...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	// One pass at startup so a fresh deployment fills the cache without
	// waiting a full interval.
	warmPass(ctx, growth)

	for {
		select {
		case <-ctx.Done():
			log.Println("Growth image warm-up stopped.")
			return
		case <-ticker.C:
			warmPass(ctx, growth)
		}
	}
}

func warmPass(ctx context.Context, growth *services.GrowthImageService) {
	warmed := 0
	for _, stage := range services.GrowthStages {
		passCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
		_, cached := growth.StageImage(passCtx, stage)
		cancel()
		if !cached {
			warmed++
		}
		if ctx.Err() != nil {
			return
		}
	}
	if warmed > 0 {
		log.Printf("🌱 Warmed %d growth stage image(s).", warmed)
	}
}
