package workers

import (
	"context"
	"log"
	"time"

	"github.com/arnab412/SabujSathi/services"
)

// PollWeather refreshes the cached weather snapshot on an interval. Failures
// are logged and skipped; the stale snapshot keeps serving until the next
// successful fetch.
func PollWeather(ctx context.Context, weather *services.WeatherService, pollInterval time.Duration) {
	log.Println("Starting weather polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	refresh := func() {
		fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := weather.Refresh(fetchCtx); err != nil {
			log.Printf("❌ Weather refresh failed: %v", err)
		}
	}

	refresh()

	for {
		select {
		case <-ctx.Done():
			log.Println("Weather polling stopped.")
			return
		case <-ticker.C:
			refresh()
		}
	}
}
