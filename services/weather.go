package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/arnab412/SabujSathi/utils"
)

const weatherSlotKey = "sobuj_sathi_weather"

// Dhaka. The client is Bangladesh-only for now.
const (
	weatherLatitude  = 23.81
	weatherLongitude = 90.41
)

// WeatherService keeps a cached open-meteo snapshot in the KV slot so the
// client widget never waits on the upstream API.
type WeatherService struct {
	KV     KV
	Client *http.Client

	baseURL string // overridable in tests
}

func NewWeatherService(kv KV) *WeatherService {
	return &WeatherService{
		KV:      kv,
		Client:  utils.HTTPClient,
		baseURL: "https://api.open-meteo.com",
	}
}

// Refresh fetches the current conditions and stores the raw JSON snapshot.
func (s *WeatherService) Refresh(ctx context.Context) error {
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.2f&longitude=%.2f&current=temperature_2m,relative_humidity_2m,precipitation,weather_code&timezone=Asia%%2FDhaka",
		s.baseURL, weatherLatitude, weatherLongitude,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("open-meteo returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if !json.Valid(body) {
		return fmt.Errorf("open-meteo returned invalid JSON")
	}

	return s.KV.Set(ctx, weatherSlotKey, string(body))
}

// Cached returns the last stored snapshot, or false when none exists yet.
func (s *WeatherService) Cached(ctx context.Context) (json.RawMessage, bool) {
	raw, err := s.KV.Get(ctx, weatherSlotKey)
	if err != nil || raw == "" {
		return nil, false
	}
	return json.RawMessage(raw), true
}
