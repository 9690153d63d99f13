package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var ErrWeatherKeyMissing = errors.New("weather api key is not configured")

const defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5/onecall"

// HourlyForecast carries the upstream payload through unchanged; the
// client renders it directly.
type HourlyForecast struct {
	Hourly   json.RawMessage `json:"hourly"`
	Current  json.RawMessage `json:"current"`
	Timezone string          `json:"timezone"`
}

// WeatherService proxies hourly forecasts from OpenWeather.
type WeatherService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewWeatherService(apiKey string) *WeatherService {
	return &WeatherService{
		apiKey:  apiKey,
		baseURL: defaultWeatherBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SetBaseURL overrides the upstream endpoint, used in tests.
func (s *WeatherService) SetBaseURL(baseURL string) {
	s.baseURL = baseURL
}

func (s *WeatherService) Hourly(ctx context.Context, lat, lon string) (*HourlyForecast, error) {
	if s.apiKey == "" {
		return nil, ErrWeatherKeyMissing
	}

	params := url.Values{}
	params.Set("lat", lat)
	params.Set("lon", lon)
	params.Set("exclude", "minutely,daily,alerts")
	params.Set("units", "metric")
	params.Set("appid", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather upstream returned status %d", resp.StatusCode)
	}

	var forecast HourlyForecast
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, fmt.Errorf("decoding forecast: %w", err)
	}
	return &forecast, nil
}
