package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var ErrNoForecast = errors.New("no forecast available for that time")

// Forecast is the snapshot cached on a booking.
type Forecast struct {
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	At          time.Time `json:"at"`
}

// Client talks to an Open-Meteo compatible forecast API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	lat, lon   float64
}

func NewClient(baseURL string, lat, lon float64) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		lat:        lat,
		lon:        lon,
	}
}

type forecastResponse struct {
	Hourly struct {
		Time          []string  `json:"time"`
		Temperature2M []float64 `json:"temperature_2m"`
		WeatherCode   []int     `json:"weathercode"`
	} `json:"hourly"`
}

// Forecast returns the hourly forecast closest to the given time.
func (c *Client) Forecast(ctx context.Context, at time.Time) (*Forecast, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", c.lat))
	q.Set("longitude", fmt.Sprintf("%.4f", c.lon))
	q.Set("hourly", "temperature_2m,weathercode")
	q.Set("forecast_days", "7")
	q.Set("timezone", "UTC")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api returned status %d", resp.StatusCode)
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	best := -1
	var bestDiff time.Duration
	for i, ts := range payload.Hourly.Time {
		slot, err := time.Parse("2006-01-02T15:04", ts)
		if err != nil {
			continue
		}
		diff := slot.Sub(at.UTC())
		if diff < 0 {
			diff = -diff
		}
		if best == -1 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}

	if best == -1 || best >= len(payload.Hourly.Temperature2M) || bestDiff > 2*time.Hour {
		return nil, ErrNoForecast
	}

	condition := "unknown"
	if best < len(payload.Hourly.WeatherCode) {
		condition = describeCode(payload.Hourly.WeatherCode[best])
	}

	return &Forecast{
		Temperature: payload.Hourly.Temperature2M[best],
		Condition:   condition,
		At:          at,
	}, nil
}

// describeCode maps WMO weather codes to short labels.
func describeCode(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code <= 3:
		return "cloudy"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code >= 61 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "showers"
	case code >= 95:
		return "thunderstorm"
	default:
		return "unknown"
	}
}
