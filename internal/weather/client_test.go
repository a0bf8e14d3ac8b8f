package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastPicksClosestHour(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "temperature_2m,weathercode", r.URL.Query().Get("hourly"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"hourly": {
				"time": ["2026-03-10T17:00", "2026-03-10T18:00", "2026-03-10T19:00"],
				"temperature_2m": [11.5, 10.2, 9.8],
				"weathercode": [0, 61, 3]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 51.5072, -0.1276)

	kickOff := time.Date(2026, time.March, 10, 18, 10, 0, 0, time.UTC)
	f, err := client.Forecast(context.Background(), kickOff)
	require.NoError(t, err)
	assert.Equal(t, 10.2, f.Temperature)
	assert.Equal(t, "rain", f.Condition)
}

func TestForecastNoSlotNearEnough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"hourly": {
				"time": ["2026-03-10T00:00"],
				"temperature_2m": [5.0],
				"weathercode": [0]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 51.5072, -0.1276)

	farAway := time.Date(2026, time.March, 15, 18, 0, 0, 0, time.UTC)
	_, err := client.Forecast(context.Background(), farAway)
	assert.ErrorIs(t, err, ErrNoForecast)
}

func TestForecastServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 51.5072, -0.1276)

	_, err := client.Forecast(context.Background(), time.Now())
	assert.Error(t, err)
}

func TestDescribeCode(t *testing.T) {
	assert.Equal(t, "clear", describeCode(0))
	assert.Equal(t, "cloudy", describeCode(2))
	assert.Equal(t, "rain", describeCode(63))
	assert.Equal(t, "snow", describeCode(73))
	assert.Equal(t, "thunderstorm", describeCode(95))
	assert.Equal(t, "unknown", describeCode(40))
}
