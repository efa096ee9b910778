package weather

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"

	"github.com/shekhar-gif/weather-dashboard/internal/metrics"
	"github.com/shekhar-gif/weather-dashboard/internal/models"
)

const defaultBaseURL = "https://api.weatherapi.com/v1"

// HistoryRecorder receives one daily summary row per successful fetch.
// Failures are logged and swallowed; history logging must never fail a
// fetch.
type HistoryRecorder interface {
	RecordToday(rec models.HistoryRecord) error
}

// ProviderError is an error envelope returned by WeatherAPI itself (bad
// city, invalid key), as opposed to a transport or decode failure. The
// message is the provider's, verbatim.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string { return e.Message }

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	history HistoryRecorder
}

func NewClient(apiKey string, history HistoryRecorder) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		history: history,
	}
}

type forecastResponse struct {
	Location struct {
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lon  float64 `json:"lon"`
	} `json:"location"`
	Current struct {
		TempC       float64 `json:"temp_c"`
		LastUpdated string  `json:"last_updated"`
		Humidity    int     `json:"humidity"`
		WindKph     float64 `json:"wind_kph"`
		PrecipMm    float64 `json:"precip_mm"`
		Condition   struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []forecastDay `json:"forecastday"`
	} `json:"forecast"`
	Alerts struct {
		Alert []providerAlert `json:"alert"`
	} `json:"alerts"`
}

type forecastDay struct {
	Date string `json:"date"`
	Day  struct {
		MaxTempC  float64 `json:"maxtemp_c"`
		MinTempC  float64 `json:"mintemp_c"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"day"`
}

type providerAlert struct {
	Event     string `json:"event"`
	Headline  string `json:"headline"`
	Areas     string `json:"areas"`
	Effective string `json:"effective"`
	Severity  string `json:"severity"`
	Desc      string `json:"desc"`
}

// Fetch issues one 3-day forecast request with alerts enabled and
// normalizes the response into a Snapshot.
func (c *Client) Fetch(ctx context.Context, city string) (*models.Snapshot, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", city)
	q.Set("days", "3")
	q.Set("alerts", "yes")
	reqURL := fmt.Sprintf("%s/forecast.json?%s", c.baseURL, q.Encode())

	start := time.Now()
	body, err := c.get(ctx, reqURL)
	metrics.ProviderCallLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("transport_error").Inc()
		return nil, err
	}

	// WeatherAPI reports its own failures as a JSON envelope with a
	// top-level error object, usually on a 400 status.
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
		metrics.ProviderCallsTotal.WithLabelValues("provider_error").Inc()
		return nil, &ProviderError{Message: msg.String()}
	}

	var data forecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("unmarshal forecast: %w", err)
	}
	metrics.ProviderCallsTotal.WithLabelValues("ok").Inc()

	snap := &models.Snapshot{
		City:        data.Location.Name,
		Temperature: data.Current.TempC,
		Condition:   data.Current.Condition.Text,
		LastUpdated: data.Current.LastUpdated,
		Humidity:    data.Current.Humidity,
		WindKph:     data.Current.WindKph,
		PrecipMm:    data.Current.PrecipMm,
		Latitude:    data.Location.Lat,
		Longitude:   data.Location.Lon,
	}
	for _, day := range data.Forecast.ForecastDay {
		snap.Forecast = append(snap.Forecast, models.DayForecast{
			Date:      day.Date,
			Min:       day.Day.MinTempC,
			Max:       day.Day.MaxTempC,
			Condition: day.Day.Condition.Text,
		})
	}
	snap.Alerts = deriveAlerts(snap.Forecast)
	snap.OfficialAlerts = renderOfficialAlerts(data.Alerts.Alert)

	c.recordHistory(snap)

	return snap, nil
}

// get retrieves the URL, retrying transient failures (network errors,
// 429 and 5xx) with exponential backoff. Other statuses return the body
// as-is so the caller can inspect the provider's error envelope.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch forecast: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("fetch forecast: status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// recordHistory derives the min/max across the returned forecast days
// and writes today's history row. The serve path stays available even
// when history logging fails.
func (c *Client) recordHistory(snap *models.Snapshot) {
	if c.history == nil || len(snap.Forecast) == 0 {
		return
	}

	minTemp := snap.Forecast[0].Min
	maxTemp := snap.Forecast[0].Max
	for _, day := range snap.Forecast[1:] {
		if day.Min < minTemp {
			minTemp = day.Min
		}
		if day.Max > maxTemp {
			maxTemp = day.Max
		}
	}

	rec := models.HistoryRecord{
		City:      snap.City,
		MinTemp:   minTemp,
		MaxTemp:   maxTemp,
		Condition: snap.Condition,
		Humidity:  toNullInt64(snap.Humidity),
		WindKph:   toNullFloat64(snap.WindKph),
		PrecipMm:  toNullFloat64(snap.PrecipMm),
	}
	if err := c.history.RecordToday(rec); err != nil {
		log.Printf("weather: record history for %s: %v", snap.City, err)
		return
	}
	metrics.HistoryRowsRecorded.Inc()
}

func toNullInt64(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

func toNullFloat64(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}
