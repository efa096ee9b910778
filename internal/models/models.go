package models

import (
	"database/sql"
)

// Snapshot is the normalized result of one forecast fetch for one city.
// It is immutable once built; the cache entry that holds it owns it
// until expiry or replacement.
type Snapshot struct {
	City           string        `json:"city"`
	Temperature    float64       `json:"temperature"`
	Condition      string        `json:"condition"`
	LastUpdated    string        `json:"lastupdated"`
	Humidity       int           `json:"humidity"`
	WindKph        float64       `json:"wind_kph"`
	PrecipMm       float64       `json:"precip_mm"`
	Latitude       float64       `json:"latitude"`
	Longitude      float64       `json:"longitude"`
	Forecast       []DayForecast `json:"forecast"`
	Alerts         []string      `json:"alerts"`
	OfficialAlerts []string      `json:"official_alerts"`
}

type DayForecast struct {
	Date      string  `json:"date"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Condition string  `json:"condition"`
}

// HistoryRecord is one daily summary row for a city. The observation
// columns arrived in a later schema version and stay nullable.
type HistoryRecord struct {
	City      string
	MinTemp   float64
	MaxTemp   float64
	Condition string
	Humidity  sql.NullInt64
	WindKph   sql.NullFloat64
	PrecipMm  sql.NullFloat64
}

// TrendPoint is one history row as served by the trends endpoint.
// Optional columns are omitted from the JSON when NULL in the store.
type TrendPoint struct {
	Date     string   `json:"date"`
	MinTemp  float64  `json:"mintemp"`
	MaxTemp  float64  `json:"maxtemp"`
	Humidity *int64   `json:"humidity,omitempty"`
	WindKph  *float64 `json:"wind_kph,omitempty"`
	PrecipMm *float64 `json:"precip_mm,omitempty"`
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
}

// CityStats is a per-city aggregate over the history table, shown on
// the admin page.
type CityStats struct {
	City     string
	Records  int
	AvgMin   sql.NullFloat64
	AvgMax   sql.NullFloat64
	LastDate sql.NullString
}
