package store

import (
	"database/sql"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shekhar-gif/weather-dashboard/internal/models"
)

type Store struct {
	db  *sql.DB
	loc *time.Location
}

func New(db *sql.DB, loc *time.Location) *Store {
	return &Store{db: db, loc: loc}
}

// normalizeCity converts a user-supplied city name to the canonical
// stored form: trimmed, lower-cased, then title-cased ("new york" and
// "NEW YORK" both read as "New York").
func normalizeCity(city string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(city)))
}

// RecordToday stores one history row for the city dated today in the
// store's location. A row already present for that city and date is
// left untouched.
func (s *Store) RecordToday(rec models.HistoryRecord) error {
	date := time.Now().In(s.loc).Format("2006-01-02")
	return s.insertRecord(rec, date)
}

func (s *Store) insertRecord(rec models.HistoryRecord, date string) error {
	_, err := s.db.Exec(`
		INSERT INTO weather_history (city, record_date, min_temp, max_temp, condition, humidity, wind_kph, precip_mm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(city, record_date) DO NOTHING
	`, rec.City, date, rec.MinTemp, rec.MaxTemp, rec.Condition, rec.Humidity, rec.WindKph, rec.PrecipMm)
	return err
}

// Trends returns up to limit most recent history rows for the city in
// ascending date order. The city name is normalized before lookup, so
// "delhi" and "Delhi" read the same rows.
func (s *Store) Trends(city string, limit int) ([]models.TrendPoint, error) {
	if limit <= 0 {
		limit = 7
	}

	rows, err := s.db.Query(`
		SELECT record_date, min_temp, max_temp, humidity, wind_kph, precip_mm
		FROM weather_history
		WHERE city = ?
		ORDER BY record_date DESC
		LIMIT ?
	`, normalizeCity(city), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.TrendPoint
	for rows.Next() {
		var p models.TrendPoint
		var humidity sql.NullInt64
		var windKph, precipMm sql.NullFloat64
		if err := rows.Scan(&p.Date, &p.MinTemp, &p.MaxTemp, &humidity, &windKph, &precipMm); err != nil {
			return nil, err
		}
		if humidity.Valid {
			p.Humidity = &humidity.Int64
		}
		if windKph.Valid {
			p.WindKph = &windKph.Float64
		}
		if precipMm.Valid {
			p.PrecipMm = &precipMm.Float64
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query walks newest-first to apply the limit; callers want
	// oldest-first for charting.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

// CityStats summarizes the history table per city for the admin page.
func (s *Store) CityStats() ([]models.CityStats, error) {
	rows, err := s.db.Query(`
		SELECT city, COUNT(*), AVG(min_temp), AVG(max_temp), MAX(record_date)
		FROM weather_history
		GROUP BY city
		ORDER BY city ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.CityStats
	for rows.Next() {
		var cs models.CityStats
		if err := rows.Scan(&cs.City, &cs.Records, &cs.AvgMin, &cs.AvgMax, &cs.LastDate); err != nil {
			return nil, err
		}
		stats = append(stats, cs)
	}
	return stats, rows.Err()
}
