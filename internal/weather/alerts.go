package weather

import (
	"fmt"
	"strings"

	"github.com/shekhar-gif/weather-dashboard/internal/models"
)

// Derived alert thresholds, applied per forecast day.
const (
	heatWaveThresholdC = 40.0
	coldWaveThresholdC = 5.0
)

// deriveAlerts computes local alert strings from the forecast days.
// Checks run per day in forecast order: heat, then cold, then rain.
// Several may fire for the same day.
func deriveAlerts(days []models.DayForecast) []string {
	var alerts []string
	for _, day := range days {
		if day.Max > heatWaveThresholdC {
			alerts = append(alerts, fmt.Sprintf("Heat Wave Alert on %s! (%g°C)", day.Date, day.Max))
		}
		if day.Min < coldWaveThresholdC {
			alerts = append(alerts, fmt.Sprintf("Cold Wave Alert on %s! (%g°C)", day.Date, day.Min))
		}
		cond := strings.ToLower(day.Condition)
		if strings.Contains(cond, "rain") || strings.Contains(cond, "thunder") {
			alerts = append(alerts, fmt.Sprintf("Heavy Rain Alert on %s! (%s)", day.Date, day.Condition))
		}
	}
	return alerts
}

// renderOfficialAlerts formats the provider's structured alert feed into
// descriptive strings, preserving provider order. Missing fields render
// empty, except event ("Alert") and areas ("N/A").
func renderOfficialAlerts(alerts []providerAlert) []string {
	var out []string
	for _, a := range alerts {
		event := a.Event
		if event == "" {
			event = "Alert"
		}
		areas := a.Areas
		if areas == "" {
			areas = "N/A"
		}
		out = append(out, fmt.Sprintf("⚡ %s: %s (area: %s, at: %s, severity: %s) %s",
			event, a.Headline, areas, a.Effective, a.Severity, a.Desc))
	}
	return out
}
