package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/shekhar-gif/weather-dashboard/internal/models"
)

type dashboardData struct {
	Username string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	username, _ := UserFromContext(r.Context())
	s.tmpl.render(w, "dashboard.html", dashboardData{Username: username})
}

// handleGetAlerts returns the current snapshot for a city. Failures are
// reported as an error payload in a 200 response so the dashboard can
// show the message inline.
func (s *Server) handleGetAlerts(w http.ResponseWriter, r *http.Request) {
	city := r.PathValue("city")

	snap, err := s.cache.GetOrFetch(r.Context(), city)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		log.Printf("api: get alerts for %q: %v", city, err)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	if err := json.NewEncoder(w).Encode(snap); err != nil {
		log.Printf("api: write snapshot: %v", err)
	}
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	city := r.PathValue("city")

	points, err := s.store.Trends(city, 7)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if points == nil {
		points = []models.TrendPoint{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(points); err != nil {
		log.Printf("api: write trends: %v", err)
	}
}

type adminData struct {
	Username string
	Users    []models.User
	Cities   []models.CityStats
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	cities, err := s.store.CityStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	username, _ := UserFromContext(r.Context())
	s.tmpl.render(w, "admin.html", adminData{Username: username, Users: users, Cities: cities})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
