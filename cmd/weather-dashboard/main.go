package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/shekhar-gif/weather-dashboard/internal/api"
	"github.com/shekhar-gif/weather-dashboard/internal/cache"
	"github.com/shekhar-gif/weather-dashboard/internal/store"
	"github.com/shekhar-gif/weather-dashboard/internal/weather"
)

var cli struct {
	DB            string        `name:"db" default:"data/weather_history.db" help:"Path to the SQLite database."`
	Port          string        `env:"PORT" default:"8080" help:"HTTP server port."`
	APIKey        string        `env:"WEATHER_API_KEY" required:"" help:"WeatherAPI.com API key."`
	SessionSecret string        `env:"SESSION_SECRET" required:"" help:"Secret for session cookie signing."`
	CacheTTL      time.Duration `default:"10m" help:"How long fetched snapshots stay fresh."`
	CacheMax      int           `default:"1024" help:"Maximum number of cached cities."`
	Timezone      string        `default:"Local" help:"Timezone used for history record dates."`
}

func main() {
	// Missing .env is fine; the environment may be set directly.
	godotenv.Load()

	kong.Parse(&cli,
		kong.Name("weather-dashboard"),
		kong.Description("Weather dashboard with forecasts, alerts and per-city history."),
	)

	if dir := filepath.Dir(cli.DB); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create data dir: %v", err)
		}
	}

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	loc, err := time.LoadLocation(cli.Timezone)
	if err != nil {
		log.Printf("Warning: could not load timezone %s, using UTC: %v", cli.Timezone, err)
		loc = time.UTC
	}

	st := store.New(db, loc)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	client := weather.NewClient(cli.APIKey, st)
	snapshots := cache.New(client, cli.CacheTTL, cli.CacheMax)
	server := api.NewServer(st, snapshots, []byte(cli.SessionSecret), cli.Port, loc)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
