package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shekhar-gif/weather-dashboard/internal/cache"
	"github.com/shekhar-gif/weather-dashboard/internal/store"
)

type Server struct {
	store    *store.Store
	cache    *cache.Cache
	sessions *sessions.CookieStore
	port     string
	loc      *time.Location
	tmpl     *htmlTemplates
	validate *validator.Validate
}

func NewServer(st *store.Store, c *cache.Cache, sessionSecret []byte, port string, loc *time.Location) *Server {
	cookies := sessions.NewCookieStore(sessionSecret)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Server{
		store:    st,
		cache:    c,
		sessions: cookies,
		port:     port,
		loc:      loc,
		tmpl:     newTemplates(),
		validate: validator.New(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.FileServerFS(staticFS))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /register", s.handleRegisterForm)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /logout", s.handleLogout)

	mux.Handle("GET /{$}", s.requireAuth(s.handleDashboard))
	mux.Handle("GET /dashboard", s.requireAuth(s.handleDashboard))
	mux.Handle("GET /getalerts/{city}", s.requireAuth(s.handleGetAlerts))
	mux.Handle("GET /trends/{city}", s.requireAuth(s.handleTrends))
	mux.Handle("GET /admin", s.requireAuth(s.handleAdmin))

	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
