package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const sessionName = "weather_dashboard"

// invalidCredentialsMsg is deliberately identical for an unknown
// username and a wrong password.
const invalidCredentialsMsg = "Invalid username or password."

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated username, if any.
func UserFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(userContextKey).(string)
	return username, ok
}

// requireAuth redirects unauthenticated requests to the login page and
// makes the username available through the request context otherwise.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.sessions.Get(r, sessionName)
		username, ok := session.Values["username"].(string)
		if !ok || username == "" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, username)))
	})
}

type registerForm struct {
	Username string `validate:"required,alphanum,min=3,max=32"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type authPageData struct {
	Error string
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.tmpl.render(w, "register.html", authPageData{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	form := registerForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}

	if err := s.validate.Struct(form); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.tmpl.render(w, "register.html", authPageData{Error: "Please fill in all fields correctly."})
		return
	}

	usernameTaken, emailTaken, err := s.store.UserExists(form.Username, form.Email)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if usernameTaken || emailTaken {
		w.WriteHeader(http.StatusConflict)
		s.tmpl.render(w, "register.html", authPageData{Error: "Username or email already exists."})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := s.store.CreateUser(form.Username, form.Email, string(hash)); err != nil {
		// The existence check above races with concurrent registration;
		// the unique constraint is the authority.
		log.Printf("auth: create user %s: %v", form.Username, err)
		w.WriteHeader(http.StatusConflict)
		s.tmpl.render(w, "register.html", authPageData{Error: "Username or email already exists."})
		return
	}

	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.tmpl.render(w, "login.html", authPageData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		w.WriteHeader(http.StatusUnauthorized)
		s.tmpl.render(w, "login.html", authPageData{Error: invalidCredentialsMsg})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		s.tmpl.render(w, "login.html", authPageData{Error: invalidCredentialsMsg})
		return
	}

	session, _ := s.sessions.Get(r, sessionName)
	session.Values["username"] = user.Username
	if err := session.Save(r, w); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessions.Get(r, sessionName)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		log.Printf("auth: clear session: %v", err)
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}
