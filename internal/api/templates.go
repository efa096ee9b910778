package api

import (
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

type htmlTemplates struct {
	t *template.Template
}

func newTemplates() *htmlTemplates {
	funcs := template.FuncMap{
		"fmtNullFloat": func(f sql.NullFloat64) string {
			if !f.Valid {
				return "-"
			}
			return fmt.Sprintf("%.1f", f.Float64)
		},
		"fmtNullString": func(s sql.NullString) string {
			if !s.Valid {
				return "-"
			}
			return s.String
		},
	}
	t := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	return &htmlTemplates{t: t}
}

func (h *htmlTemplates) render(w http.ResponseWriter, name string, data any) {
	if err := h.t.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("template %s: %v", name, err)
	}
}
