package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmaguire/rsvp/web"
)

var templateFuncs = template.FuncMap{
	"fmtDate": func(t time.Time) string {
		return t.Format(displayDateLayout)
	},
	"fmtDatePtr": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(displayDateLayout)
	},
	"fmtDateISO": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"inc": func(n int) int { return n + 1 },
	"dec": func(n int) int { return n - 1 },
	"deref": func(p *int64) int64 {
		if p == nil {
			return 0
		}
		return *p
	},
}

// ParseTemplates parses the embedded page templates once at startup.
func ParseTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(web.Templates, "templates/*.html"))
}

func renderPage(w http.ResponseWriter, t *template.Template, logger *slog.Logger, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("render template", "template", name, "error", err)
	}
}

func isXHR(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}
