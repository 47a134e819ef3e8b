// Package httpd serves the registration form and the admin area.
package httpd

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/ideflorbio/extrativista-sheets/admin"
	"github.com/ideflorbio/extrativista-sheets/form"
	"github.com/ideflorbio/extrativista-sheets/log"
	"github.com/ideflorbio/extrativista-sheets/records"
	"github.com/ideflorbio/extrativista-sheets/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	SessionCookie = "sessao"
	AdminCookie   = "admin_token"

	DefaultSessionExpiry = 2 * time.Hour
)

// Store is the record store as seen by the handlers.
type Store interface {
	Fetch(ctx context.Context) store.Result
	Append(ctx context.Context, record records.Record) error
}

type Options struct {
	// Marks cookies Secure, for deployments behind TLS.
	Secure        bool
	// Takes the client address from X-Real-IP/X-Forwarded-For. Only for
	// deployments where a reverse proxy sets those headers.
	TrustProxy    bool
	SessionExpiry time.Duration
	Limiter       *admin.Limiter
}

type Server struct {
	catalogue *form.Catalogue
	store     Store
	gate      *admin.Gate
	sessions  *form.Sessions
	limiter   *admin.Limiter
	templates *template.Template
	secure    bool
	proxied   bool
}

type widget struct {
	Field  form.Field
	Values url.Values
}

var functions = template.FuncMap{
	"field": func(f form.Field, values url.Values) widget {
		return widget{Field: f, Values: values}
	},
	"value": func(values url.Values, key string) string {
		return values.Get(key)
	},
	"selected": func(values url.Values, key, option string) bool {
		for _, v := range values[key] {
			if v == option {
				return true
			}
		}
		return false
	},
	"rank": func(values url.Values, key, option string) int {
		for i, v := range values[key] {
			if v == option {
				return i
			}
		}
		return len(values[key])
	},
	"join": strings.Join,
}

func NewServer(catalogue *form.Catalogue, s Store, gate *admin.Gate, options Options) (*Server, error) {
	templates, err := template.New("").Funcs(functions).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	expiry := options.SessionExpiry
	if expiry <= 0 {
		expiry = DefaultSessionExpiry
	}

	limiter := options.Limiter
	if limiter == nil {
		limiter = admin.NewLimiter(10*time.Second, 5)
	}

	return &Server{
		catalogue: catalogue,
		store:     s,
		gate:      gate,
		sessions:  form.NewSessions(expiry),
		limiter:   limiter,
		templates: templates,
		secure:    options.Secure,
		proxied:   options.TrustProxy,
	}, nil
}

func (s *Server) Handler() http.Handler {
	root := chi.NewRouter()
	if s.proxied {
		root.Use(middleware.RealIP)
	}
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Get("/", s.getForm)
	root.Post("/", s.postForm)
	root.Post("/new", s.postNew)

	root.Route("/admin", func(r chi.Router) {
		r.Get("/", s.getAdmin)
		r.Post("/login", s.postLogin)
		r.Post("/logout", s.postLogout)
		r.With(s.adminOnly).Get("/export.csv", s.getExport)
	})

	root.Route("/api/admin", func(r chi.Router) {
		r.Use(s.adminOnly)
		r.Get("/records", s.getRecords)
	})

	root.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "ok")
	})

	return root
}

type page struct {
	Catalogue *form.Catalogue
	Values    url.Values
	Missing   []string
	Error     string
	Disabled  bool
	Record    *records.Record
	Count     int
	Header    []string
	Rows      [][]string
}

func (s *Server) render(w http.ResponseWriter, status int, name string, p page) {
	p.Catalogue = s.catalogue

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := s.templates.ExecuteTemplate(w, name, p); err != nil {
		log.Errorf("template.%s: %v", name, err)
	}
}

func sessionID(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}

	return ""
}

// lookup returns the request's existing session, if any. Only a form post
// creates a session.
func (s *Server) lookup(r *http.Request) (*form.Session, bool) {
	return s.sessions.Lookup(sessionID(r))
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) *form.Session {
	id := sessionID(r)

	session := s.sessions.Get(id)
	if session.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    session.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return session
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
