package httpd

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/ideflorbio/extrativista-sheets/admin"
	"github.com/ideflorbio/extrativista-sheets/httpx"
	"github.com/ideflorbio/extrativista-sheets/log"
	"github.com/ideflorbio/extrativista-sheets/records"
	"github.com/ideflorbio/extrativista-sheets/store"
)

const ExportFile = "dados_flota.csv"

const (
	msgNotConfigured = "Senha de administrador não configurada."
	msgAccessDenied  = "Senha incorreta."
	msgTooMany       = "Muitas tentativas. Aguarde alguns segundos."
	msgReadFailed    = "Não foi possível ler a planilha."
)

func (s *Server) authorised(r *http.Request) bool {
	cookie, err := r.Cookie(AdminCookie)
	if err != nil {
		return false
	}

	return s.gate.Validate(cookie.Value) == nil
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authorised(r) {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "admin.unauthorised")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) getAdmin(w http.ResponseWriter, r *http.Request) {
	if !s.gate.Configured() {
		s.render(w, http.StatusServiceUnavailable, "login", page{Error: msgNotConfigured, Disabled: true})
		return
	}

	if !s.authorised(r) {
		s.render(w, http.StatusOK, "login", page{})
		return
	}

	result := s.store.Fetch(r.Context())
	if result.Status == store.ReadFailed {
		log.Errorf("admin.fetch: %v", result.Err)
		s.render(w, http.StatusBadGateway, "admin", page{Error: msgReadFailed})
		return
	}

	rows := records.Rows(result.Records)

	s.render(w, http.StatusOK, "admin", page{
		Count:  result.Len(),
		Header: rows[0],
		Rows:   rows[1:],
	})
}

func (s *Server) postLogin(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(httpx.ClientIP(r)) {
		log.Warnf("admin.login: too many attempts from %v", httpx.ClientIP(r))
		s.render(w, http.StatusTooManyRequests, "login", page{Error: msgTooMany})
		return
	}

	if err := r.ParseForm(); err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_form")
		return
	}

	token, expires, err := s.gate.Login(r.PostForm.Get("senha"))
	switch {
	case errors.Is(err, admin.ErrNotConfigured):
		s.render(w, http.StatusServiceUnavailable, "login", page{Error: msgNotConfigured, Disabled: true})

	case errors.Is(err, admin.ErrAccessDenied):
		log.Infof("admin.login: access denied for %v", httpx.ClientIP(r))
		s.render(w, http.StatusUnauthorized, "login", page{Error: msgAccessDenied})

	case err != nil:
		httpx.LogInternalError(w, "admin.login", err)

	default:
		log.Infof("admin.login: session opened for %v", httpx.ClientIP(r))
		http.SetCookie(w, &http.Cookie{
			Name:     AdminCookie,
			Value:    token,
			Path:     "/",
			Expires:  expires,
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteStrictMode,
		})
		redirect(w, r, "/admin")
	}
}

func (s *Server) postLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})

	redirect(w, r, "/admin")
}

func (s *Server) getExport(w http.ResponseWriter, r *http.Request) {
	result := s.store.Fetch(r.Context())
	if result.Status == store.ReadFailed {
		log.Errorf("admin.export: %v", result.Err)
		httpx.LogStatusMsg(w, http.StatusBadGateway, log.DebugLevel, "admin.export", msgReadFailed)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFile+`"`)

	if err := records.WriteCSV(w, result.Records, records.CSV); err != nil {
		log.Errorf("admin.export.write: %v", err)
	}
}

type recordsResponse struct {
	Count   int                `json:"count"`
	Records records.Collection `json:"records"`
}

func (s *Server) getRecords(w http.ResponseWriter, r *http.Request) {
	result := s.store.Fetch(r.Context())
	if result.Status == store.ReadFailed {
		log.Errorf("admin.records: %v", result.Err)
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, map[string]string{"error": msgReadFailed})
		return
	}

	render.JSON(w, r, recordsResponse{
		Count:   result.Len(),
		Records: result.Records,
	})
}
