package httpd

import (
	"errors"
	"net/http"

	"github.com/ideflorbio/extrativista-sheets/form"
	"github.com/ideflorbio/extrativista-sheets/httpx"
	"github.com/ideflorbio/extrativista-sheets/log"
	"github.com/ideflorbio/extrativista-sheets/records"
	"github.com/ideflorbio/extrativista-sheets/store"
)

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(r)

	if ok && session.State() == form.Submitted {
		p := page{}
		if record, ok := session.Last(); ok {
			p.Record = &record
		}

		s.render(w, http.StatusOK, "success", p)
		return
	}

	s.render(w, http.StatusOK, "form", page{})
}

func (s *Server) postForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_form")
		return
	}

	session := s.session(w, r)
	submission := form.Decode(r.PostForm)

	err := session.Submit(r.Context(), s.store, submission)

	var invalid *records.ValidationError
	switch {
	case err == nil:
		log.Infof("form.submit: session %v stored record", session.ID)
		redirect(w, r, "/")

	case errors.As(err, &invalid):
		log.Debugf("form.submit: %v", err)
		s.render(w, http.StatusUnprocessableEntity, "form", page{
			Values:  form.Values(submission),
			Missing: invalid.Missing,
		})

	case errors.Is(err, store.ErrReadFailed):
		log.Errorf("form.submit.read: %v", err)
		s.render(w, http.StatusBadGateway, "form", page{
			Values: form.Values(submission),
			Error:  "Erro ao salvar: não foi possível ler a planilha. Tente novamente.",
		})

	default:
		log.Errorf("form.submit.write: %v", err)
		s.render(w, http.StatusBadGateway, "form", page{
			Values: form.Values(submission),
			Error:  "Erro ao salvar. Tente novamente.",
		})
	}
}

func (s *Server) postNew(w http.ResponseWriter, r *http.Request) {
	if session, ok := s.lookup(r); ok {
		session.Reset()
	}

	redirect(w, r, "/")
}
