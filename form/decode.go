package form

import (
	"net/url"
	"strings"
	"time"

	"github.com/ideflorbio/extrativista-sheets/records"
)

// Consent is the key of the declaration checkbox.
const Consent = "termo"

// DateInput is the layout posted by an HTML date input.
const DateInput = "2006-01-02"

var setters = map[string]func(*records.Submission, []string){
	"nome":             text(func(s *records.Submission) *string { return &s.Name }),
	"cpf":              text(func(s *records.Submission) *string { return &s.CPF }),
	"rg":               text(func(s *records.Submission) *string { return &s.RG }),
	"nascimento":       date(func(s *records.Submission) *time.Time { return &s.BirthDate }),
	"sexo":             text(func(s *records.Submission) *string { return &s.Sex }),
	"local_nascimento": text(func(s *records.Submission) *string { return &s.BirthPlace }),
	"escolaridade":     text(func(s *records.Submission) *string { return &s.Education }),
	"profissao":        text(func(s *records.Submission) *string { return &s.Occupation }),
	"renda":            text(func(s *records.Submission) *string { return &s.Income }),
	"contato":          text(func(s *records.Submission) *string { return &s.Contact }),
	"endereco":         text(func(s *records.Submission) *string { return &s.Address }),
	"municipio":        text(func(s *records.Submission) *string { return &s.Municipality }),
	"tempo":            text(func(s *records.Submission) *string { return &s.TimeInArea }),
	"local_atuacao":    text(func(s *records.Submission) *string { return &s.WorkLocation }),
	"produtos":         list(func(s *records.Submission) *[]string { return &s.Products }),
	"sabe_flota":       text(func(s *records.Submission) *string { return &s.KnowsFlota }),
	"exp_flota":        text(func(s *records.Submission) *string { return &s.FlotaExperience }),
	"sabe_adm":         text(func(s *records.Submission) *string { return &s.KnowsAdministrator }),
	"opiniao":          text(func(s *records.Submission) *string { return &s.Opinion }),
	"motivo":           text(func(s *records.Submission) *string { return &s.OpinionReason }),
	"educ_amb":         text(func(s *records.Submission) *string { return &s.EnvironmentalEducation }),
}

// Decode converts posted form values into a submission. Unknown keys are
// ignored and an unparseable birth date is left unset. Products keep the
// order in which they were posted.
func Decode(values url.Values) records.Submission {
	submission := records.Submission{}

	for key, set := range setters {
		if v, ok := values[key]; ok {
			set(&submission, v)
		}
	}

	switch strings.ToLower(values.Get(Consent)) {
	case "on", "true", "1", "yes", "sim":
		submission.Consent = true
	}

	return submission
}

// Values is the inverse of Decode, used to refill the form after a
// rejected submission.
func Values(s records.Submission) url.Values {
	values := url.Values{}

	set := func(key, v string) {
		if v != "" {
			values.Set(key, v)
		}
	}

	set("nome", s.Name)
	set("cpf", s.CPF)
	set("rg", s.RG)
	if !s.BirthDate.IsZero() {
		set("nascimento", s.BirthDate.Format(DateInput))
	}
	set("sexo", s.Sex)
	set("local_nascimento", s.BirthPlace)
	set("escolaridade", s.Education)
	set("profissao", s.Occupation)
	set("renda", s.Income)
	set("contato", s.Contact)
	set("endereco", s.Address)
	set("municipio", s.Municipality)
	set("tempo", s.TimeInArea)
	set("local_atuacao", s.WorkLocation)
	for _, p := range s.Products {
		values.Add("produtos", p)
	}
	set("sabe_flota", s.KnowsFlota)
	set("exp_flota", s.FlotaExperience)
	set("sabe_adm", s.KnowsAdministrator)
	set("opiniao", s.Opinion)
	set("motivo", s.OpinionReason)
	set("educ_amb", s.EnvironmentalEducation)
	if s.Consent {
		values.Set(Consent, "on")
	}

	return values
}

func text(field func(*records.Submission) *string) func(*records.Submission, []string) {
	return func(s *records.Submission, v []string) {
		if len(v) > 0 {
			*field(s) = v[0]
		}
	}
}

func date(field func(*records.Submission) *time.Time) func(*records.Submission, []string) {
	return func(s *records.Submission, v []string) {
		if len(v) > 0 {
			if t, err := time.ParseInLocation(DateInput, strings.TrimSpace(v[0]), time.Local); err == nil {
				*field(s) = t
			}
		}
	}
}

func list(field func(*records.Submission) *[]string) func(*records.Submission, []string) {
	return func(s *records.Submission, v []string) {
		selected := []string{}
		for _, p := range v {
			if strings.TrimSpace(p) != "" {
				selected = append(selected, p)
			}
		}

		*field(s) = selected
	}
}
