package records

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSubmissionValidate(t *testing.T) {
	tests := []struct {
		name       string
		submission Submission
		missing    []string
	}{
		{"complete", Submission{Name: "Maria", CPF: "123", Consent: true}, nil},
		{"no name", Submission{CPF: "123", Consent: true}, []string{"Nome"}},
		{"blank name", Submission{Name: "   ", CPF: "123", Consent: true}, []string{"Nome"}},
		{"markup name", Submission{Name: "<p> </p>", CPF: "123", Consent: true}, []string{"Nome"}},
		{"markup name and CPF", Submission{Name: "<b></b>", CPF: "<i></i>", Consent: true}, []string{"Nome", "CPF"}},
		{"no CPF", Submission{Name: "Maria", Consent: true}, []string{"CPF"}},
		{"no consent", Submission{Name: "Maria", CPF: "123"}, []string{"Termo"}},
		{"nothing", Submission{}, []string{"Nome", "CPF", "Termo"}},
	}

	for _, test := range tests {
		err := test.submission.Validate()

		if test.missing == nil {
			if err != nil {
				t.Errorf("%s: unexpected error (%v)", test.name, err)
			}
			continue
		}

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", test.name, err)
		}

		if diff := cmp.Diff(test.missing, verr.Missing); diff != "" {
			t.Errorf("%s: incorrect missing fields (-want +got):\n%s", test.name, diff)
		}
	}
}

func TestSubmissionRecord(t *testing.T) {
	now := time.Date(2026, time.March, 4, 9, 5, 7, 0, time.UTC)

	submission := Submission{
		Name:                   " Maria da Silva ",
		CPF:                    "123.456.789-00",
		BirthDate:              time.Date(1970, time.December, 1, 0, 0, 0, 0, time.UTC),
		Sex:                    "Feminino",
		Education:              "Médio Completo",
		Products:               []string{"Copaíba", "Castanha-do-Pará", "Outros"},
		KnowsFlota:             "SIM",
		FlotaExperience:        "NÃO",
		KnowsAdministrator:     "SIM",
		Opinion:                "Bom",
		OpinionReason:          "<b>Protege</b> a floresta & os rios",
		EnvironmentalEducation: "NÃO",
		Consent:                true,
	}

	expected := Record{
		Timestamp:              "04/03/2026 09:05:07",
		Name:                   "Maria da Silva",
		CPF:                    "123.456.789-00",
		BirthDate:              "01/12/1970",
		Sex:                    "Feminino",
		Education:              "Médio Completo",
		Products:               "Copaíba, Castanha-do-Pará, Outros",
		KnowsFlota:             "SIM",
		FlotaExperience:        "NÃO",
		KnowsAdministrator:     "SIM",
		Opinion:                "Bom",
		OpinionReason:          "Protege a floresta & os rios",
		EnvironmentalEducation: "NÃO",
	}

	if diff := cmp.Diff(expected, submission.Record(now)); diff != "" {
		t.Errorf("Incorrect record (-want +got):\n%s", diff)
	}
}

func TestProductListKeepsSelectionOrder(t *testing.T) {
	selected := []string{"Outros", "Andiroba", "Cumaru"}
	record := Submission{Name: "Maria", CPF: "1", Consent: true, Products: selected}.Record(time.Now())

	if diff := cmp.Diff(selected, record.ProductList()); diff != "" {
		t.Errorf("Incorrect products (-want +got):\n%s", diff)
	}
}

func TestRecordGetSet(t *testing.T) {
	record := Record{}

	if !record.Set("local atuacao", "Rio Trombetas") {
		t.Fatalf("Set returned false for a known column")
	}

	if record.Set("Card Number", "6001001") {
		t.Errorf("Set returned true for an unknown column")
	}

	if v, ok := record.Get("Local Atuacao"); !ok || v != "Rio Trombetas" {
		t.Errorf("Incorrect value - expected:%v, got:%v", "Rio Trombetas", v)
	}
}

func TestSanitise(t *testing.T) {
	tests := map[string]string{
		"":                          "",
		"  Castanha  ":              "Castanha",
		"<b>João</b>":               "João",
		"Cumaru & Copaíba":          "Cumaru & Copaíba",
		"D'Ávila":                   "D'Ávila",
		`<a href="x">link</a> text`: "link text",
	}

	for raw, expected := range tests {
		if got := Sanitise(raw); got != expected {
			t.Errorf("Sanitise(%q) - expected:%q, got:%q", raw, expected, got)
		}
	}
}
