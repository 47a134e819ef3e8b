package records

import (
	"fmt"
	"strings"
	"time"
)

// Submission is the raw form input, before it is flattened into a Record.
type Submission struct {
	Name                   string
	CPF                    string
	RG                     string
	BirthDate              time.Time
	Sex                    string
	BirthPlace             string
	Education              string
	Occupation             string
	Income                 string
	Contact                string
	Address                string
	Municipality           string
	TimeInArea             string
	WorkLocation           string
	Products               []string
	KnowsFlota             string
	FlotaExperience        string
	KnowsAdministrator     string
	Opinion                string
	OpinionReason          string
	EnvironmentalEducation string
	Consent                bool
}

// ValidationError lists the required fields missing from a submission.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Validate checks the presence of the name, the CPF and the consent
// declaration. Presence is checked on the sanitised values, since those are
// what get stored. Nothing else is validated.
func (s Submission) Validate() error {
	missing := []string{}

	if Sanitise(s.Name) == "" {
		missing = append(missing, "Nome")
	}

	if Sanitise(s.CPF) == "" {
		missing = append(missing, "CPF")
	}

	if !s.Consent {
		missing = append(missing, "Termo")
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}

	return nil
}

// Record flattens the submission, stamping it with the submission time. The
// products are joined in selection order.
func (s Submission) Record(now time.Time) Record {
	birth := ""
	if !s.BirthDate.IsZero() {
		birth = s.BirthDate.Format(DateFormat)
	}

	products := make([]string, 0, len(s.Products))
	for _, p := range s.Products {
		if v := Sanitise(p); v != "" {
			products = append(products, v)
		}
	}

	return Record{
		Timestamp:              now.Format(TimestampFormat),
		Name:                   Sanitise(s.Name),
		CPF:                    Sanitise(s.CPF),
		RG:                     Sanitise(s.RG),
		BirthDate:              birth,
		Sex:                    Sanitise(s.Sex),
		BirthPlace:             Sanitise(s.BirthPlace),
		Education:              Sanitise(s.Education),
		Occupation:             Sanitise(s.Occupation),
		Income:                 Sanitise(s.Income),
		Contact:                Sanitise(s.Contact),
		Address:                Sanitise(s.Address),
		Municipality:           Sanitise(s.Municipality),
		TimeInArea:             Sanitise(s.TimeInArea),
		WorkLocation:           Sanitise(s.WorkLocation),
		Products:               strings.Join(products, ProductSeparator),
		KnowsFlota:             Sanitise(s.KnowsFlota),
		FlotaExperience:        Sanitise(s.FlotaExperience),
		KnowsAdministrator:     Sanitise(s.KnowsAdministrator),
		Opinion:                Sanitise(s.Opinion),
		OpinionReason:          Sanitise(s.OpinionReason),
		EnvironmentalEducation: Sanitise(s.EnvironmentalEducation),
	}
}
