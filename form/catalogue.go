// Package form holds the registration form: the field catalogue that drives
// rendering and decoding, and the per-browser session state machine.
package form

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed form.yaml
var catalogueYAML []byte

const (
	Text        = "text"
	TextArea    = "textarea"
	Date        = "date"
	Select      = "select"
	Radio       = "radio"
	MultiSelect = "multiselect"
	Checkbox    = "checkbox"
)

type Catalogue struct {
	Title    string    `yaml:"title"`
	Caption  string    `yaml:"caption"`
	Sections []Section `yaml:"sections"`
	Consent  Field     `yaml:"consent"`
}

type Section struct {
	Title  string  `yaml:"title"`
	Fields []Field `yaml:"fields"`
}

type Field struct {
	Key      string   `yaml:"key"`
	Label    string   `yaml:"label"`
	Widget   string   `yaml:"widget"`
	Options  []string `yaml:"options"`
	Required bool     `yaml:"required"`
	Half     bool     `yaml:"half"`
}

// LoadCatalogue parses the embedded field catalogue.
func LoadCatalogue() (*Catalogue, error) {
	return ParseCatalogue(catalogueYAML)
}

// ParseCatalogue parses a field catalogue and checks that every field is one
// the decoder knows about.
func ParseCatalogue(b []byte) (*Catalogue, error) {
	catalogue := Catalogue{}
	if err := yaml.Unmarshal(b, &catalogue); err != nil {
		return nil, fmt.Errorf("invalid form catalogue (%w)", err)
	}

	seen := map[string]bool{}
	fields := append(catalogue.Fields(), catalogue.Consent)
	for _, f := range fields {
		if _, ok := setters[f.Key]; !ok && f.Key != Consent {
			return nil, fmt.Errorf("unknown form field '%s'", f.Key)
		}

		if seen[f.Key] {
			return nil, fmt.Errorf("duplicate form field '%s'", f.Key)
		}
		seen[f.Key] = true

		switch f.Widget {
		case Text, TextArea, Date, Checkbox:
		case Select, Radio, MultiSelect:
			if len(f.Options) == 0 {
				return nil, fmt.Errorf("form field '%s' has no options", f.Key)
			}
		default:
			return nil, fmt.Errorf("form field '%s' has unknown widget '%s'", f.Key, f.Widget)
		}
	}

	if catalogue.Consent.Key != Consent {
		return nil, fmt.Errorf("missing '%s' consent field", Consent)
	}

	return &catalogue, nil
}

// Fields returns the catalogue fields in display order, excluding the consent
// checkbox.
func (c *Catalogue) Fields() []Field {
	fields := []Field{}
	for _, s := range c.Sections {
		fields = append(fields, s.Fields...)
	}

	return fields
}
