// Package records defines the extractor registration record, the ordered
// collection stored in the worksheet and the conversions between them and
// rows of worksheet cells.
package records

import (
	"strings"
)

const (
	TimestampFormat  = "02/01/2006 15:04:05"
	DateFormat       = "02/01/2006"
	ProductSeparator = ", "
)

// Record is one extractor's submission, flattened to the worksheet columns.
type Record struct {
	Timestamp              string `json:"Data Cadastro"`
	Name                   string `json:"Nome"`
	CPF                    string `json:"CPF"`
	RG                     string `json:"RG"`
	BirthDate              string `json:"Nascimento"`
	Sex                    string `json:"Sexo"`
	BirthPlace             string `json:"Local Nascimento"`
	Education              string `json:"Escolaridade"`
	Occupation             string `json:"Profissao"`
	Income                 string `json:"Renda Mensal"`
	Contact                string `json:"Contato"`
	Address                string `json:"Endereco"`
	Municipality           string `json:"Municipio"`
	TimeInArea             string `json:"Tempo na Area"`
	WorkLocation           string `json:"Local Atuacao"`
	Products               string `json:"Produtos"`
	KnowsFlota             string `json:"Sabe o que e Flota"`
	FlotaExperience        string `json:"Exp Extrativismo Flota"`
	KnowsAdministrator     string `json:"Sabe quem Administra"`
	Opinion                string `json:"Opiniao Criacao"`
	OpinionReason          string `json:"Motivo Opiniao"`
	EnvironmentalEducation string `json:"Educacao Ambiental"`
}

// Collection is the ordered list of records held in the worksheet.
type Collection []Record

type column struct {
	name  string
	field func(r *Record) *string
}

var columns = []column{
	{"Data Cadastro", func(r *Record) *string { return &r.Timestamp }},
	{"Nome", func(r *Record) *string { return &r.Name }},
	{"CPF", func(r *Record) *string { return &r.CPF }},
	{"RG", func(r *Record) *string { return &r.RG }},
	{"Nascimento", func(r *Record) *string { return &r.BirthDate }},
	{"Sexo", func(r *Record) *string { return &r.Sex }},
	{"Local Nascimento", func(r *Record) *string { return &r.BirthPlace }},
	{"Escolaridade", func(r *Record) *string { return &r.Education }},
	{"Profissao", func(r *Record) *string { return &r.Occupation }},
	{"Renda Mensal", func(r *Record) *string { return &r.Income }},
	{"Contato", func(r *Record) *string { return &r.Contact }},
	{"Endereco", func(r *Record) *string { return &r.Address }},
	{"Municipio", func(r *Record) *string { return &r.Municipality }},
	{"Tempo na Area", func(r *Record) *string { return &r.TimeInArea }},
	{"Local Atuacao", func(r *Record) *string { return &r.WorkLocation }},
	{"Produtos", func(r *Record) *string { return &r.Products }},
	{"Sabe o que e Flota", func(r *Record) *string { return &r.KnowsFlota }},
	{"Exp Extrativismo Flota", func(r *Record) *string { return &r.FlotaExperience }},
	{"Sabe quem Administra", func(r *Record) *string { return &r.KnowsAdministrator }},
	{"Opiniao Criacao", func(r *Record) *string { return &r.Opinion }},
	{"Motivo Opiniao", func(r *Record) *string { return &r.OpinionReason }},
	{"Educacao Ambiental", func(r *Record) *string { return &r.EnvironmentalEducation }},
}

// Header returns the worksheet header row, in column order.
func Header() []string {
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.name
	}

	return header
}

// Row returns the record values in Header() order.
func (r Record) Row() []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = *c.field(&r)
	}

	return row
}

// Get returns the value of the named column. Column names are matched
// ignoring case and spaces.
func (r Record) Get(name string) (string, bool) {
	k := normalise(name)
	for _, c := range columns {
		if normalise(c.name) == k {
			return *c.field(&r), true
		}
	}

	return "", false
}

// Set updates the named column, returning false for an unknown column.
func (r *Record) Set(name, value string) bool {
	k := normalise(name)
	for _, c := range columns {
		if normalise(c.name) == k {
			*c.field(r) = value
			return true
		}
	}

	return false
}

// ProductList splits the flattened products column back into its options.
// The split is only reliable when no option contains the separator.
func (r Record) ProductList() []string {
	if strings.TrimSpace(r.Products) == "" {
		return nil
	}

	return strings.Split(r.Products, ProductSeparator)
}

func (c Collection) Len() int {
	return len(c)
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}
