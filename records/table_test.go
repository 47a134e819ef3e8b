package records

import (
	"reflect"
	"strings"
	"testing"
)

func TestHeader(t *testing.T) {
	header := Header()

	if len(header) != 22 {
		t.Fatalf("Incorrect header length - expected:%v, got:%v", 22, len(header))
	}

	if header[0] != "Data Cadastro" || header[1] != "Nome" || header[2] != "CPF" || header[21] != "Educacao Ambiental" {
		t.Errorf("Incorrect header order %v", header)
	}
}

func TestMakeTable(t *testing.T) {
	expected := Collection{
		{Timestamp: "01/02/2026 10:11:12", Name: "Maria", CPF: "123", Products: "Cumaru, Andiroba"},
		{Timestamp: "02/02/2026 08:00:00", Name: "José", CPF: "456"},
	}

	rows := [][]string{
		{"Data Cadastro", "Nome", "CPF", "Produtos"},
		{"01/02/2026 10:11:12", "Maria", "123", "Cumaru, Andiroba"},
		{"02/02/2026 08:00:00", "José", "456"},
	}

	table, err := MakeTable(rows)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeTable (%v)", err)
	}

	if !reflect.DeepEqual(table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v\n", expected, table)
	}
}

func TestMakeTableWithOutOfOrderColumns(t *testing.T) {
	expected := Collection{
		{Name: "Maria", CPF: "123", Municipality: "Oriximiná"},
	}

	rows := [][]string{
		{"municipio", "CPF", "  Nome ", "Unknown"},
		{"Oriximiná", "123", "Maria", "ignored"},
	}

	table, err := MakeTable(rows)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeTable (%v)", err)
	}

	if !reflect.DeepEqual(table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v\n", expected, table)
	}
}

func TestMakeTableSkipsBlankRows(t *testing.T) {
	rows := [][]string{
		{"Nome", "CPF"},
		{"Maria", "123"},
		{"", " "},
		{},
		{"José", "456"},
	}

	table, err := MakeTable(rows)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeTable (%v)", err)
	}

	if len(table) != 2 {
		t.Errorf("Incorrect number of records - expected:%v, got:%v", 2, len(table))
	}
}

func TestMakeTableWithHeaderOnly(t *testing.T) {
	table, err := MakeTable([][]string{Header()})
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeTable (%v)", err)
	}

	if table == nil || len(table) != 0 {
		t.Errorf("Expected empty collection, got %v", table)
	}
}

func TestMakeTableWithEmptySheet(t *testing.T) {
	if _, err := MakeTable([][]string{}); err == nil {
		t.Fatalf("Expected error return for empty sheet, got %v", err)
	}
}

func TestMakeTableWithoutHeaders(t *testing.T) {
	rows := [][]string{
		{"Card Number", "From", "To"},
		{"6001001", "2020-01-01", "2020-12-31"},
	}

	if _, err := MakeTable(rows); err == nil {
		t.Fatalf("Expected error return for missing headers, got %v", err)
	}
}

func TestMakeTableWithDuplicatedColumn(t *testing.T) {
	rows := [][]string{
		{"Nome", "CPF", "nome"},
		{"Maria", "123", "Maria"},
	}

	if _, err := MakeTable(rows); err == nil {
		t.Fatalf("Expected error return for duplicated column, got %v", err)
	}
}

func TestRowsRoundTrip(t *testing.T) {
	collection := Collection{
		{Timestamp: "01/02/2026 10:11:12", Name: "Maria", CPF: "123", Products: "Castanha-do-Pará, Cumaru"},
		{Timestamp: "01/02/2026 10:12:00", Name: "Maria", CPF: "123", Products: "Castanha-do-Pará, Cumaru"},
		{Timestamp: "02/02/2026 08:00:00", Name: "José", CPF: "456", OpinionReason: "Protege a floresta, e o emprego"},
	}

	table, err := MakeTable(Rows(collection))
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeTable (%v)", err)
	}

	if !reflect.DeepEqual(table, collection) {
		t.Errorf("Incorrect round trip\n   expected: %v\n   got:      %v\n", collection, table)
	}
}

func TestWriteCSV(t *testing.T) {
	expected := strings.Join(Header(), ",") + "\n" +
		`01/02/2026 10:11:12,Maria,123,,,,,,,,,,,,,"Cumaru, Andiroba",,,,,,` + "\n"

	var f strings.Builder
	collection := Collection{
		{Timestamp: "01/02/2026 10:11:12", Name: "Maria", CPF: "123", Products: "Cumaru, Andiroba"},
	}

	if err := WriteCSV(&f, collection, CSV); err != nil {
		t.Fatalf("Unexpected error returned from WriteCSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect CSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestReadCSVWithTSV(t *testing.T) {
	expected := Collection{
		{Name: "Maria", CPF: "123", Products: "Cumaru, Andiroba"},
	}

	tsv := "Nome\tCPF\tProdutos\nMaria\t123\tCumaru, Andiroba\n"

	collection, err := ReadCSV(strings.NewReader(tsv), TSV)
	if err != nil {
		t.Fatalf("Unexpected error returned from ReadCSV (%v)", err)
	}

	if !reflect.DeepEqual(collection, expected) {
		t.Errorf("Incorrect records\n   expected: %v\n   got:      %v\n", expected, collection)
	}
}

func TestReadCSVWithEmptyFile(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader(""), CSV); err == nil {
		t.Fatalf("Expected error return for empty file, got %v", err)
	}
}
