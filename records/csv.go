package records

import (
	"encoding/csv"
	"fmt"
	"io"
)

const (
	CSV = ','
	TSV = '\t'
)

// WriteCSV writes the collection as delimited text with the fixed header row.
func WriteCSV(f io.Writer, c Collection, comma rune) error {
	w := csv.NewWriter(f)
	w.Comma = comma

	if err := w.WriteAll(Rows(c)); err != nil {
		return fmt.Errorf("error writing records (%w)", err)
	}

	return nil
}

// ReadCSV parses delimited text previously produced by WriteCSV (or any file
// with a recognisable header row).
func ReadCSV(f io.Reader, comma rune) (Collection, error) {
	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	return MakeTable(rows)
}
