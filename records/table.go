package records

import (
	"fmt"
	"strings"
)

// MakeTable converts worksheet rows (header first) into a Collection. Columns
// are matched by name, so reordered or extra columns are tolerated. Missing
// columns read as empty strings and blank rows are skipped.
func MakeTable(rows [][]string) (Collection, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sheet")
	}

	// ... build index
	index := map[string]int{}
	for i, v := range rows[0] {
		k := normalise(clean(v))
		if k == "" {
			continue
		}

		if _, ok := index[k]; ok {
			return nil, fmt.Errorf("duplicate column name '%s'", clean(v))
		}

		index[k] = i
	}

	known := 0
	for _, c := range columns {
		if _, ok := index[normalise(c.name)]; ok {
			known++
		}
	}

	if known == 0 {
		return nil, fmt.Errorf("missing/invalid header row")
	}

	// ... records
	collection := Collection{}
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}

		record := Record{}
		for _, c := range columns {
			if ix, ok := index[normalise(c.name)]; ok && ix < len(row) {
				*c.field(&record) = row[ix]
			}
		}

		collection = append(collection, record)
	}

	return collection, nil
}

// Rows is the inverse of MakeTable: the header row followed by one row per
// record.
func Rows(c Collection) [][]string {
	rows := make([][]string, 0, len(c)+1)

	rows = append(rows, Header())
	for _, record := range c {
		rows = append(rows, record.Row())
	}

	return rows
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}
