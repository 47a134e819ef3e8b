package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

const (
	DefaultRange = "Página1!A1:V"

	// Values are written RAW so that CPFs keep their leading zeros and dates
	// stay as dd/mm/yyyy text.
	valueInputOption = "RAW"
)

var (
	ErrInvalidURL   = errors.New("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	ErrInvalidRange = errors.New("invalid spreadsheet range - expected something like 'Página1!A1:V'")
)

var (
	urlRegexp   = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)
	rangeRegexp = regexp.MustCompile(`^(.+?)!([a-zA-Z]+)([0-9]+):([a-zA-Z]+)([0-9]+)?$`)
)

// GoogleSheet is a worksheet range in a Google Sheets spreadsheet. The range
// anchors the top left corner of the table and its rightmost column, the
// number of rows is open ended.
type GoogleSheet struct {
	google      *sheets.Service
	spreadsheet string
	name        string
	left        string
	top         int
	right       string
}

// SpreadsheetID extracts the spreadsheet ID from a Google Sheets URL.
func SpreadsheetID(url string) (string, error) {
	match := urlRegexp.FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 || match[1] == "" {
		return "", ErrInvalidURL
	}

	return match[1], nil
}

func NewGoogleSheet(google *sheets.Service, spreadsheet string, area string) (*GoogleSheet, error) {
	match := rangeRegexp.FindStringSubmatch(strings.TrimSpace(area))
	if len(match) < 5 {
		return nil, fmt.Errorf("%w ('%s')", ErrInvalidRange, area)
	}

	top, err := strconv.Atoi(match[3])
	if err != nil || top < 1 {
		return nil, fmt.Errorf("%w ('%s')", ErrInvalidRange, area)
	}

	name := match[1]
	if strings.HasPrefix(name, "'") && strings.HasSuffix(name, "'") && len(name) > 1 {
		name = strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}

	return &GoogleSheet{
		google:      google,
		spreadsheet: spreadsheet,
		name:        name,
		left:        strings.ToUpper(match[2]),
		top:         top,
		right:       strings.ToUpper(match[4]),
	}, nil
}

func (g *GoogleSheet) String() string {
	return g.area()
}

func (g *GoogleSheet) Read(ctx context.Context) ([][]string, error) {
	response, err := g.google.Spreadsheets.Values.Get(g.spreadsheet, g.area()).Context(ctx).Do()
	if err != nil {
		if missingWorksheet(err) {
			return nil, ErrNoWorksheet
		}

		return nil, fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	return fromValues(response.Values), nil
}

// Write replaces the table with the rows and then clears anything left over
// below it.
func (g *GoogleSheet) Write(ctx context.Context, rows [][]string) error {
	update := func() error {
		values := sheets.ValueRange{
			Range:  g.area(),
			Values: toValues(rows),
		}

		_, err := g.google.Spreadsheets.Values.Update(g.spreadsheet, g.area(), &values).
			ValueInputOption(valueInputOption).
			Context(ctx).
			Do()

		return err
	}

	err := update()
	if err != nil && missingWorksheet(err) {
		if err = g.addSheet(ctx); err == nil {
			err = update()
		}
	}

	if err != nil {
		return fmt.Errorf("unable to update sheet (%w)", err)
	}

	tail := fmt.Sprintf("%s!%s%d:%s", quote(g.name), g.left, g.top+len(rows), g.right)
	if _, err := g.google.Spreadsheets.Values.Clear(g.spreadsheet, tail, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to clear sheet (%w)", err)
	}

	return nil
}

// AppendRows inserts the rows after the last row of the table, writing the
// header first if the sheet is empty.
func (g *GoogleSheet) AppendRows(ctx context.Context, header []string, rows [][]string) error {
	first := fmt.Sprintf("%s!%s%d:%s%d", quote(g.name), g.left, g.top, g.right, g.top)

	response, err := g.google.Spreadsheets.Values.Get(g.spreadsheet, first).Context(ctx).Do()
	if err != nil && missingWorksheet(err) {
		if err = g.addSheet(ctx); err == nil {
			response = &sheets.ValueRange{}
		}
	}

	if err != nil {
		return fmt.Errorf("unable to retrieve header from sheet (%w)", err)
	}

	data := rows
	if len(response.Values) == 0 {
		data = append([][]string{header}, rows...)
	}

	values := sheets.ValueRange{
		Values: toValues(data),
	}

	if _, err := g.google.Spreadsheets.Values.Append(g.spreadsheet, g.area(), &values).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("unable to append to sheet (%w)", err)
	}

	return nil
}

func (g *GoogleSheet) addSheet(ctx context.Context) error {
	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: g.name,
					},
				},
			},
		},
	}

	if _, err := g.google.Spreadsheets.BatchUpdate(g.spreadsheet, &rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to create worksheet '%s' (%w)", g.name, err)
	}

	return nil
}

func (g *GoogleSheet) area() string {
	return fmt.Sprintf("%s!%s%d:%s", quote(g.name), g.left, g.top, g.right)
}

func missingWorksheet(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusBadRequest && strings.Contains(gerr.Message, "Unable to parse range")
	}

	return false
}

func quote(name string) string {
	for _, r := range name {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 127) {
			return "'" + strings.ReplaceAll(name, "'", "''") + "'"
		}
	}

	return name
}

func fromValues(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = fmt.Sprintf("%v", v)
		}
	}

	return rows
}

func toValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, v := range row {
			values[i][j] = v
		}
	}

	return values
}
