// Package store implements the record store adapter: the whole record
// collection lives in a single worksheet which is read in full, extended in
// memory and written back in full on every append.
//
// No lock guards the read-modify-write cycle, so two concurrent appends can
// interleave and the last writer wins. The Atomic mode uses the backend's
// row insert instead, where one is available.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ideflorbio/extrativista-sheets/log"
	"github.com/ideflorbio/extrativista-sheets/records"
)

var (
	ErrReadFailed  = errors.New("unable to read worksheet")
	ErrNoWorksheet = errors.New("worksheet does not exist")
)

// Worksheet is a remote table that can only be read and replaced as a whole.
type Worksheet interface {
	Read(ctx context.Context) ([][]string, error)
	Write(ctx context.Context, rows [][]string) error
}

// Appender is implemented by worksheets that support inserting rows without
// rewriting the table. The header is written first if the table is empty.
type Appender interface {
	AppendRows(ctx context.Context, header []string, rows [][]string) error
}

type Mode int

const (
	Rewrite Mode = iota
	Atomic
)

func (m Mode) String() string {
	switch m {
	case Rewrite:
		return "rewrite"
	case Atomic:
		return "atomic"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rewrite":
		return Rewrite, nil
	case "atomic", "append":
		return Atomic, nil
	default:
		return Rewrite, fmt.Errorf("invalid store mode '%s' - expected 'rewrite' or 'atomic'", s)
	}
}

type Status int

const (
	Empty Status = iota
	Rows
	ReadFailed
)

func (s Status) String() string {
	return [...]string{"empty", "rows", "read-failed"}[s]
}

// Result is the outcome of reading the worksheet. Err is only set when
// Status is ReadFailed.
type Result struct {
	Status  Status
	Records records.Collection
	Err     error
}

func (r Result) Len() int {
	return len(r.Records)
}

type Store struct {
	sheet Worksheet
	mode  Mode
}

func New(sheet Worksheet, mode Mode) *Store {
	return &Store{
		sheet: sheet,
		mode:  mode,
	}
}

func (s *Store) Mode() Mode {
	return s.mode
}

// Fetch reads the entire worksheet. A missing worksheet or a sheet without
// data rows is Empty, any other failure is ReadFailed.
func (s *Store) Fetch(ctx context.Context) Result {
	rows, err := s.sheet.Read(ctx)
	if errors.Is(err, ErrNoWorksheet) {
		return Result{Status: Empty, Records: records.Collection{}}
	} else if err != nil {
		return Result{Status: ReadFailed, Records: records.Collection{}, Err: fmt.Errorf("%w (%v)", ErrReadFailed, err)}
	}

	if len(rows) == 0 {
		return Result{Status: Empty, Records: records.Collection{}}
	}

	collection, err := records.MakeTable(rows)
	if err != nil {
		return Result{Status: ReadFailed, Records: records.Collection{}, Err: fmt.Errorf("%w (%v)", ErrReadFailed, err)}
	}

	if len(collection) == 0 {
		return Result{Status: Empty, Records: collection}
	}

	return Result{Status: Rows, Records: collection}
}

// FetchAll reads the worksheet, treating a read failure as an empty
// collection. Callers that need to tell the two apart should use Fetch.
func (s *Store) FetchAll(ctx context.Context) records.Collection {
	result := s.Fetch(ctx)
	if result.Status == ReadFailed {
		log.Warnf("store: %v - using empty collection", result.Err)
	}

	return result.Records
}

// Append adds one record to the worksheet. In Rewrite mode the full collection
// is read, extended and written back. The append is abandoned if the read
// fails, so a transient error can never truncate the worksheet.
func (s *Store) Append(ctx context.Context, record records.Record) error {
	if s.mode == Atomic {
		if appender, ok := s.sheet.(Appender); ok {
			if err := appender.AppendRows(ctx, records.Header(), [][]string{record.Row()}); err != nil {
				return fmt.Errorf("unable to append record (%w)", err)
			}

			return nil
		}

		log.Debugf("store: worksheet does not support row insert, falling back to rewrite")
	}

	result := s.Fetch(ctx)
	if result.Status == ReadFailed {
		return result.Err
	}

	collection := append(result.Records, record)

	if err := s.sheet.Write(ctx, records.Rows(collection)); err != nil {
		return fmt.Errorf("unable to write worksheet (%w)", err)
	}

	return nil
}

// Replace overwrites the worksheet with the collection.
func (s *Store) Replace(ctx context.Context, collection records.Collection) error {
	if err := s.sheet.Write(ctx, records.Rows(collection)); err != nil {
		return fmt.Errorf("unable to write worksheet (%w)", err)
	}

	return nil
}
