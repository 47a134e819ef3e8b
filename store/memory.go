package store

import (
	"context"
	"sync"
)

// MemorySheet is an in-process worksheet. The hooks allow failures and
// interleavings to be injected between the steps of a read-modify-write.
type MemorySheet struct {
	// AfterRead runs after the rows have been copied out of the sheet.
	AfterRead func(ctx context.Context) error

	// BeforeWrite runs before the rows are stored. An error aborts the write.
	BeforeWrite func(rows [][]string) error

	// AfterWrite runs once the rows have been stored. An error is returned to
	// the caller even though the write has already taken effect.
	AfterWrite func(rows [][]string) error

	mu      sync.Mutex
	rows    [][]string
	missing bool
}

func NewMemorySheet(rows [][]string) *MemorySheet {
	return &MemorySheet{
		rows: copyRows(rows),
	}
}

// NewMissingMemorySheet returns a sheet that reports ErrNoWorksheet until it
// is first written.
func NewMissingMemorySheet() *MemorySheet {
	return &MemorySheet{
		missing: true,
	}
}

func (m *MemorySheet) Read(ctx context.Context) ([][]string, error) {
	m.mu.Lock()
	missing := m.missing
	rows := copyRows(m.rows)
	m.mu.Unlock()

	if missing {
		return nil, ErrNoWorksheet
	}

	if m.AfterRead != nil {
		if err := m.AfterRead(ctx); err != nil {
			return nil, err
		}
	}

	return rows, nil
}

func (m *MemorySheet) Write(ctx context.Context, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if m.BeforeWrite != nil {
		if err := m.BeforeWrite(rows); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.rows = copyRows(rows)
	m.missing = false
	m.mu.Unlock()

	if m.AfterWrite != nil {
		return m.AfterWrite(rows)
	}

	return nil
}

func (m *MemorySheet) AppendRows(ctx context.Context, header []string, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.rows) == 0 {
		m.rows = append(m.rows, append([]string{}, header...))
	}

	m.rows = append(m.rows, copyRows(rows)...)
	m.missing = false

	return nil
}

// Snapshot returns a copy of the stored rows.
func (m *MemorySheet) Snapshot() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return copyRows(m.rows)
}

func copyRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string{}, row...)
	}

	return out
}
