package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteSheet keeps the worksheet in a local SQLite file, one table row per
// worksheet row with the cells JSON encoded. The first row is the header.
type SQLiteSheet struct {
	db   *sql.DB
	path string
}

const createWorksheetTable = `
	CREATE TABLE IF NOT EXISTS worksheet (
		"position" INTEGER PRIMARY KEY AUTOINCREMENT,
		"cells"    TEXT NOT NULL
	)`

func OpenSQLiteSheet(ctx context.Context, path string) (*SQLiteSheet, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database (%w)", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database (%w)", err)
	}

	// single writer, so that the row insert is serialised by the driver
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createWorksheetTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create worksheet table (%w)", err)
	}

	return &SQLiteSheet{db: db, path: path}, nil
}

func (s *SQLiteSheet) String() string {
	return s.path
}

func (s *SQLiteSheet) Close() error {
	return s.db.Close()
}

func (s *SQLiteSheet) Read(ctx context.Context) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT cells FROM worksheet ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := [][]string{}
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, err
		}

		row := []string{}
		if err := json.Unmarshal([]byte(cells), &row); err != nil {
			return nil, fmt.Errorf("corrupt worksheet row (%w)", err)
		}

		table = append(table, row)
	}

	return table, rows.Err()
}

func (s *SQLiteSheet) Write(ctx context.Context, rows [][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM worksheet`); err != nil {
		return err
	}

	if err := insert(ctx, tx, rows); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteSheet) AppendRows(ctx context.Context, header []string, rows [][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM worksheet`).Scan(&count); err != nil {
		return err
	}

	if count == 0 {
		rows = append([][]string{header}, rows...)
	}

	if err := insert(ctx, tx, rows); err != nil {
		return err
	}

	return tx.Commit()
}

func insert(ctx context.Context, tx *sql.Tx, rows [][]string) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO worksheet (cells) VALUES (?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return err
		}

		if _, err := stmt.ExecContext(ctx, string(cells)); err != nil {
			return err
		}
	}

	return nil
}
