// Package simtest provides shared helpers for SIMYX package tests.
package simtest

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// CreateTestDB creates an in-memory SQLite test database.
// Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// ReadRows returns every row of a table as strings, in insertion order.
// Useful for asserting on what a report sink actually wrote.
func ReadRows(t *testing.T, db *sql.DB, table string) [][]string {
	t.Helper()

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %q ORDER BY rowid", table))
	if err != nil {
		t.Fatalf("Failed to read table %s: %v", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		t.Fatalf("Failed to read columns of %s: %v", table, err)
	}

	var out [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		scan := make([]interface{}, len(cols))
		for i := range cells {
			scan[i] = &cells[i]
		}
		if err := rows.Scan(scan...); err != nil {
			t.Fatalf("Failed to scan row of %s: %v", table, err)
		}

		row := make([]string, len(cols))
		for i, cell := range cells {
			row[i] = cell.String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Failed iterating rows of %s: %v", table, err)
	}
	return out
}
