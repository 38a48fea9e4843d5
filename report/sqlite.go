package report

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/logger"
)

// Open opens a SQLite results database at path with WAL journaling,
// foreign keys, and a 5 second busy timeout, so several replications can
// append to the same results file.
func Open(path string) (*sql.DB, error) {
	logger.DBDebugw("Opening results database", logger.FieldPath, path)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening results database %s", path)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "applying %s", pragma)
		}
	}

	logger.DBInfow("Results database opened", logger.FieldPath, path)
	return db, nil
}

// SQLite returns a handler inserting items as rows of table, creating
// the table on first release. Columns come from the item's Header, all
// typed TEXT; values are the item's Row strings. Failures panic, turning
// the replication into a failure diagnostic.
func SQLite[T Row](db *sql.DB, table string) func(T) {
	ready := false
	var insert string

	return func(item T) {
		if !ready {
			cols := item.Header()
			defs := make([]string, len(cols))
			marks := make([]string, len(cols))
			for i, c := range cols {
				defs[i] = fmt.Sprintf("%q TEXT", c)
				marks[i] = "?"
			}
			ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", table, strings.Join(defs, ", "))
			if _, err := db.Exec(ddl); err != nil {
				panic(errors.Wrapf(err, "creating report table %s", table))
			}
			insert = fmt.Sprintf("INSERT INTO %q VALUES (%s)", table, strings.Join(marks, ", "))
			ready = true

			logger.DBDebugw("Report table ready",
				logger.FieldReport, table,
				logger.FieldCount, len(cols),
			)
		}

		row := item.Row()
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := db.Exec(insert, args...); err != nil {
			panic(errors.Wrapf(err, "inserting report row into %s", table))
		}
	}
}
