package export

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLite writes each table to its own database file, in a table named after
// Table.Name with an integer row_index key and TEXT columns.
type SQLite struct{}

// Ext implements Exporter.
func (SQLite) Ext() string { return "sqlite" }

// WriteTable implements Exporter. An existing file at path is replaced.
func (SQLite) WriteTable(path string, t Table) (err error) {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.Name == "" {
		return fmt.Errorf("sqlite export needs a table name")
	}
	if err := removeExisting(path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	columns := make([]string, 0, len(t.Columns)+1)
	columns = append(columns, quoteIdent(IndexColumn)+" INTEGER PRIMARY KEY")
	for _, col := range t.Columns {
		columns = append(columns, quoteIdent(col)+" TEXT")
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(t.Name), strings.Join(columns, ", "))); err != nil {
		return fmt.Errorf("create table %s: %w", t.Name, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)+1), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(t.Name), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns)+1)
	for i, row := range t.Rows {
		args[0] = i
		for j, cell := range row {
			if cell == nil {
				args[j+1] = nil
			} else {
				args[j+1] = *cell
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
