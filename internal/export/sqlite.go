package export

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

// WriteSQLite writes the result tables into a SQLite file, one database
// table per result table. Existing tables with the same name are replaced
// so re-runs stay idempotent.
func WriteSQLite(path string, tables []Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer db.Close()

	for _, t := range tables {
		if err := writeSQLiteTable(db, t); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
	}

	log.Info().
		Str("path", path).
		Int("tables", len(tables)).
		Msg("Wrote SQLite result tables")

	return nil
}

func writeSQLiteTable(db *sql.DB, t Table) error {
	name := fileName(t.Name)
	if name == "" {
		return fmt.Errorf("empty table name")
	}

	if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, name)); err != nil {
		return fmt.Errorf("drop: %w", err)
	}

	cols := make([]string, len(t.Header))
	for i, h := range t.Header {
		cols[i] = fmt.Sprintf(`"%s" TEXT`, fileName(h))
	}
	create := fmt.Sprintf(`CREATE TABLE "%s" (%s)`, name, strings.Join(cols, ", "))
	if _, err := db.Exec(create); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Header)), ", ")
	insert := fmt.Sprintf(`INSERT INTO "%s" VALUES (%s)`, name, placeholders)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		args := make([]interface{}, len(row))
		for i, v := range row {
			args[i] = cell(v)
		}
		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert: %w", err)
		}
	}

	return tx.Commit()
}
