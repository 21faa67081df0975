// Command generate_schema migrates an empty catalog and writes its DDL to the
// schema snapshot that sqlc and the in-memory test databases read.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"

	"catalog-go/internal/database"
	"catalog-go/internal/database/migrations"
)

const schemaHeader = `-- This file is auto-generated from migration files.
-- DO NOT EDIT MANUALLY. Run 'go generate ./internal/database' to regenerate.
-- Source: internal/database/migrations/files/*.sql

`

func main() {
	out := flag.String("o", "internal/database/sqlc/schema.sql", "output path, relative to the module root")
	flag.Parse()

	if err := run(*out); err != nil {
		fmt.Fprintf(os.Stderr, "generate_schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *out)
}

func run(outPath string) error {
	db, err := database.OpenConnection(":memory:")
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}
	schema, err := dumpSchema(db)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(schemaHeader+schema), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// dumpSchema returns the catalog's tables, then indexes, then triggers, each
// group sorted by name. The migrate bookkeeping table is not part of it.
func dumpSchema(db *sql.DB) (string, error) {
	rows, err := db.Query(`
		SELECT sql || ';'
		FROM sqlite_master
		WHERE type IN ('table', 'index', 'trigger')
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND tbl_name != 'schema_migrations'
		ORDER BY CASE type WHEN 'table' THEN 1 WHEN 'index' THEN 2 ELSE 3 END, name`)
	if err != nil {
		return "", fmt.Errorf("reading sqlite_master: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", fmt.Errorf("scanning statement: %w", err)
		}
		b.WriteString(stmt)
		b.WriteString("\n\n")
	}
	return b.String(), rows.Err()
}
