package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schema.sql")

	if err := run(out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	schema := string(data)

	if !strings.HasPrefix(schema, schemaHeader) {
		t.Error("schema is missing the generated-file header")
	}
	if strings.Contains(schema, "schema_migrations") {
		t.Error("schema includes the migrate bookkeeping table")
	}
	files := strings.Index(schema, "CREATE TABLE files")
	index := strings.Index(schema, "CREATE INDEX")
	if files < 0 || index < 0 || index < files {
		t.Errorf("want tables before indexes; files at %d, first index at %d", files, index)
	}
}
