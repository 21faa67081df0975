package archive

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalog-go/internal/catalog"
)

// archives returns one fresh instance of every local backend.
func archives(t *testing.T) map[string]catalog.Archive {
	t.Helper()
	fsa, err := NewFileSystemArchive(filepath.Join(t.TempDir(), "archive"))
	if err != nil {
		t.Fatalf("NewFileSystemArchive() error = %v", err)
	}
	return map[string]catalog.Archive{
		"memory":     NewMemoryArchive(),
		"filesystem": fsa,
	}
}

func TestArchive_PutGet(t *testing.T) {
	for name, a := range archives(t) {
		a := a
		t.Run(name, func(t *testing.T) {
			data := "encrypted snapshot bytes"
			if err := a.Put("laptop", "catalog.db", strings.NewReader(data), int64(len(data)), 7); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			var buf bytes.Buffer
			if err := a.Get("laptop", "catalog.db", &buf); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if buf.String() != data {
				t.Errorf("Get() = %q, want %q", buf.String(), data)
			}

			v, err := a.Version("laptop", "catalog.db")
			if err != nil {
				t.Fatalf("Version() error = %v", err)
			}
			if v != 7 {
				t.Errorf("Version() = %d, want 7", v)
			}
		})
	}
}

func TestArchive_Overwrite(t *testing.T) {
	for name, a := range archives(t) {
		a := a
		t.Run(name, func(t *testing.T) {
			for i, data := range []string{"first", "second"} {
				if err := a.Put("c", "catalog.db", strings.NewReader(data), int64(len(data)), int64(i+1)); err != nil {
					t.Fatalf("Put(%d) error = %v", i, err)
				}
			}

			var buf bytes.Buffer
			if err := a.Get("c", "catalog.db", &buf); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if buf.String() != "second" {
				t.Errorf("Get() = %q, want %q", buf.String(), "second")
			}
			if v, _ := a.Version("c", "catalog.db"); v != 2 {
				t.Errorf("Version() = %d, want 2", v)
			}
		})
	}
}

func TestArchive_Missing(t *testing.T) {
	for name, a := range archives(t) {
		a := a
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := a.Get("nobody", "catalog.db", &buf)
			if !errors.Is(err, catalog.ErrNotFound) {
				t.Errorf("Get() error = %v, want ErrNotFound", err)
			}

			v, err := a.Version("nobody", "catalog.db")
			if err != nil {
				t.Fatalf("Version() error = %v", err)
			}
			if v != 0 {
				t.Errorf("Version() = %d, want 0", v)
			}
		})
	}
}

func TestArchive_SizeMismatch(t *testing.T) {
	for name, a := range archives(t) {
		a := a
		t.Run(name, func(t *testing.T) {
			err := a.Put("c", "catalog.db", strings.NewReader("short"), 100, 1)
			if err == nil {
				t.Fatal("Put() expected size mismatch error")
			}

			var buf bytes.Buffer
			if err := a.Get("c", "catalog.db", &buf); !errors.Is(err, catalog.ErrNotFound) {
				t.Errorf("Get() after failed Put error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestFileSystemArchive_Layout(t *testing.T) {
	root := t.TempDir()
	a, err := NewFileSystemArchive(root)
	if err != nil {
		t.Fatalf("NewFileSystemArchive() error = %v", err)
	}
	if err := a.Put("laptop", "catalog.db", strings.NewReader("x"), 1, 42); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	version, err := os.ReadFile(filepath.Join(root, "laptop", "catalog.db.version"))
	if err != nil {
		t.Fatalf("reading version file: %v", err)
	}
	if string(version) != "42" {
		t.Errorf("version file = %q, want %q", version, "42")
	}

	entries, err := os.ReadDir(filepath.Join(root, "laptop"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileSystemArchive_RejectsTraversal(t *testing.T) {
	a, err := NewFileSystemArchive(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemArchive() error = %v", err)
	}
	for _, client := range []string{"..", "a/b", ""} {
		if err := a.Put(client, "catalog.db", strings.NewReader("x"), 1, 1); err == nil {
			t.Errorf("Put(client=%q) expected error", client)
		}
	}
}

func TestFileSystemArchive_ValidateSetup(t *testing.T) {
	a, err := NewFileSystemArchive(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemArchive() error = %v", err)
	}
	if err := a.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
}
