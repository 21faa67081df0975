package catalog

import (
	"errors"
	"testing"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		isDir    bool
		policy   ExtensionCase
		wantStem string
		wantExt  string
	}{
		{"simple", "beach.jpg", false, ExtensionPreserve, "beach", "jpg"},
		{"last dot wins", "archive.tar.gz", false, ExtensionPreserve, "archive.tar", "gz"},
		{"case preserved", "IMG_01.JPG", false, ExtensionPreserve, "IMG_01", "JPG"},
		{"case lowered", "IMG_01.JPG", false, ExtensionLower, "IMG_01", "jpg"},
		{"dot file", ".bashrc", false, ExtensionPreserve, ".bashrc", ""},
		{"trailing dot", "notes.", false, ExtensionPreserve, "notes.", ""},
		{"no extension", "Makefile", false, ExtensionPreserve, "Makefile", ""},
		{"directory with dot", "v1.2", true, ExtensionPreserve, "v1.2", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			stem, ext := SplitName(tt.base, tt.isDir, tt.policy)
			if stem != tt.wantStem || ext != tt.wantExt {
				t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)", tt.base, stem, ext, tt.wantStem, tt.wantExt)
			}
		})
	}
}

func TestKeyFor(t *testing.T) {
	t.Run("nested file", func(t *testing.T) {
		key, err := KeyFor([]string{"photos", "2023", "beach.jpg"}, false, ExtensionPreserve)
		if err != nil {
			t.Fatalf("KeyFor() error = %v", err)
		}
		want := FileKey{Stem: "photos/2023/beach", Name: "beach.jpg", Extension: "jpg"}
		if key != want {
			t.Errorf("KeyFor() = %+v, want %+v", key, want)
		}
		if key.ParentStem() != "photos/2023" {
			t.Errorf("ParentStem() = %q, want photos/2023", key.ParentStem())
		}
	})

	t.Run("root directory", func(t *testing.T) {
		key, err := KeyFor([]string{"photos"}, true, ExtensionPreserve)
		if err != nil {
			t.Fatalf("KeyFor() error = %v", err)
		}
		if key != DirectoryKey([]string{"photos"}) {
			t.Errorf("KeyFor() = %+v, want directory key", key)
		}
		if key.ParentStem() != "" {
			t.Errorf("ParentStem() = %q, want empty", key.ParentStem())
		}
	})

	t.Run("rejects bad components", func(t *testing.T) {
		for _, components := range [][]string{
			nil,
			{"a", "", "b"},
			{"a", ".."},
			{"."},
			{"a/b"},
		} {
			if _, err := KeyFor(components, false, ExtensionPreserve); !errors.Is(err, ErrInvariantViolation) {
				t.Errorf("KeyFor(%q) error = %v, want ErrInvariantViolation", components, err)
			}
		}
	})
}

func TestCheckPlacement(t *testing.T) {
	tests := []struct {
		name       string
		key        FileKey
		isDir      bool
		parentStem string
		wantErr    bool
	}{
		{"file at root", FileKey{Stem: "notes", Name: "notes.txt", Extension: "txt"}, false, "", false},
		{"file in directory", FileKey{Stem: "docs/notes", Name: "notes.txt", Extension: "txt"}, false, "docs", false},
		{"lowered extension", FileKey{Stem: "IMG", Name: "IMG.JPG", Extension: "jpg"}, false, "", false},
		{"wrong parent", FileKey{Stem: "docs/notes", Name: "notes.txt", Extension: "txt"}, false, "", true},
		{"name disagrees", FileKey{Stem: "notes", Name: "other.txt", Extension: "txt"}, false, "", true},
		{"directory with extension", FileKey{Stem: "docs", Name: "docs", Extension: "d"}, true, "", true},
		{"directory", FileKey{Stem: "a/docs", Name: "docs"}, true, "a", false},
		{"empty", FileKey{}, false, "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPlacement(tt.key, tt.isDir, tt.parentStem)
			if tt.wantErr {
				if !errors.Is(err, ErrInvariantViolation) {
					t.Errorf("CheckPlacement() error = %v, want ErrInvariantViolation", err)
				}
				return
			}
			if err != nil {
				t.Errorf("CheckPlacement() error = %v", err)
			}
		})
	}
}

func TestKeySet(t *testing.T) {
	a := FileKey{Stem: "a", Name: "a.txt", Extension: "txt"}
	b := FileKey{Stem: "b", Name: "b"}
	s := NewKeySet(a)
	if !s.Has(a) || s.Has(b) {
		t.Fatalf("NewKeySet(a) membership wrong: %v", s)
	}
	s.Add(b)
	if !s.Has(b) {
		t.Error("Add(b) did not add")
	}
}
