package checksum

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeebo/blake3"

	"catalog-go/internal/catalog"
)

func writeFile(t *testing.T, dir, name string, data []byte) *catalog.Path {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	return catalog.NewPath(p, false, info)
}

func TestFileHasher_Full(t *testing.T) {
	dir := t.TempDir()
	data := []byte("the quick brown fox")
	p := writeFile(t, dir, "fox.txt", data)

	got, err := NewFileHasher().Sum(catalog.TierFull, p)
	if err != nil {
		t.Fatalf("Sum() error = %v", err)
	}
	want := blake3.Sum256(data)
	if got != hex.EncodeToString(want[:]) {
		t.Errorf("Sum() = %s, want %x", got, want)
	}
}

func TestFileHasher_Quick(t *testing.T) {
	dir := t.TempDir()
	big := bytes.Repeat([]byte("abcdefgh"), 64*1024)
	a := writeFile(t, dir, "a.bin", big)
	b := writeFile(t, dir, "b.bin", big)

	changed := append([]byte{}, big...)
	changed[len(changed)-1] = 'z'
	c := writeFile(t, dir, "c.bin", changed)

	h := NewFileHasher()
	sumA, err := h.Sum(catalog.TierQuick, a)
	if err != nil {
		t.Fatalf("Sum() error = %v", err)
	}
	sumB, _ := h.Sum(catalog.TierQuick, b)
	sumC, _ := h.Sum(catalog.TierQuick, c)

	if sumA != sumB {
		t.Errorf("identical content gave %s and %s", sumA, sumB)
	}
	if sumA == sumC {
		t.Error("changed tail gave the same quick checksum")
	}
	if len(sumA) != 32 || strings.ToLower(sumA) != sumA {
		t.Errorf("quick checksum %q is not 32 lowercase hex digits", sumA)
	}
}

func TestFileHasher_Errors(t *testing.T) {
	dir := t.TempDir()
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	h := NewFileHasher()

	if _, err := h.Sum(catalog.TierFull, catalog.NewPath(dir, true, info)); !errors.Is(err, catalog.ErrInvariantViolation) {
		t.Errorf("Sum() on directory error = %v, want ErrInvariantViolation", err)
	}

	missing := catalog.NewPath(filepath.Join(dir, "gone"), false, nil)
	if _, err := h.Sum(catalog.TierFull, missing); err == nil {
		t.Error("Sum() on missing file expected error")
	}
	if _, err := h.Sum(catalog.TierQuick, missing); err == nil {
		t.Error("Sum() quick on missing file expected error")
	}
}

func TestStatUnchanged(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "log.txt")
	if err := os.WriteFile(p, []byte("one"), 0644); err != nil {
		t.Fatal(err)
	}
	before, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}

	if err := statUnchanged(before, before); err != nil {
		t.Errorf("statUnchanged(same) error = %v", err)
	}

	if err := os.WriteFile(p, []byte("one two"), 0644); err != nil {
		t.Fatal(err)
	}
	after, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := statUnchanged(before, after); !errors.Is(err, ErrChanged) {
		t.Errorf("statUnchanged(grown) error = %v, want ErrChanged", err)
	}
}
