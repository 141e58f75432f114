package rom

import (
	"os"
	"path/filepath"
	"testing"

	"goba/internal/xerrors"
)

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.gba"))
	if !xerrors.Has(err, xerrors.PatternROMNotFound) {
		t.Errorf("expected PatternROMNotFound, got %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gba")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !xerrors.Is(err, xerrors.PatternROMEmpty) {
		t.Errorf("expected PatternROMEmpty, got %v", err)
	}
}

func TestLoadTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.gba")
	if err := os.WriteFile(path, make([]byte, maxSize+1), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !xerrors.Is(err, xerrors.PatternROMTooLarge) {
		t.Errorf("expected PatternROMTooLarge, got %v", err)
	}
}

func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valid.gba")
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	image, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(image.Data) != len(data) {
		t.Errorf("Data len = %d, want %d", len(image.Data), len(data))
	}
}
