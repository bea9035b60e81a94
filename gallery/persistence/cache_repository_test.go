package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/picshelf/picshelf/gallery/domain"
)

func testRecord() *domain.ImageRecord {
	return &domain.ImageRecord{
		Width:      640,
		Height:     480,
		Format:     "PNG",
		Mode:       "RGBA",
		Fields:     map[string]string{"Software": "test"},
		Caption:    "a test image",
		FileSize:   1234,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		ModifiedAt: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestMetadataCache_MissingFile(t *testing.T) {
	cache, err := OpenMetadataCache(filepath.Join(t.TempDir(), "cache.json"))
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}

	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cache.Len())
	}

	if _, ok := cache.Get("nope.png"); ok {
		t.Error("Expected miss for unknown path")
	}
}

func TestMetadataCache_PutRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.json")

	cache, err := OpenMetadataCache(file)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}

	if err := cache.Put("images/cat.png", testRecord()); err != nil {
		t.Fatalf("Failed to put record: %v", err)
	}

	// A fresh load must see exactly what was written.
	reloaded, err := OpenMetadataCache(file)
	if err != nil {
		t.Fatalf("Failed to reload cache: %v", err)
	}

	rec, ok := reloaded.Get("images/cat.png")
	if !ok {
		t.Fatal("Expected record after reload")
	}

	want := testRecord()
	if rec.Width != want.Width || rec.Height != want.Height {
		t.Errorf("Dimensions = %dx%d, want %dx%d", rec.Width, rec.Height, want.Width, want.Height)
	}
	if rec.Format != want.Format {
		t.Errorf("Format = %q, want %q", rec.Format, want.Format)
	}
	if rec.Caption != want.Caption {
		t.Errorf("Caption = %q, want %q", rec.Caption, want.Caption)
	}
	if rec.Fields["Software"] != "test" {
		t.Errorf("Fields[Software] = %q, want %q", rec.Fields["Software"], "test")
	}
}

func TestMetadataCache_PutIsIdempotent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.json")

	cache, err := OpenMetadataCache(file)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}

	if err := cache.Put("a.png", testRecord()); err != nil {
		t.Fatalf("Failed to put record: %v", err)
	}
	first, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("Failed to read cache file: %v", err)
	}

	if err := cache.Put("a.png", testRecord()); err != nil {
		t.Fatalf("Failed to re-put record: %v", err)
	}
	second, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("Failed to read cache file: %v", err)
	}

	if string(first) != string(second) {
		t.Error("Cache file changed after writing an identical record")
	}
}

func TestMetadataCache_Remove(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.json")

	cache, err := OpenMetadataCache(file)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}

	if err := cache.Remove("never-added.png"); err != nil {
		t.Errorf("Remove of unknown path returned error: %v", err)
	}

	if err := cache.Put("a.png", testRecord()); err != nil {
		t.Fatalf("Failed to put record: %v", err)
	}
	if err := cache.Remove("a.png"); err != nil {
		t.Fatalf("Failed to remove record: %v", err)
	}

	reloaded, err := OpenMetadataCache(file)
	if err != nil {
		t.Fatalf("Failed to reload cache: %v", err)
	}
	if _, ok := reloaded.Get("a.png"); ok {
		t.Error("Record still present after remove and reload")
	}
}

func TestMetadataCache_Rename(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.json")

	cache, err := OpenMetadataCache(file)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}

	if err := cache.Rename("missing.png", "still-missing.png"); err != nil {
		t.Errorf("Rename of unknown path returned error: %v", err)
	}

	if err := cache.Put("old.png", testRecord()); err != nil {
		t.Fatalf("Failed to put record: %v", err)
	}
	if err := cache.Rename("old.png", "new.png"); err != nil {
		t.Fatalf("Failed to rename record: %v", err)
	}

	if _, ok := cache.Get("old.png"); ok {
		t.Error("Record still reachable under old path")
	}
	rec, ok := cache.Get("new.png")
	if !ok {
		t.Fatal("Record not reachable under new path")
	}
	if rec.Caption != "a test image" {
		t.Errorf("Caption = %q, want %q", rec.Caption, "a test image")
	}
}

func TestMetadataCache_CorruptFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(file, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	if _, err := OpenMetadataCache(file); err == nil {
		t.Error("Expected error for corrupt cache file, got nil")
	}
}
