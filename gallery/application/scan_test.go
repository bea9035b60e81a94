package application

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestScan_ExtensionFilterIsLiteral(t *testing.T) {
	lib, _ := setupLibrary(t)
	dir := t.TempDir()

	writeTestImage(t, filepath.Join(dir, "a.png"), 4, 4)
	writeTestImage(t, filepath.Join(dir, "b.jpeg"), 4, 4)

	// Wrong case and wrong extension both fall out of the listing.
	writeTestImage(t, filepath.Join(dir, "c.PNG"), 4, 4)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write text file: %v", err)
	}

	paths, err := lib.Scan(dir, ScanOptions{})
	if err != nil {
		t.Fatalf("Failed to scan: %v", err)
	}

	want := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.jpeg")}
	if len(paths) != len(want) {
		t.Fatalf("Scan returned %d paths %v, want %d", len(paths), paths, len(want))
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestScan_MissingDirectory(t *testing.T) {
	lib, _ := setupLibrary(t)

	if _, err := lib.Scan(filepath.Join(t.TempDir(), "nope"), ScanOptions{}); err == nil {
		t.Error("Expected error for missing directory, got nil")
	}
}

func TestScan_SortModes(t *testing.T) {
	lib, _ := setupLibrary(t)
	dir := t.TempDir()

	big := filepath.Join(dir, "big.png")
	small := filepath.Join(dir, "small.png")
	writeTestImage(t, big, 200, 200)
	writeTestImage(t, small, 2, 2)

	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(big, old, old); err != nil {
		t.Fatalf("Failed to age file: %v", err)
	}

	paths, err := lib.Scan(dir, ScanOptions{Sort: SortBySize})
	if err != nil {
		t.Fatalf("Failed to scan: %v", err)
	}
	if paths[0] != big {
		t.Errorf("Size sort put %q first, want %q", paths[0], big)
	}

	paths, err = lib.Scan(dir, ScanOptions{Sort: SortByModified})
	if err != nil {
		t.Fatalf("Failed to scan: %v", err)
	}
	if paths[0] != small {
		t.Errorf("Modified sort put %q first, want newest %q", paths[0], small)
	}
}

func TestScan_CaptionSearch(t *testing.T) {
	lib, _ := setupLibrary(t)
	dir := t.TempDir()

	match := filepath.Join(dir, "match.png")
	other := filepath.Join(dir, "other.png")
	writeTestImage(t, match, 4, 4)
	writeTestImage(t, other, 4, 4)

	if err := lib.CommitCaption(match, "A sleeping Cat"); err != nil {
		t.Fatalf("Failed to seed caption: %v", err)
	}
	if err := lib.CommitCaption(other, "a dog"); err != nil {
		t.Fatalf("Failed to seed caption: %v", err)
	}

	paths, err := lib.Scan(dir, ScanOptions{Search: "cat"})
	if err != nil {
		t.Fatalf("Failed to scan: %v", err)
	}

	if len(paths) != 1 || paths[0] != match {
		t.Errorf("Search returned %v, want only %q", paths, match)
	}
}
