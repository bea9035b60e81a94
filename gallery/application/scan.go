package application

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SortMode orders a directory listing.
type SortMode string

const (
	SortByName     SortMode = "name"
	SortByModified SortMode = "modified" // newest first
	SortBySize     SortMode = "size"     // largest first
)

// ScanOptions controls Scan's ordering and filtering.
type ScanOptions struct {
	Sort SortMode

	// Search keeps only images whose caption contains the query,
	// case-insensitively. Images that cannot be read are dropped.
	Search string
}

// imageExtensions is the scan allow-list. The suffix check is literal and
// case-sensitive: IMG.PNG does not match.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}

// Scan lists the image files directly inside dir (non-recursive), sorted
// and filtered per opt.
func (l *Library) Scan(dir string, opt ScanOptions) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !hasImageExtension(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	sortPaths(paths, opt.Sort)

	if opt.Search != "" {
		query := strings.ToLower(opt.Search)
		var filtered []string
		for _, p := range paths {
			if _, err := l.Info(p); err != nil {
				continue
			}
			if strings.Contains(strings.ToLower(l.Caption(p)), query) {
				filtered = append(filtered, p)
			}
		}
		paths = filtered
	}

	return paths, nil
}

func hasImageExtension(name string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func sortPaths(paths []string, mode SortMode) {
	switch mode {
	case SortByModified:
		sort.SliceStable(paths, func(i, j int) bool {
			return modTime(paths[i]).After(modTime(paths[j]))
		})
	case SortBySize:
		sort.SliceStable(paths, func(i, j int) bool {
			return fileSize(paths[i]) > fileSize(paths[j])
		})
	default:
		sort.Strings(paths)
	}
}

func modTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}
