package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/picshelf/picshelf/gallery/domain"
	"github.com/picshelf/picshelf/shared/fileops"
)

var _ domain.CaptionStore = (*SidecarCaptionStore)(nil)

const sidecarExt = ".txt"

// SidecarCaptionStore implements domain.CaptionStore with plain UTF-8 text
// files sharing the image's base name. The sidecar file is the source of
// truth for a caption; absence means an empty caption.
type SidecarCaptionStore struct{}

// NewCaptionStore creates a SidecarCaptionStore.
func NewCaptionStore() *SidecarCaptionStore {
	return &SidecarCaptionStore{}
}

// SidecarPath maps an image path to its caption sidecar path by swapping
// the extension for .txt.
func (s *SidecarCaptionStore) SidecarPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + sidecarExt
}

// Read returns the caption for an image, trimmed of surrounding whitespace.
// A missing sidecar yields an empty caption and no error.
func (s *SidecarCaptionStore) Read(imagePath string) (string, error) {
	data, err := os.ReadFile(s.SidecarPath(imagePath))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read caption for %s: %w", imagePath, err)
	}

	return strings.TrimSpace(string(data)), nil
}

// Write stores the caption verbatim. Trimming happens on read, not write.
func (s *SidecarCaptionStore) Write(imagePath, caption string) error {
	path := s.SidecarPath(imagePath)
	if err := os.WriteFile(path, []byte(caption), 0644); err != nil {
		return fmt.Errorf("failed to write caption file %s: %w", path, err)
	}
	return nil
}

// Remove deletes the sidecar for an image. A missing sidecar is not an error.
func (s *SidecarCaptionStore) Remove(imagePath string) error {
	path := s.SidecarPath(imagePath)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove caption file %s: %w", path, err)
	}
	return nil
}

// Move relocates the sidecar into destDir, preserving its base name.
// A missing sidecar is not an error.
func (s *SidecarCaptionStore) Move(imagePath, destDir string) error {
	src := s.SidecarPath(imagePath)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	if err := fileops.Move(src, dest); err != nil {
		return fmt.Errorf("failed to move caption file %s: %w", src, err)
	}
	return nil
}

// Copy duplicates the sidecar into destDir, preserving its base name.
// A missing sidecar is not an error.
func (s *SidecarCaptionStore) Copy(imagePath, destDir string) error {
	src := s.SidecarPath(imagePath)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	if err := fileops.Copy(src, dest); err != nil {
		return fmt.Errorf("failed to copy caption file %s: %w", src, err)
	}
	return nil
}
