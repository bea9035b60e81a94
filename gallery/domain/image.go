package domain

import (
	"time"
)

// ImageRecord holds everything picshelf knows about a single image file.
// A record is created the first time a path is probed and is never refreshed
// afterwards, even if the file changes on disk. The one exception is Caption,
// which is rewritten every time a caption is saved for the path.
type ImageRecord struct {
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Format     string            `json:"format"`
	Mode       string            `json:"mode"`
	Fields     map[string]string `json:"fields,omitempty"`
	Caption    string            `json:"caption"`
	FileSize   int64             `json:"file_size"`
	CreatedAt  time.Time         `json:"created_at"`
	ModifiedAt time.Time         `json:"modified_at"`
}

// MetadataCache is a path-keyed store of image records. Implementations
// persist the full mapping after every mutation.
type MetadataCache interface {
	// Get returns the cached record for a path, if one exists.
	Get(path string) (*ImageRecord, bool)

	// Put inserts or replaces the record for a path and persists the cache.
	Put(path string, rec *ImageRecord) error

	// Remove drops the record for a path, if present, and persists the cache.
	Remove(path string) error

	// Rename re-keys a record from oldPath to newPath and persists the cache.
	// A missing record is not an error.
	Rename(oldPath, newPath string) error

	// Paths returns every cached path, in no particular order.
	Paths() []string

	// Len returns the number of cached records.
	Len() int
}

// CaptionStore reads and writes caption sidecar files. The sidecar is the
// source of truth for captions; the metadata cache mirrors it.
type CaptionStore interface {
	// SidecarPath maps an image path to its caption sidecar path.
	SidecarPath(imagePath string) string

	// Read returns the caption for an image, trimmed of surrounding
	// whitespace. A missing sidecar yields an empty caption and no error.
	Read(imagePath string) (string, error)

	// Write stores the caption verbatim in the image's sidecar file.
	Write(imagePath, caption string) error

	// Remove deletes the sidecar for an image if one exists.
	Remove(imagePath string) error

	// Move relocates the sidecar alongside its image into destDir.
	// A missing sidecar is not an error.
	Move(imagePath, destDir string) error

	// Copy duplicates the sidecar alongside its image into destDir.
	// A missing sidecar is not an error.
	Copy(imagePath, destDir string) error
}
