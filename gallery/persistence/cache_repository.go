package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/picshelf/picshelf/gallery/domain"
)

var _ domain.MetadataCache = (*JSONMetadataCache)(nil)

// JSONMetadataCache implements domain.MetadataCache on top of a single JSON
// file holding a path -> record mapping. The file is read once when the
// cache is opened and rewritten in full after every mutation. Staleness is
// accepted: records are never refreshed when the underlying image changes.
type JSONMetadataCache struct {
	path    string
	records map[string]*domain.ImageRecord
}

// OpenMetadataCache loads the cache file at path. A missing file yields an
// empty cache; a corrupt file is an error.
func OpenMetadataCache(path string) (*JSONMetadataCache, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path cannot be empty")
	}

	c := &JSONMetadataCache{
		path:    path,
		records: make(map[string]*domain.ImageRecord),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if err := json.Unmarshal(data, &c.records); err != nil {
		return nil, fmt.Errorf("failed to parse cache file %s: %w", path, err)
	}

	return c, nil
}

// Get returns the cached record for a path, if one exists.
func (c *JSONMetadataCache) Get(path string) (*domain.ImageRecord, bool) {
	rec, ok := c.records[path]
	return rec, ok
}

// Put inserts or replaces the record for a path and persists the cache.
func (c *JSONMetadataCache) Put(path string, rec *domain.ImageRecord) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	c.records[path] = rec
	return c.save()
}

// Remove drops the record for a path and persists the cache. Removing an
// uncached path is a no-op.
func (c *JSONMetadataCache) Remove(path string) error {
	if _, ok := c.records[path]; !ok {
		return nil
	}

	delete(c.records, path)
	return c.save()
}

// Rename re-keys a record from oldPath to newPath and persists the cache.
func (c *JSONMetadataCache) Rename(oldPath, newPath string) error {
	rec, ok := c.records[oldPath]
	if !ok {
		return nil
	}

	delete(c.records, oldPath)
	c.records[newPath] = rec
	return c.save()
}

// Paths returns every cached path, in no particular order.
func (c *JSONMetadataCache) Paths() []string {
	paths := make([]string, 0, len(c.records))
	for p := range c.records {
		paths = append(paths, p)
	}
	return paths
}

// Len returns the number of cached records.
func (c *JSONMetadataCache) Len() int {
	return len(c.records)
}

// save rewrites the whole cache file. The write goes through a temp file in
// the same directory so a crash mid-write cannot truncate the cache.
func (c *JSONMetadataCache) save() error {
	data, err := json.Marshal(c.records)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	return nil
}
