package application

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/picshelf/picshelf/gallery/domain"
	"github.com/picshelf/picshelf/shared/imagemeta"

	"github.com/rs/zerolog/log"
)

// Library is the single owner of the metadata cache and the pending caption
// edit map. Callers pass it explicitly; there is no package-level state.
// It is not safe for concurrent use: every operation runs to completion on
// the calling goroutine.
type Library struct {
	cache    domain.MetadataCache
	captions domain.CaptionStore

	// pending holds uncommitted caption edits, keyed by image path.
	pending map[string]string
}

// NewLibrary creates a Library over the given cache and caption store.
func NewLibrary(cache domain.MetadataCache, captions domain.CaptionStore) *Library {
	return &Library{
		cache:    cache,
		captions: captions,
		pending:  make(map[string]string),
	}
}

// Info returns the record for an image, computing and caching it on first
// access. The computed record is persisted immediately. An unreadable or
// corrupt image yields an error and no record; the caller should skip it.
func (l *Library) Info(path string) (*domain.ImageRecord, error) {
	if rec, ok := l.cache.Get(path); ok {
		return rec, nil
	}

	meta, err := imagemeta.Probe(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to read image")
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to stat image")
		return nil, fmt.Errorf("failed to stat image %s: %w", path, err)
	}

	caption, err := l.captions.Read(path)
	if err != nil {
		// The image itself is fine; treat the caption as empty.
		log.Warn().Err(err).Str("path", path).Msg("Failed to read caption sidecar")
		caption = ""
	}

	rec := &domain.ImageRecord{
		Width:      meta.Width,
		Height:     meta.Height,
		Format:     meta.Format,
		Mode:       meta.Mode,
		Fields:     meta.Fields,
		Caption:    caption,
		FileSize:   fi.Size(),
		CreatedAt:  fi.ModTime(),
		ModifiedAt: fi.ModTime(),
	}

	if err := l.cache.Put(path, rec); err != nil {
		// The record is still usable; only persistence failed.
		log.Warn().Err(err).Str("path", path).Msg("Failed to persist metadata cache")
	}

	return rec, nil
}

// Caption returns the current caption for an image: the pending edit if one
// is staged, else the cached caption, else the sidecar contents.
func (l *Library) Caption(path string) string {
	if text, ok := l.pending[path]; ok {
		return text
	}

	if rec, ok := l.cache.Get(path); ok {
		return rec.Caption
	}

	text, err := l.captions.Read(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to read caption sidecar")
		return ""
	}
	return text
}

// StagePending records an uncommitted caption edit without touching disk.
func (l *Library) StagePending(path, text string) {
	l.pending[path] = text
}

// Pending returns a copy of the uncommitted caption edits.
func (l *Library) Pending() map[string]string {
	out := make(map[string]string, len(l.pending))
	for k, v := range l.pending {
		out[k] = v
	}
	return out
}

// HasPending reports whether an uncommitted edit is staged for path.
func (l *Library) HasPending(path string) bool {
	_, ok := l.pending[path]
	return ok
}

// DiscardPending drops every uncommitted caption edit.
func (l *Library) DiscardPending() {
	l.pending = make(map[string]string)
}

// CommitCaption writes a caption to the image's sidecar file, mirrors it
// into the cache, and clears any pending edit for the path. The sidecar
// gets the text verbatim; the cache mirrors the trimmed form a sidecar
// read would return, so a fresh cache load and a recompute agree.
func (l *Library) CommitCaption(path, text string) error {
	if err := l.captions.Write(path, text); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to write caption")
		return err
	}

	if rec, ok := l.cache.Get(path); ok {
		rec.Caption = strings.TrimSpace(text)
		if err := l.cache.Put(path, rec); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to persist metadata cache")
		}
	}

	delete(l.pending, path)
	return nil
}

// CommitPending flushes every pending caption edit to disk, best effort.
// A write failure for one path does not block the others; only paths that
// committed successfully are cleared from the pending map.
func (l *Library) CommitPending() domain.BatchResult {
	paths := make([]string, 0, len(l.pending))
	for p := range l.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var res domain.BatchResult
	for _, path := range paths {
		if err := l.CommitCaption(path, l.pending[path]); err != nil {
			res.Failures = append(res.Failures, domain.ItemFailure{Path: path, Err: err})
			continue
		}
		res.Processed++
	}

	return res
}
