package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/picshelf/picshelf/gallery/domain"
	"github.com/picshelf/picshelf/shared/fileops"

	"github.com/rs/zerolog/log"
)

// ExecuteBatch applies one operation to every candidate path and reports
// how many succeeded. Per-item failures are logged and collected; the run
// always completes its full pass.
//
// File operations (move, copy, delete) act on disk immediately and carry
// the caption sidecar along with the image. Caption operations only stage
// pending edits; CommitPending flushes them.
func (l *Library) ExecuteBatch(op domain.Operation, paths []string, params domain.BatchParams) domain.BatchResult {
	var res domain.BatchResult

	if op == domain.OpMove || op == domain.OpCopy {
		if !destDirExists(params.DestDir) {
			log.Warn().Str("dest", params.DestDir).Msg("Destination folder missing, skipping all items")
			return res
		}
	}

	for _, path := range paths {
		processed, err := l.runItem(op, path, params)
		if err != nil {
			log.Error().Err(err).Str("path", path).Str("operation", string(op)).Msg("Failed to process image")
			res.Failures = append(res.Failures, domain.ItemFailure{Path: path, Err: err})
			continue
		}
		if processed {
			res.Processed++
		}
	}

	return res
}

// runItem processes one path. The bool reports whether the item counts as
// processed; skipped items return (false, nil).
func (l *Library) runItem(op domain.Operation, path string, params domain.BatchParams) (bool, error) {
	switch op {
	case domain.OpMove:
		return true, l.moveImage(path, params.DestDir)
	case domain.OpCopy:
		return true, l.copyImage(path, params.DestDir)
	case domain.OpDelete:
		return true, l.deleteImage(path)
	case domain.OpSetCaption, domain.OpAppendCaption, domain.OpPrependCaption,
		domain.OpClearCaption, domain.OpReplaceCaption:
		return l.stageCaptionEdit(op, path, params)
	default:
		return false, fmt.Errorf("unknown operation %q", op)
	}
}

// stageCaptionEdit computes the new caption for one image and stages it as
// a pending edit. The selection policy and the no-op check can both skip
// an item without failing it.
func (l *Library) stageCaptionEdit(op domain.Operation, path string, params domain.BatchParams) (bool, error) {
	// Force the record into existence so the current caption is known.
	if _, err := l.Info(path); err != nil {
		return false, err
	}

	current := l.Caption(path)

	if !selectedByPolicy(path, current, params) {
		return false, nil
	}

	var next string
	switch op {
	case domain.OpSetCaption:
		next = params.Text
	case domain.OpAppendCaption:
		next = current + params.Text
	case domain.OpPrependCaption:
		next = params.Text + current
	case domain.OpClearCaption:
		next = ""
	case domain.OpReplaceCaption:
		if params.Search == "" {
			return false, nil
		}
		if params.MatchCase {
			next = strings.ReplaceAll(current, params.Search, params.Replace)
		} else {
			next = replaceFold(current, params.Search, params.Replace)
		}
		if next == current {
			return false, nil
		}
	}

	l.StagePending(path, next)
	return true, nil
}

func selectedByPolicy(path, caption string, params domain.BatchParams) bool {
	switch params.Policy {
	case domain.ApplySelected:
		return params.Selected[path]
	case domain.ApplyCaptioned:
		return strings.TrimSpace(caption) != ""
	default:
		return true
	}
}

func (l *Library) moveImage(path, destDir string) error {
	dest := filepath.Join(destDir, filepath.Base(path))
	if err := fileops.Move(path, dest); err != nil {
		return fmt.Errorf("failed to move %s: %w", path, err)
	}

	if err := l.captions.Move(path, destDir); err != nil {
		return err
	}

	if err := l.cache.Rename(path, dest); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to persist metadata cache")
	}

	// A staged edit follows its image.
	if text, ok := l.pending[path]; ok {
		delete(l.pending, path)
		l.pending[dest] = text
	}

	return nil
}

func (l *Library) copyImage(path, destDir string) error {
	dest := filepath.Join(destDir, filepath.Base(path))
	if err := fileops.Copy(path, dest); err != nil {
		return fmt.Errorf("failed to copy %s: %w", path, err)
	}

	// The copy gets its own cache record on first read; nothing to do here.
	return l.captions.Copy(path, destDir)
}

func (l *Library) deleteImage(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}

	if err := l.captions.Remove(path); err != nil {
		return err
	}

	if err := l.cache.Remove(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to persist metadata cache")
	}

	delete(l.pending, path)
	return nil
}

func destDirExists(dir string) bool {
	if dir == "" {
		return false
	}
	fi, err := os.Stat(dir)
	return err == nil && fi.IsDir()
}

// replaceFold replaces every occurrence of old in s, ignoring case, with new.
func replaceFold(s, old, new string) string {
	if old == "" {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		if len(s)-i >= len(old) && strings.EqualFold(s[i:i+len(old)], old) {
			b.WriteString(new)
			i += len(old)
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}
