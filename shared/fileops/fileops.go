// Package fileops provides the file move/copy primitives shared by the
// caption store and the batch executor.
package fileops

import (
	"io"
	"os"
)

// Move renames src to dest, falling back to copy-and-delete for
// cross-device moves.
func Move(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	if err := Copy(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

// Copy duplicates src at dest, preserving the file mode and modification
// time where possible.
func Copy(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	if err := out.Close(); err != nil {
		return err
	}

	// Best effort; a dest filesystem without time support is fine.
	os.Chtimes(dest, info.ModTime(), info.ModTime())

	return nil
}
