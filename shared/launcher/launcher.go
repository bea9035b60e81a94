// Package launcher hands an image off to an external application through
// the operating system's native open mechanism.
package launcher

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches app with the image at path. The process is started and
// left alone: no output is captured and no exit status is awaited. The
// returned error only reports a failure to start.
func Open(path, app string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// The empty string is the window title slot of the start builtin.
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", "-a", app, path)
	default:
		cmd = exec.Command(app, path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s with %s: %w", path, app, err)
	}

	return nil
}
