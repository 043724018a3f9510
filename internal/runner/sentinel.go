package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// SentinelPath stores the Dockerfile modification time from the previous
// run, relative to the module root. It holds a single floating-point Unix
// timestamp as plain text and is rewritten on every invocation.
const SentinelPath = "build/.dockerfile_modified"

// dockerfileModified reports whether the module's Dockerfile has been
// modified since the previous run and records the current modification time
// for the next one. A missing sentinel file reads as not modified; the first
// run builds anyway because the image does not exist yet. Not safe under
// concurrent invocation.
func dockerfileModified(dir string) (bool, error) {
	info, err := os.Stat(filepath.Join(dir, "Dockerfile"))
	if err != nil {
		return false, fmt.Errorf("failed to stat Dockerfile: %w", err)
	}
	mtime := float64(info.ModTime().UnixNano()) / float64(time.Second)

	sentinelPath := filepath.Join(dir, filepath.FromSlash(SentinelPath))
	modified := false
	if data, err := os.ReadFile(sentinelPath); err == nil {
		prev, parseErr := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
		if parseErr != nil {
			prev = 0
		}
		modified = mtime > prev
	}

	if err := os.MkdirAll(filepath.Dir(sentinelPath), 0750); err != nil {
		return false, fmt.Errorf("failed to create build directory: %w", err)
	}
	contents := strconv.FormatFloat(mtime, 'f', -1, 64)
	if err := os.WriteFile(sentinelPath, []byte(contents), 0644); err != nil {
		return false, fmt.Errorf("failed to write modification sentinel: %w", err)
	}

	return modified, nil
}
