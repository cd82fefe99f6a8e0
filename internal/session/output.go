package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Output is the resolved destination for a merged video.
type Output struct {
	Dir  string
	Name string
}

// Path returns the full path of the merged video file.
func (o Output) Path() string {
	return filepath.Join(o.Dir, o.Name)
}

// PlanOutput derives <dataDir>/<prefix>_<session>/<prefix>_<session><ext>.
func PlanOutput(dataDir, prefix, sessionID, ext string) (Output, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Output{}, errors.New("plan output: data directory is required")
	}
	if strings.TrimSpace(sessionID) == "" {
		return Output{}, errors.New("plan output: session id is required")
	}
	if strings.ContainsAny(prefix+sessionID, `/\`) {
		return Output{}, fmt.Errorf("plan output: prefix %q and session id %q must not contain path separators", prefix, sessionID)
	}
	base := sessionID
	if prefix != "" {
		base = prefix + "_" + sessionID
	}
	return Output{
		Dir:  filepath.Join(dataDir, base),
		Name: base + ext,
	}, nil
}

// Ensure creates the output directory when absent. Calling it again for the
// same session is a no-op.
func (o Output) Ensure() error {
	info, err := os.Stat(o.Dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("output path %q exists and is not a directory", o.Dir)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat output directory: %w", err)
	}
	if err := os.MkdirAll(o.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", o.Dir, err)
	}
	return nil
}
