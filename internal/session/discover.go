package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
)

var (
	// ErrSourceNotFound indicates a camera with no matching input file.
	ErrSourceNotFound = errors.New("source not found")
	// ErrAmbiguousSource indicates a camera with more than one matching input file.
	ErrAmbiguousSource = errors.New("ambiguous source")
)

// Query describes what to look for in the data directory.
type Query struct {
	SessionID string
	DataDir   string
	Cameras   []string
	InputExt  string
}

// Source is one discovered camera recording.
type Source struct {
	Camera string
	Path   string
}

// Discover locates one input file per camera. Sources are returned in the
// order of q.Cameras.
func Discover(q Query) ([]Source, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	sources := make([]Source, 0, len(q.Cameras))
	for _, camera := range q.Cameras {
		matches, err := cameraMatches(q, camera)
		if err != nil {
			return nil, err
		}
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("%w: camera %s has no %s file for session %s under %s",
				ErrSourceNotFound, camera, q.InputExt, q.SessionID, q.DataDir)
		case 1:
			sources = append(sources, Source{Camera: camera, Path: matches[0]})
		default:
			return nil, fmt.Errorf("%w: camera %s matched %d files for session %s: %s",
				ErrAmbiguousSource, camera, len(matches), q.SessionID, strings.Join(matches, ", "))
		}
	}
	return sources, nil
}

// Patterns returns the glob patterns searched for a camera. Recordings live in
// <camera>_*_<session>/*/ as written by the acquisition software; the
// <camera>_<session>_* folder form is accepted as well.
func Patterns(q Query, camera string) []string {
	ext := q.InputExt
	return []string{
		filepath.Join(q.DataDir, fmt.Sprintf("%s_*_%s", escapeGlob(camera), escapeGlob(q.SessionID)), "*", "*"+escapeGlob(ext)),
		filepath.Join(q.DataDir, fmt.Sprintf("%s_%s_*", escapeGlob(camera), escapeGlob(q.SessionID)), "*", "*"+escapeGlob(ext)),
	}
}

func cameraMatches(q Query, camera string) ([]string, error) {
	var all []string
	for _, pattern := range Patterns(q, camera) {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		all = append(all, matches...)
	}
	all = lo.Uniq(all)
	sort.Strings(all)
	return all, nil
}

func (q Query) validate() error {
	if strings.TrimSpace(q.SessionID) == "" {
		return errors.New("discover: session id is required")
	}
	if strings.TrimSpace(q.DataDir) == "" {
		return errors.New("discover: data directory is required")
	}
	if len(q.Cameras) == 0 {
		return errors.New("discover: at least one camera is required")
	}
	if dup := lo.FindDuplicates(q.Cameras); len(dup) > 0 {
		return fmt.Errorf("discover: duplicate camera names: %s", strings.Join(dup, ", "))
	}
	return nil
}

// escapeGlob quotes glob metacharacters so names are matched literally.
func escapeGlob(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch r {
		case '*', '?', '[', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
