package preflight

import (
	"fmt"
	"strings"

	"vidmerge/internal/config"
	"vidmerge/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	// Session output directories are created under the data directory.
	results := []Result{CheckDirectoryAccess("Data directory", cfg.Paths.DataDir)}
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}
	return results
}

// Ready runs every check and returns an error describing the first blocking
// problems, or nil when a merge can start.
func Ready(cfg *config.Config) error {
	var problems []string
	for _, r := range RunAll(cfg) {
		if !r.Passed {
			problems = append(problems, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	for _, s := range deps.Missing(CheckSystemDeps(cfg)) {
		problems = append(problems, fmt.Sprintf("%s: %s", s.Name, s.Detail))
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(problems, "; "))
}
