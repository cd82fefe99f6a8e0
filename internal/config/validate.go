package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Backends lists the merge backend names the configuration accepts.
var Backends = []string{"ffmpeg", "opencv"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("paths.data_dir must be set (or export %s)", DataDirEnv)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateMerge() error {
	m := c.Merge
	if len(m.Cameras) == 0 {
		return errors.New("merge.cameras must list at least one camera")
	}
	seen := make(map[string]struct{}, len(m.Cameras))
	for _, camera := range m.Cameras {
		if _, dup := seen[camera]; dup {
			return fmt.Errorf("merge.cameras lists %q more than once", camera)
		}
		seen[camera] = struct{}{}
	}
	if m.FPS <= 0 {
		return errors.New("merge.fps must be positive")
	}
	if strings.ContainsAny(m.Prefix, `/\`) {
		return fmt.Errorf("merge.prefix %q must not contain path separators", m.Prefix)
	}
	if len(m.FourCC) != 4 {
		return fmt.Errorf("merge.fourcc must be exactly four characters, got %q", m.FourCC)
	}
	switch m.HeightPolicy {
	case "strict", "pad":
	default:
		return fmt.Errorf("merge.height_policy must be strict or pad, got %q", m.HeightPolicy)
	}
	if !slices.Contains(Backends, m.Backend) {
		return fmt.Errorf("merge.backend must be one of %s, got %q", strings.Join(Backends, ", "), m.Backend)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
