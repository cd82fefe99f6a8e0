package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMerge()
	c.normalizeFFmpeg()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		if value, ok := os.LookupEnv(DataDirEnv); ok {
			c.Paths.DataDir = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMerge() {
	cameras := make([]string, 0, len(c.Merge.Cameras))
	for _, camera := range c.Merge.Cameras {
		if trimmed := strings.TrimSpace(camera); trimmed != "" {
			cameras = append(cameras, trimmed)
		}
	}
	c.Merge.Cameras = cameras
	c.Merge.Prefix = strings.TrimSpace(c.Merge.Prefix)
	if c.Merge.Prefix == "" {
		c.Merge.Prefix = defaultPrefix
	}
	c.Merge.InputExt = normalizeExt(c.Merge.InputExt)
	c.Merge.OutputExt = normalizeExt(c.Merge.OutputExt)
	c.Merge.FourCC = strings.TrimSpace(c.Merge.FourCC)
	c.Merge.HeightPolicy = strings.ToLower(strings.TrimSpace(c.Merge.HeightPolicy))
	if c.Merge.HeightPolicy == "" {
		c.Merge.HeightPolicy = defaultHeightPolicy
	}
	c.Merge.Backend = strings.ToLower(strings.TrimSpace(c.Merge.Backend))
	if c.Merge.Backend == "" {
		c.Merge.Backend = defaultBackend
	}
}

// normalizeExt accepts "avi" as shorthand for ".avi".
func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return defaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.FFmpegBinary = defaultIfBlank(c.FFmpeg.FFmpegBinary, defaultFFmpegBinary)
	c.FFmpeg.FFprobeBinary = defaultIfBlank(c.FFmpeg.FFprobeBinary, defaultFFprobeBinary)
	c.FFmpeg.FFplayBinary = defaultIfBlank(c.FFmpeg.FFplayBinary, defaultFFplayBinary)
}

func defaultIfBlank(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
