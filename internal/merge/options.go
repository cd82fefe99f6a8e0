package merge

import (
	"errors"
	"fmt"
	"strings"

	"vidmerge/internal/config"
	"vidmerge/internal/frame"
)

// Options are the per-invocation merge parameters.
type Options struct {
	SessionID    string
	DataDir      string
	Cameras      []string
	FPS          int
	Prefix       string
	InputExt     string
	OutputExt    string
	FourCC       string
	Preview      bool
	HeightPolicy frame.HeightPolicy
}

// OptionsFromConfig seeds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, sessionID string) Options {
	policy, err := frame.ParseHeightPolicy(cfg.Merge.HeightPolicy)
	if err != nil {
		policy = frame.HeightStrict
	}
	return Options{
		SessionID:    strings.TrimSpace(sessionID),
		DataDir:      cfg.Paths.DataDir,
		Cameras:      append([]string(nil), cfg.Merge.Cameras...),
		FPS:          cfg.Merge.FPS,
		Prefix:       cfg.Merge.Prefix,
		InputExt:     cfg.Merge.InputExt,
		OutputExt:    cfg.Merge.OutputExt,
		FourCC:       cfg.Merge.FourCC,
		Preview:      cfg.Merge.Preview,
		HeightPolicy: policy,
	}
}

// Validate checks the options before any filesystem access.
func (o Options) Validate() error {
	if strings.TrimSpace(o.SessionID) == "" {
		return errors.New("session id is required")
	}
	if strings.TrimSpace(o.DataDir) == "" {
		return errors.New("data directory is required")
	}
	if len(o.Cameras) == 0 {
		return errors.New("at least one camera is required")
	}
	if o.FPS <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", o.FPS)
	}
	if len(o.FourCC) != 4 {
		return fmt.Errorf("fourcc must be exactly four characters, got %q", o.FourCC)
	}
	if !strings.HasPrefix(o.InputExt, ".") || !strings.HasPrefix(o.OutputExt, ".") {
		return fmt.Errorf("extensions must start with a dot (input %q, output %q)", o.InputExt, o.OutputExt)
	}
	if _, err := frame.ParseHeightPolicy(string(o.HeightPolicy)); err != nil {
		return err
	}
	return nil
}
