package main

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"vidmerge/internal/config"
	"vidmerge/internal/media/ffmpeg"
	"vidmerge/internal/merge"
)

type backendFactory func(cfg *config.Config, logger *slog.Logger) merge.Backend

// backendFactories holds the backends compiled into this binary. The OpenCV
// backend registers itself when built with the gocv tag.
var backendFactories = map[string]backendFactory{
	ffmpeg.Name: func(cfg *config.Config, logger *slog.Logger) merge.Backend {
		return ffmpeg.New(ffmpeg.BinariesFromConfig(cfg.FFmpeg), logger)
	},
}

func newBackend(name string, cfg *config.Config, logger *slog.Logger) (merge.Backend, error) {
	factory, ok := backendFactories[name]
	if !ok {
		if slices.Contains(config.Backends, name) {
			return nil, fmt.Errorf("backend %q is not compiled into this binary (rebuild with -tags gocv)", name)
		}
		return nil, fmt.Errorf("unknown backend %q (available: %v)", name, availableBackends())
	}
	return factory(cfg, logger), nil
}

func availableBackends() []string {
	return slices.Sorted(maps.Keys(backendFactories))
}
