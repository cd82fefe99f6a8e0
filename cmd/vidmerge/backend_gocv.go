//go:build gocv

package main

import (
	"log/slog"

	"vidmerge/internal/config"
	"vidmerge/internal/media/opencv"
	"vidmerge/internal/merge"
)

func init() {
	backendFactories[opencv.Name] = func(_ *config.Config, logger *slog.Logger) merge.Backend {
		return opencv.New(logger)
	}
}
