package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"vidmerge/internal/config"
	"vidmerge/internal/logging"
	"vidmerge/internal/merge"
)

// Name is the backend identifier used in configuration.
const Name = "ffmpeg"

// Binaries names the external executables the backend runs.
type Binaries struct {
	FFmpeg  string
	FFprobe string
	FFplay  string
}

// BinariesFromConfig resolves the configured executables, falling back to the
// plain tool names.
func BinariesFromConfig(cfg config.FFmpeg) Binaries {
	return Binaries{
		FFmpeg:  fallback(cfg.FFmpegBinary, "ffmpeg"),
		FFprobe: fallback(cfg.FFprobeBinary, "ffprobe"),
		FFplay:  fallback(cfg.FFplayBinary, "ffplay"),
	}
}

func fallback(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}

// Backend implements merge.Backend with ffmpeg, ffprobe, and ffplay.
type Backend struct {
	bins   Binaries
	logger *slog.Logger
}

// New constructs a backend using the provided binaries.
func New(bins Binaries, logger *slog.Logger) *Backend {
	return &Backend{bins: bins, logger: logging.NewComponentLogger(logger, "ffmpeg")}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) OpenSource(ctx context.Context, path string) (merge.Source, error) {
	r, err := OpenReader(ctx, b.bins, path)
	if err != nil {
		return nil, err
	}
	logger := logging.WithContext(ctx, b.logger)
	logger.Debug("decoder started", logging.Args(
		logging.String("path", path),
		logging.Int("width", r.dims.Width),
		logging.Int("height", r.dims.Height),
		logging.Int("frames", r.frames),
		logging.String("rate", fmt.Sprintf("%.3f", r.rate)),
	)...)
	if r.streams > 1 {
		logger.Info("source has multiple video streams; using the first", logging.Args(
			logging.String("path", path),
			logging.Int("video_streams", r.streams),
		)...)
	}
	return r, nil
}

func (b *Backend) OpenSink(ctx context.Context, path string, spec merge.SinkSpec) (merge.Sink, error) {
	w, err := OpenWriter(b.bins, path, spec)
	if err != nil {
		return nil, err
	}
	logging.WithContext(ctx, b.logger).Debug("encoder started", logging.Args(
		logging.String("path", path),
		logging.String("fourcc", spec.FourCC),
	)...)
	return w, nil
}

func (b *Backend) OpenPreview(ctx context.Context, spec merge.PreviewSpec) (merge.Preview, error) {
	p, err := OpenPreview(b.bins, spec)
	if err != nil {
		return nil, err
	}
	logging.WithContext(ctx, b.logger).Debug("preview started", logging.Args(
		logging.String("title", spec.Title),
	)...)
	return p, nil
}

var _ merge.Backend = (*Backend)(nil)
