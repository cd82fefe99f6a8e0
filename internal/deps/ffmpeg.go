package deps

import (
	"github.com/samber/lo"

	"vidmerge/internal/config"
)

// MediaRequirements lists the helper binaries the ffmpeg backend runs. The
// viewer is only required when the preview window is enabled.
func MediaRequirements(cfg config.FFmpeg, preview bool) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary,
			Description: "Decodes recordings and encodes the merged output",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary,
			Description: "Reads frame size and count of each recording",
		},
		{
			Name:        "FFplay",
			Command:     cfg.FFplayBinary,
			Description: "Shows the live preview window",
			Optional:    !preview,
		},
	}
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	return lo.Filter(statuses, func(s Status, _ int) bool {
		return !s.Available && !s.Optional
	})
}
