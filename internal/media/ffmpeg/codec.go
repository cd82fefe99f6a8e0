package ffmpeg

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

type codecSpec struct {
	encoder string
	pixFmt  string
}

var fourccCodecs = map[string]codecSpec{
	"MJPG": {encoder: "mjpeg", pixFmt: "yuvj420p"},
	"XVID": {encoder: "mpeg4", pixFmt: "yuv420p"},
	"DIVX": {encoder: "mpeg4", pixFmt: "yuv420p"},
	"DX50": {encoder: "mpeg4", pixFmt: "yuv420p"},
	"FMP4": {encoder: "mpeg4", pixFmt: "yuv420p"},
	"MP4V": {encoder: "mpeg4", pixFmt: "yuv420p"},
	"H264": {encoder: "libx264", pixFmt: "yuv420p"},
	"X264": {encoder: "libx264", pixFmt: "yuv420p"},
	"AVC1": {encoder: "libx264", pixFmt: "yuv420p"},
	"FFV1": {encoder: "ffv1", pixFmt: "bgr0"},
	"HFYU": {encoder: "huffyuv", pixFmt: "rgb24"},
}

// SupportedFourCCs lists the codes the encoder mapping understands.
func SupportedFourCCs() []string {
	return slices.Sorted(maps.Keys(fourccCodecs))
}

// encoderArgs maps a fourcc onto ffmpeg encoder arguments. The fourcc is also
// written as the stream tag for AVI output, where players rely on it.
func encoderArgs(fourcc, outputPath string) ([]string, error) {
	spec, ok := fourccCodecs[strings.ToUpper(fourcc)]
	if !ok {
		return nil, fmt.Errorf("unsupported fourcc %q (supported: %s)", fourcc, strings.Join(SupportedFourCCs(), ", "))
	}
	args := []string{"-c:v", spec.encoder, "-pix_fmt", spec.pixFmt}
	if spec.encoder == "mjpeg" {
		args = append(args, "-q:v", "3")
	}
	if strings.EqualFold(filepath.Ext(outputPath), ".avi") {
		args = append(args, "-vtag", fourcc)
	}
	return args, nil
}
