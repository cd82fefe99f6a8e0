package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "mjpeg", "codec_type": "video", "codec_tag_string": "MJPG",
     "pix_fmt": "yuvj420p", "width": 640, "height": 480, "nb_frames": "10",
     "r_frame_rate": "50/1", "avg_frame_rate": "50/1"}
  ],
  "format": {"filename": "clip.avi", "nb_streams": 1, "duration": "0.200000", "size": "123456", "format_name": "avi"}
}`

func TestParseVideoStream(t *testing.T) {
	result, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	stream, err := result.VideoStream()
	if err != nil {
		t.Fatalf("VideoStream returned error: %v", err)
	}
	if stream.Width != 640 || stream.Height != 480 {
		t.Fatalf("unexpected dimensions %dx%d", stream.Width, stream.Height)
	}
	if stream.FrameCount() != 10 {
		t.Fatalf("unexpected frame count %d", stream.FrameCount())
	}
	if stream.FrameRate() != 50 {
		t.Fatalf("unexpected frame rate %v", stream.FrameRate())
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("unexpected video stream count %d", result.VideoStreamCount())
	}
	if got := result.DurationSeconds(); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("unexpected duration %v", got)
	}
}

func TestVideoStreamMissing(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio"}}}
	if _, err := result.VideoStream(); !errors.Is(err, ErrNoVideoStream) {
		t.Fatalf("expected ErrNoVideoStream, got %v", err)
	}
}

func TestStreamHelpersHandleMissingValues(t *testing.T) {
	stream := Stream{NBFrames: "N/A", RFrameRate: "0/0", AvgFrameRate: "30000/1001"}
	if stream.FrameCount() != 0 {
		t.Fatalf("expected frame count 0, got %d", stream.FrameCount())
	}
	if got := stream.FrameRate(); math.Abs(got-29.97) > 0.01 {
		t.Fatalf("expected avg frame rate fallback, got %v", got)
	}
	if (Stream{}).FrameRate() != 0 {
		t.Fatal("expected zero frame rate for empty stream")
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
}

func TestInspectUsesConfiguredBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}
	dir := t.TempDir()
	payload := filepath.Join(dir, "probe.json")
	if err := os.WriteFile(payload, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat " + payload + "\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, "clip.avi")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.Format.FormatName != "avi" {
		t.Fatalf("unexpected format %q", result.Format.FormatName)
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
