package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"vidmerge/internal/deps"
	"vidmerge/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusError, "binary not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "FFmpeg:", "[ERROR] binary not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusOK, "Ready", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "FFmpeg", Available: true, Command: "/usr/bin/ffmpeg"},
		{Name: "FFprobe", Available: false, Detail: `binary "ffprobe" not found`},
		{Name: "FFplay", Available: false, Optional: true, Description: "Shows the live preview window"},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[OK] Ready (command: /usr/bin/ffmpeg)") {
		t.Fatalf("unexpected ready line %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR]") {
		t.Fatalf("expected error for required binary, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[WARN] not available (optional") {
		t.Fatalf("expected warning for optional binary, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "Missing:") || !strings.Contains(lines[3], "FFprobe") || strings.Contains(lines[3], "FFplay") {
		t.Fatalf("unexpected summary %q", lines[3])
	}
}

func TestDirectoryLines(t *testing.T) {
	lines := directoryLines([]preflight.Result{
		{Name: "Data directory", Passed: true, Detail: "/data (read/write ok)"},
		{Name: "Log directory", Detail: "/logs (error: does not exist)"},
	}, false)
	if !strings.Contains(lines[0], "[OK]") || !strings.Contains(lines[1], "[ERROR]") {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]tableColumn{{Header: "Camera"}, {Header: "Frames", Align: alignRight}}, [][]string{{"Camera_1"}})
	if !strings.Contains(out, "Camera_1") || !strings.Contains(strings.ToUpper(out), "FRAMES") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil) != "" {
		t.Fatal("expected empty output without columns")
	}
}
