package deps

import (
	"os"
	"path/filepath"
	"testing"

	"vidmerge/internal/config"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	present := writeStub(t, t.TempDir(), "present")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for blank command: %#v", results[2])
	}
}

func TestMediaRequirementsPreviewMakesViewerRequired(t *testing.T) {
	cfg := config.FFmpeg{FFmpegBinary: "ffmpeg", FFprobeBinary: "ffprobe", FFplayBinary: "ffplay"}

	without := MediaRequirements(cfg, false)
	if len(without) != 3 || !without[2].Optional {
		t.Fatalf("expected optional ffplay without preview, got %#v", without)
	}
	with := MediaRequirements(cfg, true)
	if with[2].Optional {
		t.Fatalf("expected ffplay to be required with preview")
	}
}

func TestMissingSkipsOptional(t *testing.T) {
	dir := t.TempDir()
	cfg := config.FFmpeg{
		FFmpegBinary:  writeStub(t, dir, "ffmpeg"),
		FFprobeBinary: filepath.Join(dir, "absent-ffprobe"),
		FFplayBinary:  filepath.Join(dir, "absent-ffplay"),
	}

	missing := Missing(CheckBinaries(MediaRequirements(cfg, false)))
	if len(missing) != 1 || missing[0].Name != "FFprobe" {
		t.Fatalf("expected only FFprobe missing, got %#v", missing)
	}

	missing = Missing(CheckBinaries(MediaRequirements(cfg, true)))
	if len(missing) != 2 {
		t.Fatalf("expected FFprobe and FFplay missing with preview, got %#v", missing)
	}
}
