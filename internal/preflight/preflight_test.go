package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidmerge/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryReadable(t *testing.T) {
	result := CheckDirectoryReadable("test", t.TempDir())
	if !result.Passed || !strings.Contains(result.Detail, "read ok") {
		t.Fatalf("expected readable temp dir, got: %+v", result)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func minimalConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.StateDir = t.TempDir()
	return &cfg
}

func TestRunAll_SkipsStateDirWithoutHistory(t *testing.T) {
	cfg := minimalConfig(t)
	if got := len(RunAll(cfg)); got != 3 {
		t.Fatalf("expected 3 results with history, got %d", got)
	}
	cfg.History.Enabled = false
	results := RunAll(cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results without history, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestReadyReportsMissingBinaries(t *testing.T) {
	cfg := minimalConfig(t)
	binDir := t.TempDir()
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	cfg.FFmpeg.FFmpegBinary = filepath.Join(binDir, "ffmpeg")
	cfg.FFmpeg.FFprobeBinary = filepath.Join(binDir, "ffprobe")
	cfg.FFmpeg.FFplayBinary = filepath.Join(binDir, "ffplay")

	if err := Ready(cfg); err != nil {
		t.Fatalf("expected ready without preview, got %v", err)
	}

	cfg.Merge.Preview = true
	err := Ready(cfg)
	if err == nil || !strings.Contains(err.Error(), "FFplay") {
		t.Fatalf("expected missing FFplay, got %v", err)
	}

	cfg.Merge.Backend = "opencv"
	if err := Ready(cfg); err != nil {
		t.Fatalf("opencv backend needs no helper binaries, got %v", err)
	}
}

func TestReadyReportsMissingDataDir(t *testing.T) {
	cfg := minimalConfig(t)
	cfg.Merge.Backend = "opencv"
	cfg.Paths.DataDir = filepath.Join(cfg.Paths.DataDir, "absent")
	err := Ready(cfg)
	if err == nil || !strings.Contains(err.Error(), "Data directory") {
		t.Fatalf("expected data directory failure, got %v", err)
	}
}
