package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vidmerge/internal/session"
	"vidmerge/internal/testsupport"
)

const sessionID = "20221122_171306"

func TestDiscoverReturnsOneSourcePerCameraInOrder(t *testing.T) {
	data := t.TempDir()
	cam1 := filepath.Join(data, "Camera_1_C001H001S0001_"+sessionID, "C001H001S0001", "clip.avi")
	cam2 := filepath.Join(data, "Camera_2_C002H001S0001_"+sessionID, "C002H001S0001", "clip.avi")
	testsupport.WriteFile(t, cam1, 16)
	testsupport.WriteFile(t, cam2, 16)
	testsupport.WriteFile(t, filepath.Join(data, "Camera_2_C002H001S0001_"+sessionID, "C002H001S0001", "notes.txt"), 4)

	sources, err := session.Discover(session.Query{
		SessionID: sessionID,
		DataDir:   data,
		Cameras:   []string{"Camera_2", "Camera_1"},
		InputExt:  ".avi",
	})
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Camera != "Camera_2" || sources[0].Path != cam2 {
		t.Fatalf("unexpected first source: %+v", sources[0])
	}
	if sources[1].Camera != "Camera_1" || sources[1].Path != cam1 {
		t.Fatalf("unexpected second source: %+v", sources[1])
	}
}

func TestDiscoverAcceptsSessionFirstFolderLayout(t *testing.T) {
	data := t.TempDir()
	path := filepath.Join(data, "Camera_1_"+sessionID+"_take1", "take", "clip.avi")
	testsupport.WriteFile(t, path, 8)

	sources, err := session.Discover(session.Query{SessionID: sessionID, DataDir: data, Cameras: []string{"Camera_1"}, InputExt: ".avi"})
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if sources[0].Path != path {
		t.Fatalf("unexpected path %q", sources[0].Path)
	}
}

func TestDiscoverMissingCamera(t *testing.T) {
	data := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(data, "Camera_1_x_"+sessionID, "a", "clip.avi"), 8)

	_, err := session.Discover(session.Query{SessionID: sessionID, DataDir: data, Cameras: []string{"Camera_1", "Camera_2"}, InputExt: ".avi"})
	if !errors.Is(err, session.ErrSourceNotFound) {
		t.Fatalf("expected session.ErrSourceNotFound, got %v", err)
	}
}

func TestDiscoverAmbiguousCamera(t *testing.T) {
	data := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(data, "Camera_1_x_"+sessionID, "a", "one.avi"), 8)
	testsupport.WriteFile(t, filepath.Join(data, "Camera_1_x_"+sessionID, "a", "two.avi"), 8)

	_, err := session.Discover(session.Query{SessionID: sessionID, DataDir: data, Cameras: []string{"Camera_1"}, InputExt: ".avi"})
	if !errors.Is(err, session.ErrAmbiguousSource) {
		t.Fatalf("expected session.ErrAmbiguousSource, got %v", err)
	}
}

func TestDiscoverRejectsDuplicateCameras(t *testing.T) {
	_, err := session.Discover(session.Query{SessionID: sessionID, DataDir: t.TempDir(), Cameras: []string{"A", "A"}, InputExt: ".avi"})
	if err == nil {
		t.Fatal("expected duplicate camera error")
	}
}

func TestDiscoverTreatsGlobCharactersLiterally(t *testing.T) {
	data := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(data, "CamX_x_"+sessionID, "a", "clip.avi"), 8)

	_, err := session.Discover(session.Query{SessionID: sessionID, DataDir: data, Cameras: []string{"Cam?"}, InputExt: ".avi"})
	if !errors.Is(err, session.ErrSourceNotFound) {
		t.Fatalf("expected literal match to fail, got %v", err)
	}
}

func TestPlanOutputAndEnsureIsIdempotent(t *testing.T) {
	data := t.TempDir()
	out, err := session.PlanOutput(data, "combined", sessionID, ".avi")
	if err != nil {
		t.Fatalf("PlanOutput returned error: %v", err)
	}
	wantDir := filepath.Join(data, "combined_"+sessionID)
	if out.Dir != wantDir {
		t.Fatalf("unexpected dir %q", out.Dir)
	}
	if out.Path() != filepath.Join(wantDir, "combined_"+sessionID+".avi") {
		t.Fatalf("unexpected path %q", out.Path())
	}

	if err := out.Ensure(); err != nil {
		t.Fatalf("first Ensure returned error: %v", err)
	}
	if err := out.Ensure(); err != nil {
		t.Fatalf("second Ensure returned error: %v", err)
	}
	if info, err := os.Stat(wantDir); err != nil || !info.IsDir() {
		t.Fatalf("expected output directory to exist: %v", err)
	}
}

func TestEnsureRejectsFileInPlaceOfDirectory(t *testing.T) {
	data := t.TempDir()
	out, err := session.PlanOutput(data, "combined", sessionID, ".avi")
	if err != nil {
		t.Fatalf("PlanOutput returned error: %v", err)
	}
	testsupport.WriteFile(t, out.Dir, 1)
	if err := out.Ensure(); err == nil {
		t.Fatal("expected error when output dir is a file")
	}
}

func TestPlanOutputRejectsSeparators(t *testing.T) {
	if _, err := session.PlanOutput(t.TempDir(), "a/b", sessionID, ".avi"); err == nil {
		t.Fatal("expected separator error")
	}
}

func TestAcquireLockIsExclusive(t *testing.T) {
	out := session.Output{Dir: t.TempDir(), Name: "merged.avi"}

	first, err := session.AcquireLock(out)
	if err != nil {
		t.Fatalf("AcquireLock returned error: %v", err)
	}
	if _, err := session.AcquireLock(out); !errors.Is(err, session.ErrLocked) {
		t.Fatalf("expected session.ErrLocked, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	second, err := session.AcquireLock(out)
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	_ = second.Release()
}
