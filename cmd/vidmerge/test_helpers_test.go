package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vidmerge/internal/config"
	"vidmerge/internal/testsupport"
)

// fakeFFmpeg decodes every recording to two 2x1 frames and, when reading
// from stdin, copies the raw stream into the output path.
const fakeFFmpeg = `for arg; do last="$arg"; done
case " $* " in
  *" -i - "*) cat > "$last" ;;
  *) printf 'abcdefghijkl' ;;
esac
`

const fakeFFprobe = `cat <<'JSON'
{"streams":[{"index":0,"codec_type":"video","codec_name":"mjpeg","width":2,"height":1,"nb_frames":"2","r_frame_rate":"50/1"}],"format":{"nb_streams":1}}
JSON
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	binDir     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithCameras("Camera_1", "Camera_2"))
	binDir := filepath.Join(testsupport.BaseDir(cfg), "bin")
	cfg.FFmpeg.FFmpegBinary = testsupport.StubBinary(t, binDir, "ffmpeg", fakeFFmpeg)
	cfg.FFmpeg.FFprobeBinary = testsupport.StubBinary(t, binDir, "ffprobe", fakeFFprobe)
	cfg.FFmpeg.FFplayBinary = filepath.Join(binDir, "ffplay")
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, binDir: binDir}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeSession creates one recording per camera for sessionID.
func (e *cliTestEnv) writeSession(t *testing.T, sessionID string, cameras ...string) {
	t.Helper()
	for i, camera := range cameras {
		take := "C00" + string(rune('1'+i)) + "H001S0001"
		testsupport.WriteRecording(t, e.cfg.Paths.DataDir, camera+"_"+take+"_"+sessionID, take, "clip.avi")
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
