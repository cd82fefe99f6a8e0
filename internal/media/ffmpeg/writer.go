package ffmpeg

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"vidmerge/internal/frame"
	"vidmerge/internal/merge"
)

// Writer encodes merged frames into the output container.
type Writer struct {
	path   string
	spec   merge.SinkSpec
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *tailBuffer
	closed bool
}

// OpenWriter starts an encoder writing to path. An existing file is replaced.
func OpenWriter(bins Binaries, path string, spec merge.SinkSpec) (*Writer, error) {
	if spec.Width <= 0 || spec.Height <= 0 || spec.FPS <= 0 {
		return nil, fmt.Errorf("invalid output spec %dx%d @ %d fps", spec.Width, spec.Height, spec.FPS)
	}
	codec, err := encoderArgs(spec.FourCC, path)
	if err != nil {
		return nil, err
	}

	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo", "-pix_fmt", "bgr24",
		"-s", fmt.Sprintf("%dx%d", spec.Width, spec.Height),
		"-r", strconv.Itoa(spec.FPS),
		"-i", "-",
		"-an",
	}
	args = append(args, codec...)
	args = append(args, path)

	cmd, stderr := newCommand(bins.FFmpeg, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encoder stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start encoder: %w", err)
	}
	return &Writer{path: path, spec: spec, cmd: cmd, stdin: stdin, stderr: stderr}, nil
}

// Write appends one frame. Frames must match the size the writer was opened with.
func (w *Writer) Write(f *frame.Frame) error {
	if w.closed {
		return fmt.Errorf("write %s: writer closed", w.path)
	}
	if f.Width != w.spec.Width || f.Height != w.spec.Height {
		return fmt.Errorf("write %s: frame %s does not match output %dx%d", w.path, f, w.spec.Width, w.spec.Height)
	}
	if _, err := w.stdin.Write(f.Pix); err != nil {
		// The encoder exited; its stderr explains why.
		_ = w.finish()
		return fmt.Errorf("write %s: %s", w.path, withStderr(err.Error(), w.stderr))
	}
	return nil
}

// Close flushes the encoder and waits for the container to be finalized.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if err := w.finish(); err != nil {
		return fmt.Errorf("finalize %s: %s", w.path, withStderr(err.Error(), w.stderr))
	}
	return nil
}

func (w *Writer) finish() error {
	w.closed = true
	_ = w.stdin.Close()
	return w.cmd.Wait()
}
