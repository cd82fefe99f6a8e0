package ffmpeg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"vidmerge/internal/frame"
	"vidmerge/internal/merge"
)

// Preview shows merged frames in an ffplay window.
type Preview struct {
	spec   merge.PreviewSpec
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *tailBuffer
	done   chan struct{}
	closed bool
}

// OpenPreview starts ffplay reading raw frames from stdin. ffplay paces its
// reads to the frame rate, so writes block at display speed.
func OpenPreview(bins Binaries, spec merge.PreviewSpec) (*Preview, error) {
	if spec.Width <= 0 || spec.Height <= 0 || spec.FPS <= 0 {
		return nil, fmt.Errorf("invalid preview spec %dx%d @ %d fps", spec.Width, spec.Height, spec.FPS)
	}
	cmd, stderr := newCommand(bins.FFplay,
		"-hide_banner", "-loglevel", "error",
		"-autoexit",
		"-window_title", spec.Title,
		"-f", "rawvideo", "-pixel_format", "bgr24",
		"-video_size", fmt.Sprintf("%dx%d", spec.Width, spec.Height),
		"-framerate", strconv.Itoa(spec.FPS),
		"-",
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("preview stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start preview: %w", err)
	}
	p := &Preview{spec: spec, cmd: cmd, stdin: stdin, stderr: stderr, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

// Show writes f to the preview. It returns true once the viewer has been
// closed by the user.
func (p *Preview) Show(f *frame.Frame) (bool, error) {
	if p.exited() {
		return true, nil
	}
	if _, err := p.stdin.Write(f.Pix); err != nil {
		if errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) || p.exited() {
			return true, nil
		}
		return false, fmt.Errorf("preview: %s", withStderr(err.Error(), p.stderr))
	}
	return false, nil
}

// Close shuts the viewer down.
func (p *Preview) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	_ = p.stdin.Close()
	if !p.exited() {
		_ = p.cmd.Process.Kill()
	}
	<-p.done
	return nil
}

func (p *Preview) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}
