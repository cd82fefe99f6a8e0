package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"

	"vidmerge/internal/frame"
	"vidmerge/internal/media/ffprobe"
)

// Reader decodes one recording into bgr24 frames.
type Reader struct {
	path    string
	dims    frame.Dims
	frames  int
	rate    float64
	streams int

	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *tailBuffer
	buf    *frame.Frame

	open    bool
	waited  bool
	waitErr error
}

// OpenReader probes path and starts the decoder.
func OpenReader(ctx context.Context, bins Binaries, path string) (*Reader, error) {
	probe, err := ffprobe.Inspect(ctx, bins.FFprobe, path)
	if err != nil {
		return nil, err
	}
	stream, err := probe.VideoStream()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return nil, fmt.Errorf("%s: invalid video dimensions %dx%d", path, stream.Width, stream.Height)
	}

	cmd, stderr := newCommand(bins.FFmpeg,
		"-hide_banner", "-loglevel", "error", "-nostdin",
		"-i", path,
		"-map", "0:v:0",
		"-f", "rawvideo", "-pix_fmt", "bgr24",
		"-",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("decoder stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start decoder for %s: %w", path, err)
	}

	return &Reader{
		path:    path,
		dims:    frame.Dims{Width: stream.Width, Height: stream.Height},
		frames:  frameCount(probe, stream),
		rate:    stream.FrameRate(),
		streams: probe.VideoStreamCount(),
		cmd:     cmd,
		stdout:  stdout,
		stderr:  stderr,
		buf:     frame.New(stream.Width, stream.Height),
		open:    true,
	}, nil
}

// frameCount prefers nb_frames and otherwise estimates from the container
// duration. Matroska and some AVI muxers omit nb_frames.
func frameCount(probe ffprobe.Result, stream ffprobe.Stream) int {
	if n := stream.FrameCount(); n > 0 {
		return n
	}
	duration := probe.DurationSeconds()
	rate := stream.FrameRate()
	if math.IsNaN(duration) || duration <= 0 || rate <= 0 {
		return 0
	}
	return int(math.Round(duration * rate))
}

func (r *Reader) Dims() frame.Dims { return r.dims }

// FrameCount returns the frame count reported (or estimated) from the
// container, or 0.
func (r *Reader) FrameCount() int { return r.frames }

func (r *Reader) IsOpen() bool { return r.open }

// Read returns the next frame. The returned frame is overwritten by the next
// call. io.EOF marks a clean end of stream; any other error means the decoder
// failed or produced a partial frame.
func (r *Reader) Read() (*frame.Frame, error) {
	if !r.open {
		return nil, io.EOF
	}
	_, err := io.ReadFull(r.stdout, r.buf.Pix)
	switch {
	case err == nil:
		return r.buf, nil
	case errors.Is(err, io.EOF):
		if waitErr := r.wait(); waitErr != nil {
			r.Close()
			return nil, fmt.Errorf("decode %s: %s", r.path, withStderr(waitErr.Error(), r.stderr))
		}
		r.Close()
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		r.wait()
		r.Close()
		return nil, fmt.Errorf("decode %s: %s", r.path, withStderr("truncated frame", r.stderr))
	default:
		r.Close()
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
}

// Close stops the decoder. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.cmd == nil {
		return nil
	}
	r.open = false
	_ = r.stdout.Close()
	if !r.waited {
		_ = r.cmd.Process.Kill()
		r.wait()
	}
	r.cmd = nil
	return nil
}

func (r *Reader) wait() error {
	if r.waited {
		return r.waitErr
	}
	r.waitErr = r.cmd.Wait()
	r.waited = true
	return r.waitErr
}
