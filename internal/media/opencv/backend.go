//go:build gocv

package opencv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gocv.io/x/gocv"

	"vidmerge/internal/frame"
	"vidmerge/internal/logging"
	"vidmerge/internal/merge"
)

// Name is the backend identifier used in configuration.
const Name = "opencv"

// escapeKey stops the merge from the preview window.
const escapeKey = 27

// Backend implements merge.Backend with OpenCV video I/O and HighGUI windows.
type Backend struct {
	logger *slog.Logger
}

// New constructs an OpenCV backend.
func New(logger *slog.Logger) *Backend {
	return &Backend{logger: logging.NewComponentLogger(logger, "opencv")}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) OpenSource(ctx context.Context, path string) (merge.Source, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open capture %s: %w", path, err)
	}
	if !capture.IsOpened() {
		_ = capture.Close()
		return nil, fmt.Errorf("open capture %s: not readable", path)
	}
	src := &videoSource{
		path:    path,
		capture: capture,
		mat:     gocv.NewMat(),
		dims: frame.Dims{
			Width:  int(capture.Get(gocv.VideoCaptureFrameWidth)),
			Height: int(capture.Get(gocv.VideoCaptureFrameHeight)),
		},
		frames: max(int(capture.Get(gocv.VideoCaptureFrameCount)), 0),
		open:   true,
	}
	if src.dims.Width <= 0 || src.dims.Height <= 0 {
		_ = src.Close()
		return nil, fmt.Errorf("open capture %s: invalid dimensions %dx%d", path, src.dims.Width, src.dims.Height)
	}
	logging.WithContext(ctx, b.logger).Debug("capture opened", logging.Args(
		logging.String("path", path),
		logging.Int("frames", src.frames),
	)...)
	return src, nil
}

func (b *Backend) OpenSink(ctx context.Context, path string, spec merge.SinkSpec) (merge.Sink, error) {
	writer, err := gocv.VideoWriterFile(path, spec.FourCC, float64(spec.FPS), spec.Width, spec.Height, true)
	if err != nil {
		return nil, fmt.Errorf("open writer %s: %w", path, err)
	}
	if !writer.IsOpened() {
		_ = writer.Close()
		return nil, fmt.Errorf("open writer %s: codec %s unavailable", path, spec.FourCC)
	}
	logging.WithContext(ctx, b.logger).Debug("writer opened", logging.Args(
		logging.String("path", path),
		logging.String("fourcc", spec.FourCC),
	)...)
	return &sink{path: path, spec: spec, writer: writer}, nil
}

func (b *Backend) OpenPreview(_ context.Context, spec merge.PreviewSpec) (merge.Preview, error) {
	delay := 1
	if spec.FPS > 0 {
		delay = max(1000/spec.FPS, 1)
	}
	return &window{win: gocv.NewWindow(spec.Title), delay: delay}, nil
}

var _ merge.Backend = (*Backend)(nil)

// videoSource reads frames from a gocv.VideoCapture.
type videoSource struct {
	path    string
	capture *gocv.VideoCapture
	mat     gocv.Mat
	buf     *frame.Frame
	dims    frame.Dims
	frames  int
	open    bool
}

func (c *videoSource) Dims() frame.Dims { return c.dims }
func (c *videoSource) FrameCount() int  { return c.frames }
func (c *videoSource) IsOpen() bool     { return c.open }

func (c *videoSource) Read() (*frame.Frame, error) {
	if !c.open {
		return nil, io.EOF
	}
	if ok := c.capture.Read(&c.mat); !ok || c.mat.Empty() {
		_ = c.Close()
		return nil, io.EOF
	}
	f, err := matToFrame(c.mat, c.buf)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	c.buf = f
	return f, nil
}

func (c *videoSource) Close() error {
	if c.capture == nil {
		return nil
	}
	c.open = false
	err := c.capture.Close()
	_ = c.mat.Close()
	c.capture = nil
	return err
}

type sink struct {
	path   string
	spec   merge.SinkSpec
	writer *gocv.VideoWriter
}

func (s *sink) Write(f *frame.Frame) error {
	if s.writer == nil {
		return fmt.Errorf("write %s: writer closed", s.path)
	}
	if f.Width != s.spec.Width || f.Height != s.spec.Height {
		return fmt.Errorf("write %s: frame %s does not match output %dx%d", s.path, f, s.spec.Width, s.spec.Height)
	}
	mat, err := frameToMat(f)
	if err != nil {
		return err
	}
	defer mat.Close()
	return s.writer.Write(mat)
}

func (s *sink) Close() error {
	if s.writer == nil {
		return nil
	}
	err := s.writer.Close()
	s.writer = nil
	return err
}

type window struct {
	win   *gocv.Window
	delay int
}

func (w *window) Show(f *frame.Frame) (bool, error) {
	mat, err := frameToMat(f)
	if err != nil {
		return false, err
	}
	defer mat.Close()
	w.win.IMShow(mat)
	return w.win.WaitKey(w.delay) == escapeKey, nil
}

func (w *window) Close() error {
	if w.win == nil {
		return nil
	}
	err := w.win.Close()
	w.win = nil
	return err
}

// matToFrame copies a BGR Mat into dst, reallocating it when the size changes.
func matToFrame(m gocv.Mat, dst *frame.Frame) (*frame.Frame, error) {
	if m.Type() != gocv.MatTypeCV8UC3 {
		return nil, fmt.Errorf("unsupported mat type %d", int(m.Type()))
	}
	width, height := m.Cols(), m.Rows()
	if dst == nil || dst.Width != width || dst.Height != height {
		dst = frame.New(width, height)
	}
	data := m.ToBytes()
	if len(data) != len(dst.Pix) {
		return nil, errors.New("mat is not continuous")
	}
	copy(dst.Pix, data)
	return dst, nil
}

func frameToMat(f *frame.Frame) (gocv.Mat, error) {
	if err := f.Validate(); err != nil {
		return gocv.Mat{}, err
	}
	return gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Pix)
}
