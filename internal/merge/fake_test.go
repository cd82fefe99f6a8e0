package merge_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"vidmerge/internal/frame"
	"vidmerge/internal/merge"
)

// events records open/close calls across fakes so tests can assert ordering.
type events struct {
	mu   sync.Mutex
	list []string
}

func (e *events) add(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.list = append(e.list, fmt.Sprintf(format, args...))
}

func (e *events) snapshot() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.list...)
}

type sourceSpec struct {
	width, height int
	frames        int
	fill          byte
	// faultAt makes the read of this frame index fail; 0 disables it.
	faultAt int
	// hideCount makes FrameCount report 0.
	hideCount bool
}

type fakeSource struct {
	camera string
	spec   sourceSpec
	log    *events
	buf    *frame.Frame
	read   int
	open   bool
}

func (s *fakeSource) Dims() frame.Dims {
	return frame.Dims{Width: s.spec.width, Height: s.spec.height}
}

func (s *fakeSource) FrameCount() int {
	if s.spec.hideCount {
		return 0
	}
	return s.spec.frames
}

func (s *fakeSource) IsOpen() bool { return s.open }

func (s *fakeSource) Read() (*frame.Frame, error) {
	if !s.open {
		return nil, errors.New("read from closed source")
	}
	if s.spec.faultAt > 0 && s.read == s.spec.faultAt {
		return nil, errors.New("corrupt packet")
	}
	if s.read >= s.spec.frames {
		s.open = false
		return nil, io.EOF
	}
	s.read++
	if s.buf == nil {
		s.buf = frame.New(s.spec.width, s.spec.height)
	}
	for i := range s.buf.Pix {
		s.buf.Pix[i] = s.spec.fill
	}
	return s.buf, nil
}

func (s *fakeSource) Close() error {
	s.log.add("close source %s", s.camera)
	s.open = false
	return nil
}

type fakeSink struct {
	path    string
	spec    merge.SinkSpec
	log     *events
	written []*frame.Frame
	failAt  int
	closed  bool
}

func (s *fakeSink) Write(f *frame.Frame) error {
	if s.closed {
		return errors.New("write to closed sink")
	}
	if s.failAt > 0 && len(s.written) == s.failAt {
		return errors.New("disk full")
	}
	s.written = append(s.written, f.Clone())
	return nil
}

func (s *fakeSink) Close() error {
	s.log.add("close sink")
	s.closed = true
	return nil
}

type fakePreview struct {
	spec   merge.PreviewSpec
	log    *events
	shown  int
	stopAt int
	err    error
}

func (p *fakePreview) Show(*frame.Frame) (bool, error) {
	p.shown++
	if p.err != nil {
		return false, p.err
	}
	return p.stopAt > 0 && p.shown == p.stopAt, nil
}

func (p *fakePreview) Close() error {
	p.log.add("close preview")
	return nil
}

// fakeBackend serves sources keyed by camera. The camera is recovered from
// the recording directory name (<camera>_..._<session>).
type fakeBackend struct {
	specs map[string]sourceSpec
	log   events

	sinkFailAt    int
	sinkOpenErr   error
	sinkOpenTouch bool // failing OpenSink leaves an empty file behind
	previewStop   int
	previewErr    error

	sources  []*fakeSource
	sink     *fakeSink
	previews []*fakePreview
}

func newFakeBackend(specs map[string]sourceSpec) *fakeBackend {
	return &fakeBackend{specs: specs}
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) OpenSource(_ context.Context, path string) (merge.Source, error) {
	dir := filepath.Base(filepath.Dir(filepath.Dir(path)))
	for camera, spec := range b.specs {
		if strings.HasPrefix(dir, camera+"_") {
			src := &fakeSource{camera: camera, spec: spec, log: &b.log, open: true}
			b.sources = append(b.sources, src)
			b.log.add("open source %s", camera)
			return src, nil
		}
	}
	return nil, fmt.Errorf("no fake source for %s", path)
}

func (b *fakeBackend) OpenSink(_ context.Context, path string, spec merge.SinkSpec) (merge.Sink, error) {
	if b.sinkOpenErr != nil {
		if b.sinkOpenTouch {
			if err := os.WriteFile(path, nil, 0o644); err != nil {
				return nil, err
			}
		}
		return nil, b.sinkOpenErr
	}
	b.sink = &fakeSink{path: path, spec: spec, log: &b.log, failAt: b.sinkFailAt}
	b.log.add("open sink")
	return b.sink, nil
}

func (b *fakeBackend) OpenPreview(_ context.Context, spec merge.PreviewSpec) (merge.Preview, error) {
	p := &fakePreview{spec: spec, log: &b.log, stopAt: b.previewStop, err: b.previewErr}
	b.previews = append(b.previews, p)
	b.log.add("open preview")
	return p, nil
}
