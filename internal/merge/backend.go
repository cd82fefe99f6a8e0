package merge

import (
	"context"

	"vidmerge/internal/frame"
)

// Source is one opened input stream.
type Source interface {
	// Dims reports the frame size of the stream.
	Dims() frame.Dims
	// FrameCount reports the number of frames the container claims, or 0 when unknown.
	FrameCount() int
	// IsOpen reports whether the source can still be read.
	IsOpen() bool
	// Read returns the next frame, or io.EOF once the stream is exhausted.
	// The frame is only valid until the next call to Read.
	Read() (*frame.Frame, error)
	// Close releases the stream. It is safe to call more than once.
	Close() error
}

// Sink is the writable output stream.
type Sink interface {
	Write(f *frame.Frame) error
	// Close flushes and finalizes the output.
	Close() error
}

// Preview renders merged frames while the merge runs.
type Preview interface {
	// Show displays a frame and polls for the interrupt key. It returns
	// true when the user asked to stop.
	Show(f *frame.Frame) (bool, error)
	Close() error
}

// SinkSpec describes the output stream to create.
type SinkSpec struct {
	Width  int
	Height int
	FPS    int
	FourCC string
}

// PreviewSpec describes the preview surface to create.
type PreviewSpec struct {
	Title  string
	Width  int
	Height int
	FPS    int
}

// Backend opens frame sources, sinks, and preview surfaces.
type Backend interface {
	Name() string
	OpenSource(ctx context.Context, path string) (Source, error)
	OpenSink(ctx context.Context, path string, spec SinkSpec) (Sink, error)
	OpenPreview(ctx context.Context, spec PreviewSpec) (Preview, error)
}
