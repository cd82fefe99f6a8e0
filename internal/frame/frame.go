package frame

import (
	"errors"
	"fmt"
)

// Channels is the number of bytes per pixel in a packed BGR frame.
const Channels = 3

// ErrInvalidFrame indicates a frame whose buffer does not match its dimensions.
var ErrInvalidFrame = errors.New("invalid frame")

// Frame is a packed BGR24 image.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a black frame of the given size.
func New(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{Width: width, Height: height, Pix: make([]byte, Size(width, height))}
}

// Size returns the buffer length required for a width x height frame.
func Size(width, height int) int {
	return width * height * Channels
}

// Stride returns the number of bytes in one row.
func (f *Frame) Stride() int {
	return f.Width * Channels
}

// Row returns the bytes of row y.
func (f *Frame) Row(y int) []byte {
	stride := f.Stride()
	return f.Pix[y*stride : (y+1)*stride]
}

// Validate reports whether the pixel buffer matches the frame dimensions.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	if want := Size(f.Width, f.Height); len(f.Pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrInvalidFrame, f.Width, f.Height, want, len(f.Pix))
	}
	return nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{Width: f.Width, Height: f.Height, Pix: make([]byte, len(f.Pix))}
	copy(out.Pix, f.Pix)
	return out
}

func (f *Frame) String() string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}
