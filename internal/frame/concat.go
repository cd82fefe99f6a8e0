package frame

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ErrHeightMismatch indicates sources whose frame heights differ under the strict policy.
var ErrHeightMismatch = errors.New("frame heights differ")

// HeightPolicy decides how frames of unequal height are combined.
type HeightPolicy string

const (
	// HeightStrict rejects frames whose heights differ.
	HeightStrict HeightPolicy = "strict"
	// HeightPad bottom-pads shorter frames with black rows up to the tallest frame.
	HeightPad HeightPolicy = "pad"
)

// ParseHeightPolicy converts a configuration value into a HeightPolicy.
func ParseHeightPolicy(value string) (HeightPolicy, error) {
	switch HeightPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", HeightStrict:
		return HeightStrict, nil
	case HeightPad:
		return HeightPad, nil
	default:
		return "", fmt.Errorf("unsupported height policy %q (expected strict or pad)", value)
	}
}

// Dims is the width and height of a frame source.
type Dims struct {
	Width  int
	Height int
}

// Layout returns the merged canvas size for the given per-source dimensions:
// the sum of widths and the maximum height. Under HeightStrict every height
// must match.
func Layout(dims []Dims, policy HeightPolicy) (Dims, error) {
	if len(dims) == 0 {
		return Dims{}, errors.New("layout: no sources")
	}
	heights := lo.Map(dims, func(d Dims, _ int) int { return d.Height })
	widths := lo.Map(dims, func(d Dims, _ int) int { return d.Width })
	for i, d := range dims {
		if d.Width <= 0 || d.Height <= 0 {
			return Dims{}, fmt.Errorf("layout: source %d has invalid dimensions %dx%d", i, d.Width, d.Height)
		}
	}
	maxHeight := lo.Max(heights)
	if policy != HeightPad && lo.Min(heights) != maxHeight {
		return Dims{}, fmt.Errorf("%w: %s", ErrHeightMismatch, describeHeights(heights))
	}
	return Dims{Width: lo.Sum(widths), Height: maxHeight}, nil
}

// HConcat places frames left to right on a single canvas. When dst is non-nil
// and already sized for the result its buffer is reused.
func HConcat(dst *Frame, frames []*Frame, policy HeightPolicy) (*Frame, error) {
	dims := make([]Dims, len(frames))
	for i, f := range frames {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("hconcat source %d: %w", i, err)
		}
		dims[i] = Dims{Width: f.Width, Height: f.Height}
	}
	canvas, err := Layout(dims, policy)
	if err != nil {
		return nil, err
	}

	out := dst
	if out == nil || out.Width != canvas.Width || out.Height != canvas.Height || len(out.Pix) != Size(canvas.Width, canvas.Height) {
		out = New(canvas.Width, canvas.Height)
	}

	outStride := out.Stride()
	offset := 0
	for _, f := range frames {
		stride := f.Stride()
		for y := 0; y < canvas.Height; y++ {
			row := out.Pix[y*outStride+offset : y*outStride+offset+stride]
			if y < f.Height {
				copy(row, f.Row(y))
				continue
			}
			clear(row)
		}
		offset += stride
	}
	return out, nil
}

func describeHeights(heights []int) string {
	parts := make([]string, len(heights))
	for i, h := range heights {
		parts[i] = fmt.Sprintf("source %d=%dpx", i, h)
	}
	return strings.Join(parts, ", ")
}
