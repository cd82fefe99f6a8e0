// Package frame defines the in-memory image exchanged between frame sources,
// the merge loop, and frame sinks.
//
// Frames are packed 8-bit BGR (three bytes per pixel, row-major, no stride
// padding), matching what OpenCV captures and what ffmpeg emits for
// "-pix_fmt bgr24". HConcat places frames side by side and enforces the
// configured HeightPolicy when source heights differ.
package frame
