// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties (dimensions, frame count, rate)
//
// Inspect executes ffprobe and returns the parsed Result; Parse decodes output
// captured elsewhere. The frame backends use VideoStream to size their pipes.
package ffprobe
