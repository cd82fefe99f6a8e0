// Package merge implements the frame merger pipeline.
//
// A run discovers one recording per camera, prepares and locks the session
// output directory, opens every source plus the sink (and the optional
// preview), then advances all sources in lock-step: one frame from each per
// tick, concatenated left to right in camera order and appended to the sink.
//
// The loop stops on the first tick where any source cannot produce a frame.
// Outcome tells callers why: a clean end of stream, a read fault (the output
// is kept, truncated), or an interrupt from the preview window or context
// cancellation. Every exit path closes the sources first, then the sink, then
// the preview.
//
// Frame I/O is delegated to a Backend so the loop itself stays free of
// ffmpeg or OpenCV specifics; see internal/media/ffmpeg and
// internal/media/opencv.
package merge
