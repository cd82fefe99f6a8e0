// Package ffmpeg implements the default merge backend on top of the ffmpeg
// command-line tools.
//
// Sources probe the recording with ffprobe and decode it through an ffmpeg
// process that writes packed bgr24 frames to stdout. The sink feeds merged
// frames to an ffmpeg encoder on stdin, and the preview pipes the same frames
// into ffplay. Pressing ESC or q in the ffplay window ends the preview
// process; the next Show reports that as a stop request.
//
// Every helper process runs in its own process group so a terminal Ctrl-C
// reaches vidmerge only; the pipeline then finalizes the output cleanly.
package ffmpeg
