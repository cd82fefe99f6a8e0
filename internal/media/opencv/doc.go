// Package opencv implements the merge backend on top of OpenCV through gocv.
//
// The package is only compiled with the gocv build tag, since it needs the
// OpenCV development libraries at build time:
//
//	go build -tags gocv ./cmd/vidmerge
package opencv
