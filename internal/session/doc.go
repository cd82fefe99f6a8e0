// Package session resolves the on-disk layout of one capture session.
//
// A capture session is identified by a timestamp string. Each camera writes
// its recording beneath a folder named after the camera and the session id;
// Discover finds exactly one input file per camera and returns them in camera
// order. PlanOutput derives where the merged video goes, and Lock guards that
// directory so two merges of the same session cannot interleave.
package session
