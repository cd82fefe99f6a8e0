// Package history records merge runs in a small SQLite ledger.
//
// Each run stores the session, the cameras in merge order, the output path
// and dimensions, the frame count, and how the loop ended, so truncated or
// interrupted merges can be spotted later with `vidmerge history`.
//
// Schema changes bump schemaVersion in schema.go; users delete the database to
// adopt the new schema.
package history
