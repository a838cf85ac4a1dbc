// Package store persists call records to a human-inspectable JSON file.
//
// The on-disk format is an ordered JSON array, one object per ingested
// recording, keyed by file name. Saves are atomic (temp file + rename) so a
// crash mid-write never corrupts the database, and readers always observe
// the result of the most recently completed save.
package store
