// Package ingest watches the recordings directory and turns dropped files
// into persisted call records.
//
// The pipeline per file is: already-processed check, read, block extract,
// field parse, store upsert. Every failure is handled at file granularity
// and logged with the file name; the watcher itself never terminates
// because of a single bad file.
package ingest
