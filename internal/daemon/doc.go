// Package daemon coordinates the long-running callwatch process.
//
// It wires configuration, the record store, and the directory watcher into
// a single lifecycle with flock-based locking to prevent multiple
// instances, and serves the read-only HTTP API that external UIs consume:
// the record collection, daemon status, and the raw recordings themselves.
//
// Keep orchestration logic here; ingestion behavior lives in the ingest
// package and persistence in the store package.
package daemon
