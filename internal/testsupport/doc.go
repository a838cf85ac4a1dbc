// Package testsupport provides shared helpers for package tests: temp-dir
// configs and call-recording fixture files.
package testsupport
