// Package calllog defines the call record model and parses the trailing
// log block that Telsa64 recorders append to their audio files.
//
// A log-bearing recording ends with N pipe-delimited metadata lines, a line
// holding the integer N, and the literal Telsa64 marker. Extract validates
// that footer and returns the metadata lines; Parse turns them into a
// Record with optional Info, Number, and CallWindow sections. Both tolerate
// partial input: missing sections, short blocks, and individual malformed
// lines degrade to absent fields rather than errors.
package calllog
