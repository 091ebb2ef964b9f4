// Package progress parses encoder status output into elapsed time and a
// bounded completion percentage.
//
// A Parser is fed one line at a time. Lines without a "time=" marker, or
// with a timestamp in any shape other than HH:MM:SS[.frac] or MM:SS[.frac],
// are ignored. The percentage is clamped to [0, 100] and never decreases,
// so a single corrupt timestamp cannot move the indicator backwards;
// timestamps well past the known duration are counted as spikes so callers
// can flag them.
package progress
