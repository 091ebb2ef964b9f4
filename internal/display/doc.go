// Package display renders everything that is not a log line: the banner,
// tables for presets, formats, inputs and batch results, and the per-job
// progress bar.
package display
