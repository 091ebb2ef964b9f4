// Package ffmpeg builds and executes ffmpeg commands.
//
// Build turns a planner.Job into a complete argument slice. Audio jobs get
// -vn plus the format's audio codec and bitrate; video jobs get the codec
// (h264_nvenc or libx264), the preset's speed and rate control, and the
// preset's audio override if it has one. The output path is always last.
//
// Execute runs a command through a Starter, streaming stderr lines to a
// callback for progress parsing and keeping the tail for failure reports.
// Diagnose maps common stderr failures to a short hint.
package ffmpeg
