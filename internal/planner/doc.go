// Package planner turns the batch selections (preset, output format, GPU
// choice) into per-file Jobs that the ffmpeg package builds commands from.
//
//   - Settings, Job (types.go)
//   - Resolve: config to Settings, once per batch (planner.go)
//   - Settings.Job: one immutable Job per input file (planner.go)
package planner
