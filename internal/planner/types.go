package planner

import "github.com/backmassage/shrinkwrap/internal/preset"

// Settings are the batch-wide selections every Job is derived from. They are
// resolved once, before the first file is touched.
type Settings struct {
	PresetID preset.ID
	Params   preset.EncodeParams
	Format   preset.Format
	UseGPU   bool
	Threads  int
}

// Job holds everything needed to convert one file. It is produced by
// [Settings.Job] and consumed exactly once by the pipeline; nothing mutates
// it after construction.
type Job struct {
	InputPath  string
	OutputPath string

	Kind   preset.Kind
	Format preset.Format

	// Params is the video encode parameter set. It is carried for audio jobs
	// too but unused by the command builder there.
	Params preset.EncodeParams

	// Audio is the audio stream profile: the format default for audio jobs,
	// the preset's override for video jobs (nil when the preset has none).
	Audio *preset.AudioProfile

	UseGPU  bool
	Threads int
}

// IsVideo reports whether the job produces a video file.
func (j *Job) IsVideo() bool { return j.Kind == preset.KindVideo }
