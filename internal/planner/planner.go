package planner

import (
	"errors"

	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/preset"
)

// ErrNoFormat is returned by [Resolve] when no output format was chosen.
var ErrNoFormat = errors.New("no output format selected")

// Resolve turns the validated config into batch Settings. The preset lookup
// is total: an unknown id resolves to Balanced and warn is called.
func Resolve(cfg *config.Config, warn func(string, ...interface{})) (Settings, error) {
	if cfg.Format == "" {
		return Settings{}, ErrNoFormat
	}
	format, err := preset.ParseFormat(cfg.Format)
	if err != nil {
		return Settings{}, err
	}

	id := preset.ID(cfg.Preset)
	params := preset.ParamsFor(id, warn)
	if !id.Valid() {
		id = preset.BalancedID
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = config.DefaultConfig().Threads
	}

	return Settings{
		PresetID: id,
		Params:   params,
		Format:   format,
		UseGPU:   cfg.UseGPU(),
		Threads:  threads,
	}, nil
}

// Job builds the Job for one input whose output path is already resolved.
func (s Settings) Job(inputPath, outputPath string) *Job {
	job := &Job{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Kind:       s.Format.Kind(),
		Format:     s.Format,
		Params:     s.Params,
		UseGPU:     s.UseGPU,
		Threads:    s.Threads,
	}

	switch job.Kind {
	case preset.KindAudio:
		ap := preset.AudioProfileFor(string(s.Format))
		job.Audio = &ap
	case preset.KindVideo:
		if s.Params.Audio != nil {
			ap := *s.Params.Audio
			job.Audio = &ap
		}
	}
	return job
}
