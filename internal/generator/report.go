package generator

import "time"

// StageTiming is the wall time of one completed or failed stage.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

// Report summarizes a run.
type Report struct {
	Commit    string
	Plugins   int
	Written   int
	Unchanged int
	// Warnings holds non-fatal findings such as unresolved table references.
	Warnings []string
	Stages   []StageTiming
	Duration time.Duration
}

// Stage returns the timing of the named stage.
func (r *Report) Stage(name string) (StageTiming, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageTiming{}, false
}

func (r *Report) warn(msg string) { r.Warnings = append(r.Warnings, msg) }
