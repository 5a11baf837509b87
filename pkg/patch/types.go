package patch

// Phase is the executor's position in the upgrade pipeline. Phases advance
// strictly forward; a failed apply branches into the rollback phases.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDownloading
	PhaseVerifying
	PhaseExtracting
	PhaseValidatingStructure
	PhaseApplying
	PhaseCompleted
	PhaseRollingBack
	PhaseRolledBack
	PhaseRollbackFailed
)

var phaseNames = map[Phase]string{
	PhaseIdle:                "idle",
	PhaseDownloading:         "downloading",
	PhaseVerifying:           "verifying",
	PhaseExtracting:          "extracting",
	PhaseValidatingStructure: "validating structure",
	PhaseApplying:            "applying",
	PhaseCompleted:           "completed",
	PhaseRollingBack:         "rolling back",
	PhaseRolledBack:          "rolled back",
	PhaseRollbackFailed:      "rollback failed",
}

// String returns the human-readable name of the phase.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Tracker receives executor progress. Every callback is optional and invoked
// from the goroutine running Execute.
type Tracker struct {
	// OnPhase fires on every phase transition.
	OnPhase func(Phase)
	// OnDownload receives the cumulative downloaded byte count, which never
	// decreases within one attempt.
	OnDownload func(bytes int64)
	// OnApply receives the fraction of completed operations, from 0.0 to 1.0.
	OnApply func(fraction float64)
}
