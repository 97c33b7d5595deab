// Package metrics records build timings and page counts.
package metrics

import "time"

// Outcome labels for IncBuildOutcome.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Recorder receives build observations. All methods must be safe for
// concurrent use.
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncPagesWritten(kind string)
	IncBuildOutcome(outcome string)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncPagesWritten(string)                     {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
