package metrics

import "time"

type Metrics interface {
	Increment(string)
	Duration(string, time.Duration)
	Gauge(string, int)
}

const (
	CheckHealthy   = "check.healthy"
	CheckStalled   = "check.stalled"
	CheckFailed    = "check.failed"
	CheckDuration  = "check.duration"
	CheckGap       = "check.gap"
	CprStarted     = "cpr.started"
	CprSuppressed  = "cpr.suppressed"
	CprCompleted   = "cpr.completed"
	CprActionFail  = "cpr.action.failed"
	CprInProgress  = "cpr.in_progress"
	PollSkipped    = "poll.skipped"
	PollCycleTotal = "poll.cycle"
)

type Noop struct{}

func (Noop) Increment(string)               {}
func (Noop) Duration(string, time.Duration) {}
func (Noop) Gauge(string, int)              {}
