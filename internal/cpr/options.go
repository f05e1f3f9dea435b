package cpr

import (
	"time"

	"github.com/Sh00ty/hotspot-cpr/internal/metrics"
)

// AfterFunc runs f in its own goroutine once d elapsed.
type AfterFunc func(d time.Duration, f func())

func timeAfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

type Option func(o *option)

type option struct {
	timings   Timings
	afterFunc AfterFunc
	metrics   metrics.Metrics
	state     *RemediationState
}

func WithTimings(timings Timings) Option {
	return func(o *option) {
		o.timings = timings
	}
}

func WithAfterFunc(afterFunc AfterFunc) Option {
	return func(o *option) {
		o.afterFunc = afterFunc
	}
}

func WithMetrics(m metrics.Metrics) Option {
	return func(o *option) {
		o.metrics = m
	}
}

func WithState(state *RemediationState) Option {
	return func(o *option) {
		o.state = state
	}
}
