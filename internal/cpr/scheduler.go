package cpr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/rs/zerolog"

	"github.com/Sh00ty/hotspot-cpr/internal/metrics"
	"github.com/Sh00ty/hotspot-cpr/internal/models"
)

var ErrStatusUnavailable = errors.New("hotspot status unavailable")

type StatusClient interface {
	NetworkHeight(ctx context.Context) (int64, error)
	DeviceHeight(ctx context.Context, address string) (int64, error)
}

type ControlClient interface {
	Do(ctx context.Context, device models.Device, command models.Command) (bool, error)
}

type Scheduler struct {
	status  StatusClient
	control ControlClient
	policy  models.Policy
	steps   []step

	state     *RemediationState
	afterFunc AfterFunc
	metrics   metrics.Metrics

	log zerolog.Logger
}

func New(
	status StatusClient,
	control ControlClient,
	policy models.Policy,
	logger zerolog.Logger,
	options ...Option,
) *Scheduler {
	opts := option{
		timings:   DefaultTimings(),
		afterFunc: timeAfterFunc,
		metrics:   metrics.Noop{},
	}
	for _, apply := range options {
		apply(&opts)
	}
	if opts.state == nil {
		opts.state = NewRemediationState()
	}
	return &Scheduler{
		status:    status,
		control:   control,
		policy:    policy,
		steps:     planSequence(policy, opts.timings),
		state:     opts.state,
		afterFunc: opts.afterFunc,
		metrics:   opts.metrics,
		log:       logger.With().Str("component", "cpr-scheduler").Logger(),
	}
}

func (s *Scheduler) InProgress(name models.DeviceName) bool {
	return s.state.Contains(name)
}

// CheckDevice reads both heights, classifies the device and starts a CPR when it is stalled.
func (s *Scheduler) CheckDevice(ctx context.Context, device models.Device) (models.Health, error) {
	ts := time.Now()
	defer func() {
		s.metrics.Duration(metrics.CheckDuration, time.Since(ts))
	}()

	s.log.Info().Msgf("checking %s...", device.Name)

	networkHeight, err := s.status.NetworkHeight(ctx)
	if err != nil {
		s.metrics.Increment(metrics.CheckFailed)
		return "", fmt.Errorf("%w: %w", ErrStatusUnavailable, err)
	}
	deviceHeight, err := s.status.DeviceHeight(ctx, device.Address)
	if err != nil {
		s.metrics.Increment(metrics.CheckFailed)
		return "", fmt.Errorf("%w: %w", ErrStatusUnavailable, err)
	}

	reading := models.HeightReading{
		NetworkHeight: networkHeight,
		DeviceHeight:  deviceHeight,
	}
	health := reading.Classify(s.policy.MaxDelta)
	s.log.Info().
		Str("device", device.Name.String()).
		Int64("blockchain_height", reading.NetworkHeight).
		Int64("hotspot_height", reading.DeviceHeight).
		Int64("gap", reading.Gap()).
		Str("status", string(health)).
		Msg("hotspot checked")
	s.metrics.Gauge(metrics.CheckGap, int(reading.Gap()))

	if health == models.Healthy {
		s.metrics.Increment(metrics.CheckHealthy)
		return health, nil
	}
	s.metrics.Increment(metrics.CheckStalled)
	s.Remediate(ctx, device)
	return health, nil
}

// Remediate starts a CPR sequence unless one is already running for the device.
// Delayed steps keep running after ctx is cancelled.
func (s *Scheduler) Remediate(ctx context.Context, device models.Device) bool {
	cprID, err := uuid.GenerateUUID()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to generate cpr id, fallback to timestamp")
		cprID = fmt.Sprintf("%s-%d", device.Name, time.Now().UnixNano())
	}
	if !s.state.TryAdd(device.Name, cprID) {
		s.log.Warn().Msgf("cpr already in progress for %s", device.Name)
		s.metrics.Increment(metrics.CprSuppressed)
		return false
	}
	s.metrics.Increment(metrics.CprStarted)
	s.metrics.Gauge(metrics.CprInProgress, s.state.Len())

	logger := s.log.With().
		Str("device", device.Name.String()).
		Str("cpr_id", cprID).
		Logger()
	logger.Info().Msgf("blockchain gap is too great for hotspot %s, performing cpr: %v", device.Name, s.steps)

	seq := sequence{
		id:        cprID,
		device:    device,
		log:       logger,
		ctx:       context.WithoutCancel(ctx),
		scheduler: s,
	}
	seq.start()
	return true
}

type sequence struct {
	id        string
	device    models.Device
	log       zerolog.Logger
	ctx       context.Context
	scheduler *Scheduler
}

func (q sequence) start() {
	last := len(q.scheduler.steps) - 1
	for i, st := range q.scheduler.steps {
		st := st
		terminal := i == last
		if st.after <= 0 {
			q.run(st, terminal)
			continue
		}
		q.log.Info().Msgf("will %s %s after %.1f minutes", st.command, q.device.Name, st.after.Minutes())
		q.scheduler.afterFunc(st.after, func() {
			q.run(st, terminal)
		})
	}
}

func (q sequence) run(st step, terminal bool) {
	if st.command != models.CommandNone {
		_, err := q.scheduler.control.Do(q.ctx, q.device, st.command)
		if err != nil {
			q.log.Error().Err(err).Msgf("there was a problem performing %s on %s", st.command, q.device.Name)
			q.scheduler.metrics.Increment(metrics.CprActionFail)
		}
	}
	if terminal {
		q.complete()
	}
}

func (q sequence) complete() {
	s := q.scheduler
	if !s.state.Remove(q.device.Name, q.id) {
		q.log.Warn().Msg("cpr finished but device was not in progress")
		return
	}
	s.metrics.Increment(metrics.CprCompleted)
	s.metrics.Gauge(metrics.CprInProgress, s.state.Len())
	q.log.Info().Msgf("cpr process finished for %s", q.device.Name)
}
