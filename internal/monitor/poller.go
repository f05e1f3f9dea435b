package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/rs/zerolog"

	"github.com/Sh00ty/hotspot-cpr/internal/metrics"
	"github.com/Sh00ty/hotspot-cpr/internal/models"
)

const CheckInterval = 420 * time.Second

type Scheduler interface {
	CheckDevice(ctx context.Context, device models.Device) (models.Health, error)
	InProgress(name models.DeviceName) bool
}

type Poller struct {
	devices   []models.Device
	scheduler Scheduler
	interval  time.Duration
	metrics   metrics.Metrics
	log       zerolog.Logger
}

func NewPoller(
	devices []models.Device,
	scheduler Scheduler,
	interval time.Duration,
	m metrics.Metrics,
	logger zerolog.Logger,
) *Poller {
	if interval <= 0 {
		interval = CheckInterval
	}
	if m == nil {
		m = metrics.Noop{}
	}
	return &Poller{
		devices:   devices,
		scheduler: scheduler,
		interval:  interval,
		metrics:   m,
		log:       logger.With().Str("component", "poller").Logger(),
	}
}

// Run checks all devices every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	for {
		cycleID, err := uuid.GenerateUUID()
		if err != nil {
			return fmt.Errorf("failed to generate uuid for poll cycle, probably need restart: %w", err)
		}
		p.RunCycle(ctx, cycleID)

		p.log.Info().Msgf("will check hotspots again in another %.0f minutes", p.interval.Minutes())
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(p.interval):
		}
	}
}

// RunCycle checks every device not under CPR and returns how many were checked.
func (p *Poller) RunCycle(ctx context.Context, cycleID string) int {
	logger := p.log.With().Str("cycle_id", cycleID).Logger()
	logger.Info().Msg("checking hotspots...")
	p.metrics.Increment(metrics.PollCycleTotal)

	checked := 0
	for _, device := range p.devices {
		if ctx.Err() != nil {
			return checked
		}
		if p.scheduler.InProgress(device.Name) {
			logger.Info().Msgf("skipping check on %s as cpr still in progress", device.Name)
			p.metrics.Increment(metrics.PollSkipped)
			continue
		}
		checked++
		_, err := p.scheduler.CheckDevice(ctx, device)
		if err != nil {
			logger.Error().Err(err).Str("device", device.Name.String()).Msg("hotspot check aborted")
		}
	}
	return checked
}
