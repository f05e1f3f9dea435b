package cpr

import (
	"fmt"
	"time"

	"github.com/Sh00ty/hotspot-cpr/internal/models"
)

const (
	// RebootSettle is how long a hotspot needs to come back after a reboot.
	RebootSettle = 180 * time.Second
	// ResetSettle is how long a hotspot needs to resync after its blocks were reset.
	ResetSettle = 2100 * time.Second
)

type Timings struct {
	RebootSettle time.Duration
	ResetSettle  time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		RebootSettle: RebootSettle,
		ResetSettle:  ResetSettle,
	}
}

// step is a single CPR action, after is counted from the start of the sequence.
type step struct {
	after   time.Duration
	command models.Command
}

func (s step) String() string {
	return fmt.Sprintf("{command=%s, after=%s}", s.command, s.after)
}

// planSequence returns the steps ordered by offset. The last step is terminal
// and clears the device once its command returned.
func planSequence(policy models.Policy, timings Timings) []step {
	if policy.RebootBeforeReset {
		steps := []step{
			{after: 0, command: models.CommandReboot},
			{after: timings.RebootSettle, command: models.CommandResetBlocks},
		}
		if policy.RebootAfterReset {
			steps = append(steps, step{
				after:   timings.RebootSettle + timings.ResetSettle,
				command: models.CommandReboot,
			})
		}
		return steps
	}

	final := step{after: timings.ResetSettle, command: models.CommandNone}
	if policy.RebootAfterReset {
		// reboot and clearing share the same offset, run them as one step
		final.command = models.CommandReboot
	}
	return []step{
		{after: 0, command: models.CommandResetBlocks},
		final,
	}
}
