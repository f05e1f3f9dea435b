package cpr

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Sh00ty/hotspot-cpr/internal/models"
)

type MockStatusClient struct {
	mock.Mock
}

func (m *MockStatusClient) NetworkHeight(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatusClient) DeviceHeight(ctx context.Context, address string) (int64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(int64), args.Error(1)
}

// recordingControl remembers every command in call order.
type recordingControl struct {
	mu       sync.Mutex
	commands []models.Command
	failOn   map[models.Command]error
	onCall   func(models.Command)
}

func (r *recordingControl) Do(_ context.Context, _ models.Device, command models.Command) (bool, error) {
	r.mu.Lock()
	r.commands = append(r.commands, command)
	err := r.failOn[command]
	onCall := r.onCall
	r.mu.Unlock()

	if onCall != nil {
		onCall(command)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *recordingControl) Commands() []models.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.commands)
}

type pendingTimer struct {
	after time.Duration
	f     func()
}

// fakeTimers collects delayed actions and fires them on demand in offset order.
type fakeTimers struct {
	mu      sync.Mutex
	pending []pendingTimer
}

func (ft *fakeTimers) AfterFunc(d time.Duration, f func()) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.pending = append(ft.pending, pendingTimer{after: d, f: f})
}

func (ft *fakeTimers) Delays() []time.Duration {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	result := make([]time.Duration, 0, len(ft.pending))
	for _, p := range ft.pending {
		result = append(result, p.after)
	}
	return result
}

// FireNext runs the earliest pending action and returns its offset.
func (ft *fakeTimers) FireNext() (time.Duration, bool) {
	ft.mu.Lock()
	if len(ft.pending) == 0 {
		ft.mu.Unlock()
		return 0, false
	}
	idx := 0
	for i, p := range ft.pending {
		if p.after < ft.pending[idx].after {
			idx = i
		}
	}
	next := ft.pending[idx]
	ft.pending = slices.Delete(ft.pending, idx, idx+1)
	ft.mu.Unlock()

	next.f()
	return next.after, true
}

var testDevice = models.Device{
	Name:    "garage",
	Address: "112abc",
	IP:      "192.168.1.20",
	Token:   "dG9rZW4=",
}
