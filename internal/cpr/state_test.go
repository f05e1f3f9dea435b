package cpr

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sh00ty/hotspot-cpr/internal/models"
)

func TestRemediationState(t *testing.T) {
	state := NewRemediationState()

	assert.True(t, state.TryAdd("garage", "cpr-1"))
	assert.False(t, state.TryAdd("garage", "cpr-2"))
	assert.True(t, state.Contains("garage"))
	assert.Equal(t, 1, state.Len())

	assert.False(t, state.Remove("garage", "cpr-2"), "only the owning sequence can clear")
	assert.True(t, state.Remove("garage", "cpr-1"))
	assert.False(t, state.Remove("garage", "cpr-1"), "second removal is a no-op")
	assert.False(t, state.Contains("garage"))
}

func TestRemediationStateConcurrentAdd(t *testing.T) {
	state := NewRemediationState()
	var (
		wg    sync.WaitGroup
		added atomic.Int32
	)
	for i := 0; i < 64; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if state.TryAdd(models.DeviceName("garage"), fmt.Sprintf("cpr-%d", i)) {
				added.Add(1)
			}
			_ = state.Contains("garage")
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), added.Load())
	assert.Equal(t, 1, state.Len())
}
