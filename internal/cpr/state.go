package cpr

import (
	"sync"

	"github.com/Sh00ty/hotspot-cpr/internal/models"
)

// RemediationState holds devices with a CPR sequence in flight, each mapped to its sequence id.
type RemediationState struct {
	members map[models.DeviceName]string
	mu      *sync.Mutex
}

func NewRemediationState() *RemediationState {
	return &RemediationState{
		members: make(map[models.DeviceName]string, 16),
		mu:      &sync.Mutex{},
	}
}

// TryAdd registers the device, false means a sequence is already running for it.
func (s *RemediationState) TryAdd(name models.DeviceName, cprID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.members[name]; exists {
		return false
	}
	s.members[name] = cprID
	return true
}

// Remove clears the device only if cprID still owns it.
func (s *RemediationState) Remove(name models.DeviceName, cprID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, exists := s.members[name]
	if !exists || owner != cprID {
		return false
	}
	delete(s.members, name)
	return true
}

func (s *RemediationState) Contains(name models.DeviceName) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.members[name]
	return exists
}

func (s *RemediationState) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.members)
}
