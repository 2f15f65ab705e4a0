package store

import (
	"sync"
	"time"

	"github.com/i474232898/location-weather/internal/lookup"
)

// MemoryStore is a concurrency-safe holder for the single orchestration
// aggregate. Every method returns a copy; callers never see internal pointers.
type MemoryStore struct {
	mu    sync.RWMutex
	state lookup.Snapshot
}

// NewMemoryStore creates a MemoryStore in the idle state.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: lookup.Snapshot{Status: lookup.StatusIdle},
	}
}

// Begin clears the previous outcome and marks a new run as loading.
func (s *MemoryStore) Begin(runID string, startedAt time.Time) lookup.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = lookup.Snapshot{
		Status:    lookup.StatusRunning,
		RunID:     runID,
		Loading:   true,
		StartedAt: startedAt,
	}
	return s.state.Clone()
}

// SetLocation publishes the location of the current run.
func (s *MemoryStore) SetLocation(loc lookup.Location) lookup.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Location = &loc
	return s.state.Clone()
}

// Succeed stores the weather and ends the run. Weather is dropped if no
// location was published for this run.
func (s *MemoryStore) Succeed(w lookup.Weather, finishedAt time.Time) lookup.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Location == nil {
		s.state.Status = lookup.StatusFailed
		s.state.Error = lookup.MsgUnexpected
	} else {
		s.state.Status = lookup.StatusSucceeded
		s.state.Weather = &w
		s.state.Error = ""
	}
	s.state.Loading = false
	s.state.FinishedAt = finishedAt
	return s.state.Clone()
}

// Fail records the error message and ends the run. Any location already
// published for this run is kept.
func (s *MemoryStore) Fail(message string, finishedAt time.Time) lookup.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if message == "" {
		message = lookup.MsgUnexpected
	}
	s.state.Status = lookup.StatusFailed
	s.state.Weather = nil
	s.state.Error = message
	s.state.Loading = false
	s.state.FinishedAt = finishedAt
	return s.state.Clone()
}

// Snapshot returns a copy of the current state.
func (s *MemoryStore) Snapshot() lookup.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone()
}
