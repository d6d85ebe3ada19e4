package types

import (
	"fmt"
	"sync"
	"time"
)

// LoadingState tracks a running peak extraction for display.
type LoadingState struct {
	IsLoading bool
	Message   string
	Progress  float64
	StartTime time.Time
	CanCancel bool
	mu        sync.RWMutex
}

// Start resets the state for a new load.
func (s *LoadingState) Start(message string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IsLoading = true
	s.Message = message
	s.Progress = 0
	s.StartTime = now
	s.CanCancel = true
}

// Finish marks the load as done.
func (s *LoadingState) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IsLoading = false
	s.Message = ""
	s.Progress = 0
	s.CanCancel = false
}

// UpdateProgress records a completion fraction in [0, 1].
func (s *LoadingState) UpdateProgress(fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ignore out-of-range and backwards reports
	if fraction < 0 || fraction > 1 || fraction < s.Progress {
		return
	}
	s.Progress = fraction
}

// GetETA extrapolates the remaining time from the progress so far.
func (s *LoadingState) GetETA(now time.Time) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Progress <= 0 || s.Progress >= 1 {
		return ""
	}

	elapsed := now.Sub(s.StartTime)
	if elapsed <= 0 {
		return ""
	}

	remaining := time.Duration(float64(elapsed) * (1 - s.Progress) / s.Progress)

	if remaining > 1*time.Hour {
		return fmt.Sprintf("%.1f hours", remaining.Hours())
	} else if remaining > 1*time.Minute {
		return fmt.Sprintf("%.1f minutes", remaining.Minutes())
	}
	return fmt.Sprintf("%.0f seconds", remaining.Seconds())
}
