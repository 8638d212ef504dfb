package store

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no upstream check has been recorded yet.
	ErrNotFound = errors.New("no upstream checks recorded")
)

// Check is the outcome of one upstream probe.
type Check struct {
	CheckedAt time.Time `json:"checkedAt"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	LatencyMs int64     `json:"latencyMs"`
}

// Status summarizes the recorded checks.
type Status struct {
	LastCheck           Check     `json:"lastCheck"`
	LastSuccess         time.Time `json:"lastSuccess"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	Recent              []Check   `json:"recent"`
}

// MemoryStore is a concurrency-safe in-memory log of upstream checks.
type MemoryStore struct {
	mu sync.RWMutex

	checks              []Check
	lastSuccess         time.Time
	consecutiveFailures int

	// retention configuration
	maxHistory int           // max number of checks kept
	maxAge     time.Duration // optional max age for checks
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Record appends a check and enforces retention.
func (s *MemoryStore) Record(c Check) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checks = append(s.checks, c)

	if c.OK {
		s.lastSuccess = c.CheckedAt
		s.consecutiveFailures = 0
	} else {
		s.consecutiveFailures++
	}

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.checks) > s.maxHistory {
		over := len(s.checks) - s.maxHistory
		s.checks = s.checks[over:]
	}

	// Enforce retention by age; the newest check is always kept.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.checks)-1; i++ {
			if !s.checks[i].CheckedAt.Before(cutoff) {
				break
			}
		}
		s.checks = s.checks[i:]
	}
}

// Status returns a copy of the current summary.
func (s *MemoryStore) Status() (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.checks) == 0 {
		return Status{}, ErrNotFound
	}

	recent := make([]Check, len(s.checks))
	copy(recent, s.checks)

	return Status{
		LastCheck:           recent[len(recent)-1],
		LastSuccess:         s.lastSuccess,
		ConsecutiveFailures: s.consecutiveFailures,
		Recent:              recent,
	}, nil
}
