package scheduler

import (
	"sync"
	"time"
)

// Clock supplies pass timestamps. Only differences between readings matter.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// NewRealClock returns the wall clock.
func NewRealClock() Clock { return realClock{} }

// MockClock is a manually advanced Clock for tests and offline runs.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
