// Package clock provides the schedulers rounds and the controller use for delayed work.
package clock

import (
	"sort"
	"sync"
	"time"

	"party-quiz/internal/round"
)

// Real schedules callbacks on the runtime timer.
type Real struct{}

func (Real) AfterFunc(d time.Duration, fn func()) round.Timer {
	return time.AfterFunc(d, fn)
}

// Manual is a scheduler driven by Advance. Callbacks run on the goroutine calling Advance.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	m   *Manual
	at  time.Duration
	seq int
	fn  func()
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) round.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, at: m.now + d, seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for i, p := range t.m.pending {
		if p == t {
			t.m.pending = append(t.m.pending[:i], t.m.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves time forward by d, firing due callbacks in order, including ones they schedule.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		sort.SliceStable(m.pending, func(i, j int) bool {
			if m.pending[i].at != m.pending[j].at {
				return m.pending[i].at < m.pending[j].at
			}
			return m.pending[i].seq < m.pending[j].seq
		})
		if len(m.pending) == 0 || m.pending[0].at > target {
			m.now = target
			m.mu.Unlock()
			return
		}
		next := m.pending[0]
		m.pending = m.pending[1:]
		m.now = next.at
		m.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of scheduled callbacks that have not fired.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
