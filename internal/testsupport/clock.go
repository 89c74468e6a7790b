package testsupport

import (
	"sort"
	"sync"
	"time"

	"focusloop/internal/core/clock"
)

// FakeClock is a manually advanced clock. Callbacks run synchronously on the
// goroutine calling Advance, in deadline order.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	pending []*fakeTimer
}

type fakeTimer struct {
	clock    *FakeClock
	id       int
	deadline time.Time
	callback func()
}

// NewFakeClock returns a FakeClock starting at a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)}
}

// Now returns the fake current time.
func (fake *FakeClock) Now() time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.now
}

// AfterFunc schedules callback after delay on the fake timeline.
func (fake *FakeClock) AfterFunc(delay time.Duration, callback func()) clock.Timer {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.nextID++
	timer := &fakeTimer{
		clock:    fake,
		id:       fake.nextID,
		deadline: fake.now.Add(delay),
		callback: callback,
	}
	fake.pending = append(fake.pending, timer)
	return timer
}

// Pending reports how many callbacks are scheduled and not yet fired or stopped.
func (fake *FakeClock) Pending() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return len(fake.pending)
}

// Advance moves time forward, firing every callback whose deadline is reached,
// including callbacks scheduled by callbacks fired during the advance.
func (fake *FakeClock) Advance(delta time.Duration) {
	fake.mu.Lock()
	target := fake.now.Add(delta)
	fake.mu.Unlock()

	for {
		fake.mu.Lock()
		sort.SliceStable(fake.pending, func(i, j int) bool {
			if fake.pending[i].deadline.Equal(fake.pending[j].deadline) {
				return fake.pending[i].id < fake.pending[j].id
			}
			return fake.pending[i].deadline.Before(fake.pending[j].deadline)
		})
		if len(fake.pending) == 0 || fake.pending[0].deadline.After(target) {
			fake.now = target
			fake.mu.Unlock()
			return
		}
		next := fake.pending[0]
		fake.pending = fake.pending[1:]
		fake.now = next.deadline
		fake.mu.Unlock()

		next.callback()
	}
}

func (timer *fakeTimer) Stop() bool {
	fake := timer.clock
	fake.mu.Lock()
	defer fake.mu.Unlock()
	for index, candidate := range fake.pending {
		if candidate.id == timer.id {
			fake.pending = append(fake.pending[:index], fake.pending[index+1:]...)
			return true
		}
	}
	return false
}
