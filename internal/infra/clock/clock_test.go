package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_EveryAndCancel(t *testing.T) {
	var fired atomic.Int32

	task := New().Every(5*time.Millisecond, func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() >= 2 }, time.Second, time.Millisecond)

	task.Cancel()
	task.Cancel()

	settled := fired.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, fired.Load(), settled+1)
}

func TestFake_FiresInOrder(t *testing.T) {
	start := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	var calls []string
	fake.Every(2*time.Second, func() { calls = append(calls, "two") })
	fake.Every(time.Second, func() { calls = append(calls, "one") })

	fake.Advance(4 * time.Second)

	assert.Equal(t, []string{"one", "two", "one", "one", "two", "one"}, calls)
	assert.Equal(t, start.Add(4*time.Second), fake.Now())
}

func TestFake_NowDuringCallback(t *testing.T) {
	start := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	var seen []time.Time
	fake.Every(3*time.Second, func() { seen = append(seen, fake.Now()) })
	fake.Advance(7 * time.Second)

	assert.Equal(t, []time.Time{start.Add(3 * time.Second), start.Add(6 * time.Second)}, seen)
}

func TestFake_CancelInsideCallback(t *testing.T) {
	fake := NewFake(time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC))

	count := 0
	var task interface{ Cancel() }
	task = fake.Every(time.Second, func() {
		count++
		if count == 2 {
			task.Cancel()
		}
	})

	fake.Advance(10 * time.Second)

	assert.Equal(t, 2, count)
	assert.Zero(t, fake.ActiveTasks())
}

func TestFake_Set(t *testing.T) {
	start := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	count := 0
	fake.Every(time.Second, func() { count++ })

	next := start.Add(24 * time.Hour)
	fake.Set(next)
	assert.Zero(t, count)
	assert.Equal(t, next, fake.Now())

	fake.Advance(time.Second)
	assert.Equal(t, 1, count)
}
