package clock

import (
	"sort"
	"sync"
	"time"

	"attendance/internal/domain/service"
)

// Fake is a manually advanced Scheduler for tests
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*fakeTask
}

type fakeTask struct {
	clock     *Fake
	seq       int
	interval  time.Duration
	next      time.Time
	fn        func()
	cancelled bool
}

// NewFake returns a Fake clock set to now
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

// Now returns the fake wall-clock time
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

// Every registers fn to fire each interval of fake time
func (f *Fake) Every(interval time.Duration, fn func()) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	t := &fakeTask{
		clock:    f,
		seq:      f.seq,
		interval: interval,
		next:     f.now.Add(interval),
		fn:       fn,
	}
	f.tasks = append(f.tasks, t)

	return t
}

// Advance moves the clock forward by d, firing due tasks in time order.
// Tasks run without the clock lock held, so they may register or cancel tasks.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		task := f.nextDueLocked(target)
		if task == nil {
			f.now = target
			f.mu.Unlock()

			return
		}

		f.now = task.next
		task.next = task.next.Add(task.interval)
		fn := task.fn
		f.mu.Unlock()

		fn()
	}
}

// Set jumps the clock to t without firing any task. Pending tasks are
// rescheduled relative to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = t
	for _, task := range f.tasks {
		task.next = t.Add(task.interval)
	}
}

// ActiveTasks returns the number of registered, uncancelled tasks
func (f *Fake) ActiveTasks() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.tasks)
}

func (f *Fake) nextDueLocked(target time.Time) *fakeTask {
	due := make([]*fakeTask, 0, len(f.tasks))
	for _, t := range f.tasks {
		if !t.next.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].next.Equal(due[j].next) {
			return due[i].seq < due[j].seq
		}

		return due[i].next.Before(due[j].next)
	})

	return due[0]
}

func (t *fakeTask) Cancel() {
	f := t.clock

	f.mu.Lock()
	defer f.mu.Unlock()

	if t.cancelled {
		return
	}
	t.cancelled = true

	for i, task := range f.tasks {
		if task == t {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)

			break
		}
	}
}
