// Package clock provides the wall clock and tickers behind service.Scheduler.
package clock

import (
	"sync"
	"time"

	"attendance/internal/domain/service"
)

type realClock struct{}

// New returns a Scheduler backed by time.Now and time.Ticker
func New() service.Scheduler {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Every(interval time.Duration, fn func()) service.Task {
	t := &tickerTask{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}

	go t.run(fn)

	return t
}

type tickerTask struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTask) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			// Cancel may race with a tick that is already queued
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

func (t *tickerTask) Cancel() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
