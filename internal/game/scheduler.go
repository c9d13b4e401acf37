// internal/game/scheduler.go
//
// Repeating timers behind an interface, so tests can fire ticks by hand.

package game

import (
	"sync"
	"time"
)

// Timer is a running repeating timer.
type Timer interface {
	Stop()
}

// Scheduler starts repeating timers. The machine only ever keeps one running.
type Scheduler interface {
	Every(d time.Duration, fn func()) Timer
}

// RealScheduler runs fn on its own goroutine every d.
func RealScheduler() Scheduler { return tickerScheduler{} }

type tickerScheduler struct{}

func (tickerScheduler) Every(d time.Duration, fn func()) Timer {
	t := &tickerTimer{ticker: time.NewTicker(d), done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.ticker.C:
				fn()
			case <-t.done:
				return
			}
		}
	}()
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
