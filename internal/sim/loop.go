package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultFPS = 60

// Loop is a goroutine-owned UI thread. Frame callbacks fire on a fixed tick
// and posted host callbacks run between frames on the same goroutine, so a
// field driven by a Loop never sees two callers at once.
type Loop struct {
	interval time.Duration
	frames   *ManualScheduler
	tasks    chan func()

	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	ticks    atomic.Uint64
}

// NewLoop builds a loop ticking at fps frames per second; fps <= 0 means
// DefaultFPS.
func NewLoop(fps int) *Loop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		frames:   NewManualScheduler(),
		tasks:    make(chan func(), 64),
		stopChan: make(chan struct{}),
	}
}

func (l *Loop) RequestFrame(cb func(time.Time)) func() {
	return l.frames.RequestFrame(cb)
}

// Post queues fn to run on the loop goroutine. It reports false once the
// loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopChan:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.stopChan:
		return false
	}
}

// Run drives the loop until ctx is cancelled or Close is called. Only one
// Run may be active.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return nil
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopChan:
			return nil
		case fn := <-l.tasks:
			fn()
		case now := <-ticker.C:
			l.drain()
			l.frames.Fire(now)
			l.ticks.Add(1)
		}
	}
}

// drain runs every task already queued, so input posted before a tick is
// seen by that tick's frame.
func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		default:
			return
		}
	}
}

// Close stops Run. Safe to call more than once.
func (l *Loop) Close() {
	l.stopOnce.Do(func() { close(l.stopChan) })
}

func (l *Loop) Interval() time.Duration { return l.interval }
func (l *Loop) Ticks() uint64           { return l.ticks.Load() }
