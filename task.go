package trackers

import (
	"sync"
	"sync/atomic"
	"time"
)

// TaskTracker renders a heartbeat line for background work that is not
// structured as a loop: start it before the work, stop it after.
//
//	t := trackers.Task("rebuilding index")
//	t.Start()
//	defer t.Stop()
//
// A goroutine rewrites the line every interval (see WithInterval) with a
// cycling indicator and the elapsed time.
type TaskTracker struct {
	l        *loop
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  atomic.Bool

	startOnce sync.Once
	stopOnce  sync.Once
}

// Task constructs a TaskTracker. Nothing is rendered until Start.
func Task(label string, opts ...Option) *TaskTracker {
	l := newLoop(label, opts)
	return &TaskTracker{
		l:        l,
		interval: l.opts.Interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the heartbeat goroutine. Subsequent calls are no-ops.
func (t *TaskTracker) Start() {
	t.startOnce.Do(func() {
		t.started.Store(true)
		t.l.begin()
		go t.run()
	})
}

// Stop halts the heartbeat, terminates the rendered line, and blocks until
// the goroutine exits. Safe to call multiple times; a Stop without a prior
// Start renders nothing.
func (t *TaskTracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
		if !t.started.Load() {
			return
		}
		<-t.doneCh
		t.l.finish(false)
	})
}

// Count reports how many heartbeats have been rendered. It must only be
// called after Stop has returned; the heartbeat goroutine owns the counter
// while it runs.
func (t *TaskTracker) Count() int64 {
	return t.l.index
}

func (t *TaskTracker) run() {
	defer close(t.doneCh)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	frame := 0
	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.l.spin(spinFrames[frame%len(spinFrames)])
			frame++
		}
	}
}
