// Package trackers annotates loop iteration with progress reporting. Wrapping
// a sequence with For prints one line per step, e.g.
//
//	(1/10) lazy loop - 1.08s
//
// carrying the 1-based step index, the total when it is known, the label the
// loop was wrapped with, and the wall-clock time since the loop started.
// WhileTracker and TaskTracker cover condition-driven loops and background
// work with a cycling spinner instead of an index/total pair.
//
// Output goes to standard output by default. On terminals the line is
// rewritten in place with a carriage return and finished with a newline when
// the loop ends; on plain writers every step is newline-terminated. Trackers
// can additionally fan step events out to a progress.Emitter (see the
// progress package) for structured logging or Prometheus metrics.
package trackers

import (
	"time"

	"github.com/google/uuid"

	"github.com/teviroff/trackers/progress"
)

// Clock supplies the time base for elapsed measurements. The default
// implementation uses time.Now; tests inject deterministic clocks.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// spinFrames is the indicator cycle used by WhileTracker and TaskTracker.
var spinFrames = [...]string{"-", "\\", "|", "/"}

// loop carries the state shared by every tracker flavor: identity, label,
// counters, the start timestamp, and the configured renderer/emitter.
type loop struct {
	id      [16]byte
	label   string
	opts    Options
	rend    *renderer
	startTS time.Time
	index   int64
	total   int64
}

func newLoop(label string, opts []Option) *loop {
	o := buildOptions(opts)
	return &loop{
		id:    progress.UUIDToBytes(uuid.New()),
		label: label,
		opts:  o,
		rend:  newRenderer(o),
		total: int64(o.Total),
	}
}

// begin stamps the start time and announces the loop to the emitter.
func (l *loop) begin() {
	l.startTS = l.opts.Clock.Now()
	l.emit(progress.StageLoopStart, 0)
}

func (l *loop) elapsed() time.Duration {
	return l.opts.Clock.Now().Sub(l.startTS)
}

// step advances the counter, renders the progress line, and emits the step
// event. It returns the elapsed time it rendered.
func (l *loop) step() time.Duration {
	l.index++
	elapsed := l.elapsed()
	l.rend.step(countPrefix(l.index, l.total), l.label, elapsed)
	l.emit(progress.StageLoopStep, elapsed)
	return elapsed
}

// spin is the WhileTracker/TaskTracker variant of step: no total, a cycling
// indicator frame between the count and the label.
func (l *loop) spin(frame string) time.Duration {
	l.index++
	elapsed := l.elapsed()
	l.rend.step(countPrefix(l.index, 0), frame+" "+l.label, elapsed)
	l.emit(progress.StageLoopStep, elapsed)
	return elapsed
}

// finish terminates the rendered line and emits the closing event.
func (l *loop) finish(aborted bool) {
	l.rend.finish()
	if aborted {
		l.emit(progress.StageLoopAbort, l.elapsed())
		return
	}
	l.emit(progress.StageLoopDone, l.elapsed())
}

func (l *loop) emit(stage progress.Stage, elapsed time.Duration) {
	if l.opts.Emitter == nil {
		return
	}
	l.opts.Emitter.Emit(progress.Event{
		TrackerID: l.id,
		TS:        l.opts.Clock.Now().UTC(),
		Stage:     stage,
		Label:     l.label,
		Index:     l.index,
		Total:     l.total,
		Elapsed:   elapsed,
	})
}
