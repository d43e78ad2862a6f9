package trackers

import "sync"

// whileRegistry keeps one live WhileTracker per label so repeated While calls
// inside a loop condition reuse the same counter, mirroring a tracker that is
// constructed inline:
//
//	for trackers.While("name").Check(cond()) { ... }
var whileRegistry = struct {
	mu   sync.Mutex
	live map[string]*WhileTracker
}{live: make(map[string]*WhileTracker)}

// WhileTracker tracks condition-driven loops where no total exists. Each
// passing Check advances the count and renders a line with a cycling
// indicator, e.g.
//
//	(69420) \ name - 0.02s
type WhileTracker struct {
	l     *loop
	frame int
	done  bool
}

// While returns the live tracker for label, creating and starting one if
// needed. The tracker stays registered under its label until the condition
// fails or Done is called, so calling While in a loop condition is cheap.
func While(label string, opts ...Option) *WhileTracker {
	whileRegistry.mu.Lock()
	defer whileRegistry.mu.Unlock()
	if w, ok := whileRegistry.live[label]; ok {
		return w
	}
	w := &WhileTracker{l: newLoop(label, opts)}
	w.l.begin()
	whileRegistry.live[label] = w
	return w
}

// Check renders a progress line and reports cond back to the caller. A false
// cond finishes the tracker: the final line is terminated and the label is
// released for reuse. Checks after that stay false and render nothing.
func (w *WhileTracker) Check(cond bool) bool {
	if w.done {
		return false
	}
	if !cond {
		w.release(false)
		return false
	}
	frame := spinFrames[w.frame%len(spinFrames)]
	w.frame++
	w.l.spin(frame)
	return true
}

// Count reports how many times Check has passed.
func (w *WhileTracker) Count() int64 {
	return w.l.index
}

// Done finishes the tracker early, for loops abandoned before the condition
// fails. It is safe to call on an already finished tracker.
func (w *WhileTracker) Done() {
	if w.done {
		return
	}
	w.release(true)
}

func (w *WhileTracker) release(aborted bool) {
	w.done = true
	w.l.finish(aborted)
	whileRegistry.mu.Lock()
	delete(whileRegistry.live, w.l.label)
	whileRegistry.mu.Unlock()
}
