package trackers

import (
	"io"
	"os"
	"time"

	"github.com/teviroff/trackers/progress"
)

const defaultTaskInterval = 100 * time.Millisecond

// Options configures a tracker. Zero values fall back to the defaults noted
// on each field; callers normally use the With* functional options instead of
// constructing Options directly.
type Options struct {
	// Writer is the sink progress lines are written to. Default: os.Stdout.
	Writer io.Writer

	// Total announces the sequence length for plain sequences where it
	// cannot be derived. Zero means unknown.
	Total int

	// Clock is the time source used for elapsed measurements.
	// Default: time.Now.
	Clock Clock

	// Emitter, when set, receives a progress.Event per loop milestone.
	Emitter progress.Emitter

	// Color enables coloring of the count prefix.
	Color bool

	// ForceTTY treats the writer as a terminal even when it is not one,
	// enabling in-place line rewriting.
	ForceTTY bool

	// Interval is the TaskTracker heartbeat period. Default: 100ms.
	Interval time.Duration
}

// Option mutates tracker Options.
type Option func(*Options)

// WithWriter directs progress lines to w instead of standard output.
func WithWriter(w io.Writer) Option {
	return func(o *Options) { o.Writer = w }
}

// WithTotal announces the sequence length so lines render as (i/total).
func WithTotal(n int) Option {
	return func(o *Options) { o.Total = n }
}

// WithClock overrides the time source; useful for deterministic tests.
func WithClock(c Clock) Option {
	return func(o *Options) { o.Clock = c }
}

// WithEmitter fans loop milestones out to e, typically a *progress.Hub.
func WithEmitter(e progress.Emitter) Option {
	return func(o *Options) { o.Emitter = e }
}

// WithColor toggles coloring of the count prefix.
func WithColor(enabled bool) Option {
	return func(o *Options) { o.Color = enabled }
}

// WithForceTTY forces terminal-style in-place line rewriting.
func WithForceTTY(force bool) Option {
	return func(o *Options) { o.ForceTTY = force }
}

// WithInterval sets the TaskTracker heartbeat period.
func WithInterval(d time.Duration) Option {
	return func(o *Options) { o.Interval = d }
}

func buildOptions(opts []Option) Options {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Writer == nil {
		o.Writer = os.Stdout
	}
	if o.Clock == nil {
		o.Clock = systemClock{}
	}
	if o.Total < 0 {
		o.Total = 0
	}
	if o.Interval <= 0 {
		o.Interval = defaultTaskInterval
	}
	return o
}
