package sinks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/teviroff/trackers/progress"
)

// PrometheusSink exports tracker progress metrics via Prometheus. It owns all
// collectors for loops started/completed/running and per-label iteration
// counters. No HTTP handler is mounted; callers expose the registry however
// they see fit.
type PrometheusSink struct {
	loopsStarted   prometheus.Counter
	loopsCompleted *prometheus.CounterVec
	loopsRunning   prometheus.Gauge
	loopDuration   *prometheus.HistogramVec

	iterations   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec

	running *loopRegistry
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		loopsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackers_loops_started_total",
			Help: "Total tracked loops that have started.",
		}),
		loopsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trackers_loops_completed_total",
			Help: "Total tracked loops finished partitioned by result.",
		}, []string{"result"}),
		loopsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trackers_loops_running",
			Help: "Current number of live tracked loops.",
		}),
		loopDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trackers_loop_duration_seconds",
			Help:    "Wall time per finished loop.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300, 1800},
		}, []string{"result"}),
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trackers_iterations_total",
			Help: "Iterations observed partitioned by loop label.",
		}, []string{"label"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trackers_step_duration_seconds",
			Help:    "Latency between consecutive steps partitioned by label.",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"label"}),
		running: newLoopRegistry(),
	}
	for _, collector := range []prometheus.Collector{
		s.loopsStarted,
		s.loopsCompleted,
		s.loopsRunning,
		s.loopDuration,
		s.iterations,
		s.stepDuration,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the Prometheus collectors using the provided batch. It is
// safe for concurrent use by multiple goroutines.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		s.consumeEvent(evt)
	}
	return nil
}

func (s *PrometheusSink) consumeEvent(evt progress.Event) {
	switch evt.Stage {
	case progress.StageLoopStart:
		s.loopsStarted.Inc()
		if s.running.start(evt.TrackerID) {
			s.loopsRunning.Inc()
		}
	case progress.StageLoopStep:
		s.iterations.WithLabelValues(evt.Label).Inc()
		if delta, ok := s.running.step(evt.TrackerID, evt.Elapsed); ok {
			s.stepDuration.WithLabelValues(evt.Label).Observe(delta.Seconds())
		}
	case progress.StageLoopDone:
		s.finishLoop(evt, "success")
	case progress.StageLoopAbort:
		s.finishLoop(evt, "aborted")
	}
}

func (s *PrometheusSink) finishLoop(evt progress.Event, result string) {
	s.loopsCompleted.WithLabelValues(result).Inc()
	if evt.Elapsed > 0 {
		s.loopDuration.WithLabelValues(result).Observe(evt.Elapsed.Seconds())
	}
	if s.running.complete(evt.TrackerID) {
		s.loopsRunning.Dec()
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}

// loopRegistry deduplicates start/finish events per tracker and remembers the
// previous elapsed reading so step latency can be derived.
type loopRegistry struct {
	mu   sync.Mutex
	live map[[16]byte]time.Duration
}

func newLoopRegistry() *loopRegistry {
	return &loopRegistry{live: make(map[[16]byte]time.Duration)}
}

func (r *loopRegistry) start(id [16]byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[id]; ok {
		return false
	}
	r.live[id] = 0
	return true
}

func (r *loopRegistry) step(id [16]byte, elapsed time.Duration) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.live[id]
	if !ok {
		return 0, false
	}
	r.live[id] = elapsed
	if elapsed < prev {
		return 0, false
	}
	return elapsed - prev, true
}

func (r *loopRegistry) complete(id [16]byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[id]; !ok {
		return false
	}
	delete(r.live, id)
	return true
}
