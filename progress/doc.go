// Package progress provides the event primitives, non-blocking hub, and
// emitter interfaces that trackers use to report loop milestones. It batches
// events on a background goroutine and fans them out to pluggable sinks such
// as structured logs or Prometheus metrics.
package progress
