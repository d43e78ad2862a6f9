package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/teviroff/trackers/progress"
)

// LogSink emits structured logs for debugging tracker streams. It is useful
// during development or when a metrics backend is unavailable.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs each event in the batch using structured fields.
func (s *LogSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		s.logger.Info("progress event",
			zap.String("tracker_id", evt.TrackerUUID().String()),
			zap.String("stage", string(evt.Stage)),
			zap.String("label", evt.Label),
			zap.Int64("index", evt.Index),
			zap.Int64("total", evt.Total),
			zap.Duration("elapsed", evt.Elapsed),
			zap.String("note", evt.Note),
		)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
