package sinks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/teviroff/trackers/progress"
)

// TestPrometheusSinkRecordsMetrics ensures counters and histograms are incremented from events.
func TestPrometheusSinkRecordsMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	trackerID := progress.UUIDToBytes(uuid.New())
	now := time.Now().UTC()
	batch := []progress.Event{
		{TrackerID: trackerID, TS: now, Stage: progress.StageLoopStart, Label: "lazy loop"},
		{
			TrackerID: trackerID,
			TS:        now.Add(time.Second),
			Stage:     progress.StageLoopStep,
			Label:     "lazy loop",
			Index:     1,
			Total:     3,
			Elapsed:   time.Second,
		},
		{
			TrackerID: trackerID,
			TS:        now.Add(2 * time.Second),
			Stage:     progress.StageLoopStep,
			Label:     "lazy loop",
			Index:     2,
			Total:     3,
			Elapsed:   2 * time.Second,
		},
		{
			TrackerID: trackerID,
			TS:        now.Add(3 * time.Second),
			Stage:     progress.StageLoopDone,
			Label:     "lazy loop",
			Index:     3,
			Total:     3,
			Elapsed:   3 * time.Second,
		},
	}

	require.NoError(t, sink.Consume(context.Background(), batch))

	require.Equal(t, 1.0, testutil.ToFloat64(sink.loopsStarted))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.loopsCompleted.WithLabelValues("success")))
	require.Equal(t, 0.0, testutil.ToFloat64(sink.loopsCompleted.WithLabelValues("aborted")))
	require.Equal(t, 0.0, testutil.ToFloat64(sink.loopsRunning))
	require.Equal(t, 2.0, testutil.ToFloat64(sink.iterations.WithLabelValues("lazy loop")))
	require.Equal(t, 1, testutil.CollectAndCount(sink.loopDuration, "trackers_loop_duration_seconds"))
	require.Equal(t, 1, testutil.CollectAndCount(sink.stepDuration, "trackers_step_duration_seconds"))
}

// TestPrometheusSinkAbortedLoops checks the aborted result label and the
// running gauge bookkeeping.
func TestPrometheusSinkAbortedLoops(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	trackerID := progress.UUIDToBytes(uuid.New())
	now := time.Now().UTC()

	require.NoError(t, sink.Consume(context.Background(), []progress.Event{
		{TrackerID: trackerID, TS: now, Stage: progress.StageLoopStart, Label: "doomed"},
	}))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.loopsRunning))

	require.NoError(t, sink.Consume(context.Background(), []progress.Event{
		{TrackerID: trackerID, TS: now.Add(time.Second), Stage: progress.StageLoopAbort, Label: "doomed", Index: 1, Elapsed: time.Second},
	}))
	require.Equal(t, 0.0, testutil.ToFloat64(sink.loopsRunning))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.loopsCompleted.WithLabelValues("aborted")))
}

// TestPrometheusSinkDuplicateStart verifies the running gauge is deduplicated
// per tracker ID.
func TestPrometheusSinkDuplicateStart(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	trackerID := progress.UUIDToBytes(uuid.New())
	evt := progress.Event{TrackerID: trackerID, TS: time.Now().UTC(), Stage: progress.StageLoopStart, Label: "dup"}

	require.NoError(t, sink.Consume(context.Background(), []progress.Event{evt, evt}))
	require.Equal(t, 2.0, testutil.ToFloat64(sink.loopsStarted))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.loopsRunning))
}

// TestPrometheusSinkRegistrationConflict surfaces registry errors to the caller.
func TestPrometheusSinkRegistrationConflict(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	_, err = NewPrometheusSink(reg)
	require.Error(t, err)
}
