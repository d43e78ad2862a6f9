package trackers

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teviroff/trackers/progress"
)

// syncBuffer guards a bytes.Buffer against concurrent writes from the
// heartbeat goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// TestTaskHeartbeat runs a task long enough for several heartbeats and checks
// the rendered lines and final event.
func TestTaskHeartbeat(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}
	emitter := &captureEmitter{}
	task := Task("long task", WithWriter(buf), WithEmitter(emitter), WithInterval(5*time.Millisecond))
	task.Start()

	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "long task - ")
	}, time.Second, time.Millisecond)

	task.Stop()
	require.GreaterOrEqual(t, task.Count(), int64(1))

	events := emitter.Events()
	require.NotEmpty(t, events)
	require.Equal(t, progress.StageLoopStart, events[0].Stage)
	require.Equal(t, progress.StageLoopDone, events[len(events)-1].Stage)
}

// TestTaskStopIdempotent ensures repeated stops neither panic nor render more.
func TestTaskStopIdempotent(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}
	task := Task("stop twice", WithWriter(buf), WithInterval(5*time.Millisecond))
	task.Start()
	time.Sleep(20 * time.Millisecond)
	task.Stop()

	before := buf.String()
	task.Stop()
	require.Equal(t, before, buf.String())
}

// TestTaskStopWithoutStart must be a no-op.
func TestTaskStopWithoutStart(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}
	task := Task("never started", WithWriter(buf))
	task.Stop()
	require.Empty(t, buf.String())
}
