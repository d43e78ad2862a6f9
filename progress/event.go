package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageLoopStart Stage = "LOOP_START"
	StageLoopStep  Stage = "LOOP_STEP"
	StageLoopDone  Stage = "LOOP_DONE"
	StageLoopAbort Stage = "LOOP_ABORT"
)

// Event captures a single milestone in the life of a tracked loop.
type Event struct {
	// TrackerID uniquely identifies a tracker run using the 16-byte UUID form.
	TrackerID [16]byte
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which loop milestone occurred.
	Stage Stage
	// Label is the descriptive name the loop was wrapped with.
	Label string
	// Index is the 1-based step count at the time of the event.
	Index int64
	// Total is the announced sequence length; zero means unknown.
	Total int64
	// Elapsed is the wall-clock time since the tracker started.
	Elapsed time.Duration
	// Note lets emitters attach low-volume debug context (e.g. abort reasons).
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.TrackerID == [16]byte{} {
		return errors.New("tracker id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	if e.Label == "" {
		return errors.New("label is required")
	}
	switch e.Stage {
	case StageLoopStart, StageLoopDone, StageLoopAbort:
	case StageLoopStep:
		if e.Index < 1 {
			return errors.New("step requires index >= 1")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Index < 0 {
		return errors.New("index must be >= 0")
	}
	if e.Total < 0 {
		return errors.New("total must be >= 0")
	}
	if e.Total > 0 && e.Index > e.Total {
		return fmt.Errorf("index %d exceeds total %d", e.Index, e.Total)
	}
	if e.Elapsed < 0 {
		return errors.New("elapsed must be >= 0")
	}
	return nil
}

// TrackerUUID converts the binary tracker ID to uuid.UUID for sinks.
func (e Event) TrackerUUID() uuid.UUID {
	return uuid.UUID(e.TrackerID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}
