package recommend

import (
	"time"

	"ballot/internal/candidates"
)

// EventType identifies a pipeline status update for observers.
type EventType string

const (
	// EventLookupStart marks a candidate search in progress.
	EventLookupStart EventType = "lookup_start"
	// EventLookupDone marks a finished candidate search.
	EventLookupDone EventType = "lookup_done"
	// EventLookupFailed marks a failed candidate search.
	EventLookupFailed EventType = "lookup_failed"
	// EventStageStart marks the start of a stage.
	EventStageStart EventType = "stage_start"
	// EventStageDone marks a completed stage.
	EventStageDone EventType = "stage_done"
	// EventStageFailed marks a failed stage.
	EventStageFailed EventType = "stage_failed"
)

// Event carries a single status update for an analysis.
type Event struct {
	Race           string
	Type           EventType
	Stage          Stage
	CandidateIndex int
	Candidate      string
	Elapsed        time.Duration
	Error          string
	EmittedAt      time.Time
}

// Observer receives analysis lifecycle events for UI or logging.
type Observer interface {
	// OnAnalysisStart signals the start of a race analysis.
	OnAnalysisStart(race string, records []candidates.Record)
	// OnEvent delivers a status update. It may be called concurrently.
	OnEvent(event Event)
	// OnAnalysisEnd signals completion. err is nil on success.
	OnAnalysisEnd(result Result, err error)
}

// lookupObserver forwards research progress as pipeline events.
type lookupObserver struct {
	race     string
	observer Observer
	started  []time.Time
}

func newLookupObserver(race string, count int, observer Observer) *lookupObserver {
	return &lookupObserver{race: race, observer: observer, started: make([]time.Time, count)}
}

func (o *lookupObserver) OnLookupStart(index int, name string) {
	now := time.Now()
	if index >= 0 && index < len(o.started) {
		o.started[index] = now
	}
	o.observer.OnEvent(Event{
		Race:           o.race,
		Type:           EventLookupStart,
		Stage:          StageResearch,
		CandidateIndex: index,
		Candidate:      name,
		EmittedAt:      now,
	})
}

func (o *lookupObserver) OnLookupDone(index int, name string, err error) {
	now := time.Now()
	event := Event{
		Race:           o.race,
		Type:           EventLookupDone,
		Stage:          StageResearch,
		CandidateIndex: index,
		Candidate:      name,
		EmittedAt:      now,
	}
	if index >= 0 && index < len(o.started) && !o.started[index].IsZero() {
		event.Elapsed = now.Sub(o.started[index])
	}
	if err != nil {
		event.Type = EventLookupFailed
		event.Error = err.Error()
	}
	o.observer.OnEvent(event)
}
