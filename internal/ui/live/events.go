package live

import (
	"ballot/internal/candidates"
	"ballot/internal/recommend"
)

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventAnalysisStart signals the start of a race analysis.
	EventAnalysisStart EventKind = iota
	// EventPipeline delivers a pipeline status update.
	EventPipeline
	// EventAnalysisEnd signals analysis completion.
	EventAnalysisEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind     EventKind
	Race     string
	Records  []candidates.Record
	Pipeline recommend.Event
	Error    string
}
