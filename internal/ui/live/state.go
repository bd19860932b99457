package live

import (
	"time"

	"ballot/internal/recommend"
)

// RowStatus is the research state of one candidate.
type RowStatus string

const (
	RowQueued    RowStatus = "queued"
	RowSearching RowStatus = "searching"
	RowDone      RowStatus = "done"
	RowFailed    RowStatus = "failed"
)

// StageState is the progress of one pipeline stage.
type StageState string

const (
	StagePending StageState = "pending"
	StageRunning StageState = "running"
	StageDone    StageState = "done"
	StageFailed  StageState = "failed"
)

// CandidateRow holds UI state for a single candidate.
type CandidateRow struct {
	Index      int
	Name       string
	Party      string
	Status     RowStatus
	Lookups    int
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// StageStatus holds UI state for a pipeline stage.
type StageStatus struct {
	Stage      recommend.Stage
	State      StageState
	StartedAt  time.Time
	FinishedAt time.Time
}

// StatusCounts aggregates candidate rows by status.
type StatusCounts struct {
	Queued    int
	Searching int
	Done      int
	Failed    int
}

// State captures the live UI state for one race analysis.
type State struct {
	Race      string
	StartedAt time.Time
	Stages    []StageStatus
	Rows      []CandidateRow
	Counts    StatusCounts
	LastEvent string
	Finished  bool
	Error     string
}

// Current returns the running stage, if any.
func (s State) Current() (StageStatus, bool) {
	for _, stage := range s.Stages {
		if stage.State == StageRunning {
			return stage, true
		}
	}
	return StageStatus{}, false
}
