package live

import (
	"fmt"
	"time"

	"ballot/internal/candidates"
	"ballot/internal/recommend"
)

// pipelineStages lists stages in display order.
var pipelineStages = []recommend.Stage{
	recommend.StageResearch,
	recommend.StageIssueAnalysis,
	recommend.StageRecommendation,
}

// Start resets state for a new race analysis.
func Start(race string, records []candidates.Record, now time.Time) State {
	state := State{Race: race, StartedAt: now}
	for _, stage := range pipelineStages {
		state.Stages = append(state.Stages, StageStatus{Stage: stage, State: StagePending})
	}
	for i, record := range records {
		state.Rows = append(state.Rows, CandidateRow{Index: i, Name: record.Name, Party: record.Party, Status: RowQueued})
	}
	state.Counts = recount(state.Rows)
	return state
}

// Reduce applies a pipeline event to the UI state.
func Reduce(state State, event recommend.Event) State {
	switch event.Type {
	case recommend.EventStageStart, recommend.EventStageDone, recommend.EventStageFailed:
		state = applyStageEvent(state, event)
	case recommend.EventLookupStart, recommend.EventLookupDone, recommend.EventLookupFailed:
		state = ensureRow(state, event)
		state = applyLookupEvent(state, event)
	}
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// Finish marks the analysis complete.
func Finish(state State, errMsg string) State {
	state.Finished = true
	state.Error = errMsg
	if errMsg != "" {
		state.LastEvent = "Analysis failed: " + errMsg
	} else {
		state.LastEvent = "Analysis complete"
	}
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, event recommend.Event) State {
	if event.CandidateIndex < 0 || event.CandidateIndex < len(state.Rows) {
		return state
	}
	rows := make([]CandidateRow, event.CandidateIndex+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = CandidateRow{Index: i, Status: RowQueued}
	}
	state.Rows = rows
	return state
}

func applyLookupEvent(state State, event recommend.Event) State {
	if event.CandidateIndex < 0 || event.CandidateIndex >= len(state.Rows) {
		return state
	}
	row := state.Rows[event.CandidateIndex]
	if row.Name == "" {
		row.Name = event.Candidate
	}
	switch event.Type {
	case recommend.EventLookupStart:
		row.Status = RowSearching
		row.StartedAt = event.EmittedAt
		row.FinishedAt = time.Time{}
		row.Error = ""
		row.Lookups++
	case recommend.EventLookupDone:
		row.Status = RowDone
		row.FinishedAt = event.EmittedAt
	case recommend.EventLookupFailed:
		row.Status = RowFailed
		row.FinishedAt = event.EmittedAt
		row.Error = event.Error
	}
	state.Rows[event.CandidateIndex] = row
	return state
}

func applyStageEvent(state State, event recommend.Event) State {
	index := -1
	for i, stage := range state.Stages {
		if stage.Stage == event.Stage {
			index = i
			break
		}
	}
	if index < 0 {
		state.Stages = append(state.Stages, StageStatus{Stage: event.Stage, State: StagePending})
		index = len(state.Stages) - 1
	}
	stage := state.Stages[index]
	switch event.Type {
	case recommend.EventStageStart:
		stage.State = StageRunning
		stage.StartedAt = event.EmittedAt
		stage.FinishedAt = time.Time{}
	case recommend.EventStageDone:
		stage.State = StageDone
		stage.FinishedAt = event.EmittedAt
	case recommend.EventStageFailed:
		stage.State = StageFailed
		stage.FinishedAt = event.EmittedAt
	}
	state.Stages[index] = stage
	return state
}

// recount recomputes status counts for the current rows.
func recount(rows []CandidateRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case RowQueued:
			counts.Queued++
		case RowSearching:
			counts.Searching++
		case RowDone:
			counts.Done++
		case RowFailed:
			counts.Failed++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event recommend.Event) string {
	switch event.Type {
	case recommend.EventLookupDone:
		return fmt.Sprintf("Researched %s (%s)", event.Candidate, formatDuration(event.Elapsed))
	case recommend.EventLookupFailed:
		return fmt.Sprintf("Research for %s failed: %s", event.Candidate, event.Error)
	case recommend.EventStageStart:
		return "Started " + stageLabel(event.Stage)
	case recommend.EventStageDone:
		return fmt.Sprintf("Finished %s (%s)", stageLabel(event.Stage), formatDuration(event.Elapsed))
	case recommend.EventStageFailed:
		return fmt.Sprintf("%s failed: %s", stageLabel(event.Stage), event.Error)
	}
	return ""
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(100 * time.Millisecond).String()
}
