package live

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ballot/internal/recommend"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// stageLabel maps a stage to display text.
func stageLabel(stage recommend.Stage) string {
	switch stage {
	case recommend.StageResearch:
		return "candidate research"
	case recommend.StageIssueAnalysis:
		return "issue analysis"
	case recommend.StageRecommendation:
		return "recommendation"
	default:
		return strings.ReplaceAll(string(stage), "_", " ")
	}
}

// formatName truncates candidate names for display.
func formatName(name string, limit int) string {
	normalized := strings.Join(strings.Fields(name), " ")
	if limit <= 3 || len(normalized) <= limit {
		return normalized
	}
	return normalized[:limit-3] + "..."
}

// formatRowStatus renders the research status for a row.
func formatRowStatus(row CandidateRow, noColor bool) string {
	text := string(row.Status)
	if row.Status == RowFailed && row.Error != "" {
		text += ": " + formatName(row.Error, 40)
	}
	if row.Lookups > 1 && row.Status != RowFailed {
		text += " (x" + fmtInt(row.Lookups) + ")"
	}
	if noColor {
		return text
	}
	return rowStyle(row.Status).Render(text)
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row CandidateRow, now time.Time) string {
	if !row.FinishedAt.IsZero() && !row.StartedAt.IsZero() {
		return formatDuration(row.FinishedAt.Sub(row.StartedAt))
	}
	if !row.StartedAt.IsZero() {
		return formatDuration(now.Sub(row.StartedAt))
	}
	return ""
}

// formatStages renders the stage progression line.
func formatStages(stages []StageStatus, now time.Time, noColor bool) string {
	parts := make([]string, 0, len(stages))
	for _, stage := range stages {
		text := stageLabel(stage.Stage)
		switch stage.State {
		case StageRunning:
			if !stage.StartedAt.IsZero() {
				text += " " + formatDuration(now.Sub(stage.StartedAt))
			}
		case StageDone:
			text += " done"
		case StageFailed:
			text += " failed"
		}
		if !noColor {
			text = stageStyle(stage.State).Render(text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " > ")
}

// Palette shared by the header, rows and stage line.
const (
	colorAccent  = lipgloss.Color("33")
	colorOK      = lipgloss.Color("42")
	colorFailed  = lipgloss.Color("196")
	colorMuted   = lipgloss.Color("242")
	colorPending = lipgloss.Color("246")
)

func statusColor(running, done, failed bool, idle lipgloss.Color) lipgloss.Color {
	switch {
	case failed:
		return colorFailed
	case done:
		return colorOK
	case running:
		return colorAccent
	}
	return idle
}

func rowStyle(status RowStatus) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(statusColor(status == RowSearching, status == RowDone, status == RowFailed, colorPending))
}

func stageStyle(state StageState) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(statusColor(state == StageRunning, state == StageDone, state == StageFailed, colorMuted))
}
