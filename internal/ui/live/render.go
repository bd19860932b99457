package live

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func renderHeader(state State, now time.Time, noColor bool) string {
	line := "Analyzing " + state.Race
	if !state.StartedAt.IsZero() {
		line += " | Elapsed: " + now.Sub(state.StartedAt).Round(100*time.Millisecond).String()
	}
	return stylize(line, noColor, colorAccent)
}

// renderSummary counts candidates by research status.
func renderSummary(state State, noColor bool) string {
	c := state.Counts
	line := fmt.Sprintf("Candidates: %d  researching %d  researched %d  failed %d  waiting %d",
		len(state.Rows), c.Searching, c.Done, c.Failed, c.Queued)
	return stylize(line, noColor, colorMuted)
}

// renderStageLine shows the spinner beside the stage progression until the
// analysis finishes.
func renderStageLine(state State, spin string, now time.Time, noColor bool) string {
	if len(state.Stages) == 0 {
		return ""
	}
	if state.Finished {
		spin = " "
	}
	return spin + " " + formatStages(state.Stages, now, noColor)
}

func renderFooter(state State, noColor bool) string {
	switch {
	case state.Error != "":
		return stylize("Failed: "+state.Error, noColor, colorFailed)
	case state.LastEvent != "":
		return stylize(state.LastEvent, noColor, colorMuted)
	}
	return ""
}

func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
