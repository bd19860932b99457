package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const defaultTableWidth = 80

func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	// Nothing is ever selected; keep the cursor row unstyled.
	styles.Selected = lipgloss.NewStyle()
	if !noColor {
		styles.Header = styles.Header.Foreground(colorAccent).Bold(true)
	}
	return styles
}

// columnsForWidth gives the candidate column whatever the fixed columns leave.
func columnsForWidth(width int) []table.Column {
	const (
		indexWidth  = 3
		partyWidth  = 12
		statusWidth = 24
		timeWidth   = 8
		padding     = 10
	)
	nameWidth := width - indexWidth - partyWidth - statusWidth - timeWidth - padding
	if nameWidth < 12 {
		nameWidth = 12
	}
	return []table.Column{
		{Title: "#", Width: indexWidth},
		{Title: "Candidate", Width: nameWidth},
		{Title: "Party", Width: partyWidth},
		{Title: "Research", Width: statusWidth},
		{Title: "Time", Width: timeWidth},
	}
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			fmtInt(row.Index + 1),
			formatName(row.Name, 60),
			row.Party,
			formatRowStatus(row, noColor),
			formatRowDuration(row, now),
		})
	}
	return rows
}
