package live

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultTickInterval = 200 * time.Millisecond
	minTableHeight      = 5
	maxTableHeight      = 14
)

// Options configures the live view.
type Options struct {
	NoColor      bool
	TickInterval time.Duration
}

// Model is the Bubble Tea model for one race analysis.
type Model struct {
	state    State
	table    table.Model
	spinner  spinner.Model
	events   <-chan Event
	interval time.Duration
	now      time.Time
	noColor  bool
}

// EventMsg delivers a controller event to the program.
type EventMsg struct {
	Event Event
}

type tickMsg time.Time

// NewModel builds a model fed by events. A nil channel yields a static model.
func NewModel(events <-chan Event, opts Options) Model {
	interval := opts.TickInterval
	if interval <= 0 {
		interval = defaultTickInterval
	}
	candidateTable := table.New(
		table.WithColumns(columnsForWidth(defaultTableWidth)),
		table.WithFocused(false),
		table.WithHeight(minTableHeight),
		table.WithWidth(defaultTableWidth),
	)
	candidateTable.SetStyles(tableStyles(opts.NoColor))

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	if !opts.NoColor {
		spin.Style = lipgloss.NewStyle().Foreground(colorAccent)
	}
	return Model{
		table:    candidateTable,
		spinner:  spin,
		events:   events,
		interval: interval,
		now:      time.Now(),
		noColor:  opts.NoColor,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tick(m.interval), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		m = applyEvent(m, msg.Event)
		if msg.Event.Kind == EventAnalysisEnd {
			return m, tea.Quit
		}
		return m, waitForEvent(m.events)
	case tickMsg:
		m.now = time.Time(msg)
		m.refreshRows()
		return m, tick(m.interval)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.table.SetColumns(columnsForWidth(msg.Width))
	}
	return m, nil
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.state, m.now, m.noColor),
		renderSummary(m.state, m.noColor),
		renderStageLine(m.state, m.spinner.View(), m.now, m.noColor),
		m.table.View(),
		renderFooter(m.state, m.noColor),
	) + "\n"
}

// State exposes the reduced analysis state.
func (m Model) State() State {
	return m.state
}

func (m *Model) refreshRows() {
	m.table.SetRows(rowsForState(m.state, m.now, m.noColor))
}

// applyEvent folds a controller event into the model. The table is sized to
// the race's candidate count.
func applyEvent(m Model, event Event) Model {
	switch event.Kind {
	case EventAnalysisStart:
		m.state = Start(event.Race, event.Records, time.Now())
		m.table.SetHeight(tableHeight(len(event.Records)))
	case EventPipeline:
		m.state = Reduce(m.state, event.Pipeline)
	case EventAnalysisEnd:
		m.state = Finish(m.state, event.Error)
	}
	m.refreshRows()
	return m
}

// tableHeight includes the header and its border line.
func tableHeight(candidates int) int {
	height := candidates + 3
	if height < minTableHeight {
		return minTableHeight
	}
	if height > maxTableHeight {
		return maxTableHeight
	}
	return height
}

// waitForEvent reads the next event; a closed channel ends the program.
func waitForEvent(events <-chan Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return tea.QuitMsg{}
		}
		return EventMsg{Event: event}
	}
}

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}
