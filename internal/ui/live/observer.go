package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"ballot/internal/candidates"
	"ballot/internal/recommend"
)

const eventBuffer = 256

// Controller drives the live view for one analysis and satisfies
// recommend.Observer. A nil *Controller ignores every call.
type Controller struct {
	events chan Event
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// StartController starts a Bubble Tea program writing to stdout. The program
// never reads stdin, so the race menu keeps it, and it installs no signal
// handler, so Ctrl-C reaches the caller's context.
func StartController(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	c := &Controller{
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	program := tea.NewProgram(NewModel(c.events, opts),
		tea.WithOutput(stdout),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	go func() {
		defer close(c.done)
		_, _ = program.Run()
	}()
	return c
}

func (c *Controller) OnAnalysisStart(race string, records []candidates.Record) {
	c.send(Event{Kind: EventAnalysisStart, Race: race, Records: records})
}

func (c *Controller) OnEvent(event recommend.Event) {
	c.send(Event{Kind: EventPipeline, Pipeline: event})
}

// OnAnalysisEnd shows the final state and stops the program.
func (c *Controller) OnAnalysisEnd(_ recommend.Result, err error) {
	end := Event{Kind: EventAnalysisEnd}
	if err != nil {
		end.Error = err.Error()
	}
	c.send(end)
	c.Close()
}

// Close stops accepting events. It is safe to call more than once.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.events)
	}
}

// Wait blocks until the program has exited and restored the terminal.
func (c *Controller) Wait() {
	if c != nil {
		<-c.done
	}
}

// send never blocks the pipeline: when the view falls behind or is closed the
// event is dropped.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
