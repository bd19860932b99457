package live

import (
	"fmt"
	"io"
	"sync"

	"ballot/internal/candidates"
	"ballot/internal/recommend"
)

// Plain prints one line per stage transition. It implements
// recommend.Observer for terminals without live rendering.
type Plain struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPlain(out io.Writer) *Plain {
	return &Plain{out: out}
}

func (p *Plain) OnAnalysisStart(race string, records []candidates.Record) {
	p.printf("Researching %d candidates for %s\n", len(records), race)
}

func (p *Plain) OnEvent(event recommend.Event) {
	switch event.Type {
	case recommend.EventStageStart, recommend.EventStageDone, recommend.EventStageFailed, recommend.EventLookupFailed:
		p.printf("  %s\n", formatLastEvent(event))
	}
}

func (p *Plain) OnAnalysisEnd(recommend.Result, error) {}

func (p *Plain) printf(format string, args ...any) {
	if p == nil || p.out == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}
