package live

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ballot/internal/candidates"
	"ballot/internal/recommend"
	"ballot/internal/testutil"
)

var testRecords = []candidates.Record{{Name: "Ann Lee", Party: "DEM"}, {Name: "Bo Park", Party: "REP"}}

// TestReduceLookupLifecycle verifies candidate research transitions are recorded.
func TestReduceLookupLifecycle(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		start := time.Now()
		state := Start("Mayor", testRecords, start)
		if state.Counts.Queued != 2 {
			t.Fatalf("expected two queued rows, got %+v", state.Counts)
		}
		state = Reduce(state, event(recommend.EventLookupStart, 0, "", start))
		state = Reduce(state, event(recommend.EventLookupStart, 1, "", start))
		if state.Counts.Searching != 2 {
			t.Fatalf("expected two searching rows, got %+v", state.Counts)
		}
		done := event(recommend.EventLookupDone, 0, "", start.Add(300*time.Millisecond))
		done.Elapsed = 300 * time.Millisecond
		state = Reduce(state, done)
		state = Reduce(state, event(recommend.EventLookupFailed, 1, "timeout", start.Add(time.Second)))

		if state.Rows[0].Status != RowDone || state.Rows[1].Status != RowFailed {
			t.Fatalf("unexpected rows: %+v", state.Rows)
		}
		if state.Rows[1].Error != "timeout" {
			t.Fatalf("expected error to be recorded, got %q", state.Rows[1].Error)
		}
		if state.Counts.Done != 1 || state.Counts.Failed != 1 {
			t.Fatalf("unexpected counts: %+v", state.Counts)
		}
		if !strings.Contains(state.LastEvent, "Bo Park") {
			t.Fatalf("unexpected last event %q", state.LastEvent)
		}
	})
}

// TestReduceStageProgress verifies stage state tracking.
func TestReduceStageProgress(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		now := time.Now()
		state := Start("Mayor", testRecords, now)
		state = Reduce(state, stageEvent(recommend.EventStageStart, recommend.StageResearch, now))
		current, ok := state.Current()
		if !ok || current.Stage != recommend.StageResearch {
			t.Fatalf("expected research to be running, got %+v", current)
		}
		state = Reduce(state, stageEvent(recommend.EventStageDone, recommend.StageResearch, now))
		state = Reduce(state, stageEvent(recommend.EventStageStart, recommend.StageIssueAnalysis, now))
		current, _ = state.Current()
		if current.Stage != recommend.StageIssueAnalysis {
			t.Fatalf("expected issue analysis to be running, got %+v", current)
		}
		state = Reduce(state, stageEvent(recommend.EventStageFailed, recommend.StageIssueAnalysis, now))
		if state.Stages[1].State != StageFailed || state.Stages[2].State != StagePending {
			t.Fatalf("unexpected stages: %+v", state.Stages)
		}
		state = Finish(state, "boom")
		if !state.Finished || state.LastEvent != "Analysis failed: boom" {
			t.Fatalf("unexpected finish state: %+v", state)
		}
	})
}

// TestReduceRepeatLookupCounts verifies refreshed research is counted.
func TestReduceRepeatLookupCounts(t *testing.T) {
	state := Start("Mayor", testRecords[:1], time.Now())
	for i := 0; i < 2; i++ {
		state = Reduce(state, event(recommend.EventLookupStart, 0, "", time.Now()))
		state = Reduce(state, event(recommend.EventLookupDone, 0, "", time.Now()))
	}
	if state.Rows[0].Lookups != 2 {
		t.Fatalf("expected two lookups, got %d", state.Rows[0].Lookups)
	}
	if got := formatRowStatus(state.Rows[0], true); got != "done (x2)" {
		t.Fatalf("unexpected status %q", got)
	}
}

// TestModelViewRendersTable verifies the view includes candidate rows.
func TestModelViewRendersTable(t *testing.T) {
	model := NewModel(nil, Options{NoColor: true})
	model = applyEvent(model, Event{Kind: EventAnalysisStart, Race: "Mayor", Records: testRecords})
	model = applyEvent(model, Event{Kind: EventPipeline, Pipeline: stageEvent(recommend.EventStageStart, recommend.StageResearch, time.Now())})
	view := model.View()
	for _, want := range []string{"Analyzing Mayor", "Ann Lee", "REP", "candidate research"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, view)
		}
	}
}

// TestPlainObserverPrintsStages verifies plain mode output.
func TestPlainObserverPrintsStages(t *testing.T) {
	var out bytes.Buffer
	plain := NewPlain(&out)
	plain.OnAnalysisStart("Mayor", testRecords)
	plain.OnEvent(event(recommend.EventLookupStart, 0, "", time.Now()))
	plain.OnEvent(stageEvent(recommend.EventStageStart, recommend.StageIssueAnalysis, time.Now()))
	plain.OnAnalysisEnd(recommend.Result{}, errors.New("ignored"))

	want := "Researching 2 candidates for Mayor\n  Started issue analysis\n"
	if out.String() != want {
		t.Fatalf("unexpected output %q", out.String())
	}
}

// TestControllerNilSafe verifies a nil controller is a no-op observer.
func TestControllerNilSafe(t *testing.T) {
	var controller *Controller
	controller.OnAnalysisStart("Mayor", testRecords)
	controller.OnEvent(recommend.Event{})
	controller.OnAnalysisEnd(recommend.Result{}, nil)
	controller.Wait()
}

// event builds a lookup event for testing.
func event(kind recommend.EventType, index int, errMsg string, when time.Time) recommend.Event {
	return recommend.Event{
		Race:           "Mayor",
		Type:           kind,
		Stage:          recommend.StageResearch,
		CandidateIndex: index,
		Candidate:      testRecords[index].Name,
		Error:          errMsg,
		EmittedAt:      when,
	}
}

func stageEvent(kind recommend.EventType, stage recommend.Stage, when time.Time) recommend.Event {
	return recommend.Event{Race: "Mayor", Type: kind, Stage: stage, EmittedAt: when}
}

// runWithTimeout executes a test body with a timeout.
func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	ctx := testutil.Context(t, timeout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("test timed out")
	}
}

func TestTableHeightBounds(t *testing.T) {
	cases := map[int]int{0: minTableHeight, 2: minTableHeight, 4: 7, 40: maxTableHeight}
	for candidates, want := range cases {
		if got := tableHeight(candidates); got != want {
			t.Fatalf("tableHeight(%d) = %d, want %d", candidates, got, want)
		}
	}
}

func TestModelQuitsOnAnalysisEnd(t *testing.T) {
	model := NewModel(nil, Options{NoColor: true})
	updated, cmd := model.Update(EventMsg{Event: Event{Kind: EventAnalysisEnd, Error: "boom"}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
	state := updated.(Model).State()
	if !state.Finished || state.Error != "boom" {
		t.Fatalf("unexpected state %+v", state)
	}
	if !strings.Contains(updated.View(), "Failed: boom") {
		t.Fatalf("expected failure footer, got %q", updated.View())
	}
}
