package live

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ballot/internal/recommend"
	"ballot/internal/testutil"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestControllerRendersAndExits(t *testing.T) {
	var out lockedBuffer
	controller := StartController(&out, Options{NoColor: true})
	controller.OnAnalysisStart("Mayor", testRecords)
	controller.OnEvent(stageEvent(recommend.EventStageStart, recommend.StageResearch, time.Now()))

	testutil.Eventually(t, 2*time.Second, 10*time.Millisecond, func() bool {
		return strings.Contains(out.String(), "Mayor")
	}, "expected live view to mention the race")

	controller.OnAnalysisEnd(recommend.Result{}, errors.New("boom"))
	runWithTimeout(t, 2*time.Second, controller.Wait)

	// Sends after the UI has closed are dropped.
	controller.OnEvent(recommend.Event{})
	controller.Close()
}
