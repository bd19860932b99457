package cli

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// UI modes accepted by --ui and the ui config key.
const (
	uiAuto  = "auto"
	uiLive  = "live"
	uiPlain = "plain"
)

// uiModeDecision records whether analyses render the live progress view.
type uiModeDecision struct {
	useLive bool
	warning string
}

// isTerminal is swapped in tests.
var isTerminal = writerIsTerminal

// resolveUIMode picks the progress display. --verbose always prints plain
// lines so debug logs stay readable.
func resolveUIMode(mode string, verbose bool, stdout io.Writer) (uiModeDecision, error) {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	if normalized == "" {
		normalized = uiAuto
	}
	switch normalized {
	case uiAuto, uiLive, uiPlain:
	default:
		return uiModeDecision{}, fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", mode)
	}
	if verbose || normalized == uiPlain {
		return uiModeDecision{}, nil
	}
	tty := isTerminal(stdout)
	if normalized == uiLive && !tty {
		return uiModeDecision{warning: "Live progress requested but stdout is not a terminal; printing plain progress."}, nil
	}
	return uiModeDecision{useLive: tty}, nil
}

func writerIsTerminal(w io.Writer) bool {
	fd, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(fd.Fd()))
}
