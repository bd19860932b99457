package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ballot/internal/history"
)

// runHistory builds the handler for the history command.
func runHistory(cmd *Command) func(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return func(args []string, _ io.Reader, stdout, stderr io.Writer) int {
		flags, configPath := newFlags(cmd, stderr)
		limit := flags.Int("limit", 20, "Maximum number of analyses to list (0 for all)")
		race := flags.String("race", "", "Only list analyses of this race")
		if code, done := parseFlags(cmd, flags, args, false, stdout, stderr); done {
			return code
		}
		if *limit < 0 {
			fmt.Fprintln(stderr, "invalid arguments: --limit must not be negative")
			return ExitUsage
		}

		cfg, root, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		if !cfg.HistoryEnabled() {
			fmt.Fprintln(stderr, "History is disabled (history.enabled: false).")
			return ExitError
		}
		path := historyPath(cfg, root)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintln(stdout, "No analyses recorded yet.")
			return ExitOK
		}

		ctx := context.Background()
		store, err := history.Open(ctx, path)
		if err != nil {
			fmt.Fprintf(stderr, "History failed: %v\n", err)
			return ExitError
		}
		defer store.Close()

		entries, err := store.List(ctx, history.ListOptions{Limit: *limit, Race: *race})
		if err != nil {
			fmt.Fprintf(stderr, "History failed: %v\n", err)
			return ExitError
		}
		if len(entries) == 0 {
			fmt.Fprintln(stdout, "No analyses recorded yet.")
			return ExitOK
		}
		for _, entry := range entries {
			printHistoryEntry(stdout, entry)
		}
		return ExitOK
	}
}

func printHistoryEntry(w io.Writer, entry history.Entry) {
	fmt.Fprintf(w, "%s  %s  (%.2fs)\n", entry.CreatedAt.Local().Format(time.DateTime), entry.Race, entry.Elapsed.Seconds())
	fmt.Fprintf(w, "  Recommendation: %s\n", oneLine(entry.Recommendation))
	if names := candidateNames(entry); names != "" {
		fmt.Fprintf(w, "  Candidates: %s\n", names)
	}
}

func candidateNames(entry history.Entry) string {
	names := make([]string, 0, len(entry.Candidates))
	for _, candidate := range entry.Candidates {
		if candidate.Party != "" {
			names = append(names, candidate.Name+" ("+candidate.Party+")")
		} else {
			names = append(names, candidate.Name)
		}
	}
	return strings.Join(names, ", ")
}

func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
