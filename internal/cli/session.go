package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"ballot/internal/candidates"
	"ballot/internal/history"
	"ballot/internal/logx"
	"ballot/internal/recommend"
	"ballot/internal/ui/live"
)

// raceLoader reloads the candidate data.
type raceLoader interface {
	Load() (*candidates.Races, error)
}

// recommender runs one race analysis.
type recommender interface {
	Recommend(ctx context.Context, race string, records []candidates.Record, preferences string) (recommend.Result, error)
}

// historyRecorder stores finished analyses.
type historyRecorder interface {
	Record(ctx context.Context, entry history.Entry) (string, error)
}

// session is the interactive race menu.
type session struct {
	races       raceLoader
	analyzer    func(observer recommend.Observer) recommender
	recorder    historyRecorder
	preferences string
	useLive     bool
	noColor     bool
	reader      *bufio.Reader
	stdout      io.Writer
	logger      *zap.Logger
	now         func() time.Time
	processed   map[string]bool
}

func newSession(races raceLoader, analyzer func(recommend.Observer) recommender, stdin io.Reader, stdout io.Writer, logger *zap.Logger) *session {
	return &session{
		races:     races,
		analyzer:  analyzer,
		reader:    bufio.NewReader(stdin),
		stdout:    stdout,
		logger:    logx.OrNop(logger),
		now:       time.Now,
		processed: map[string]bool{},
	}
}

// ensurePreferences asks for preferences once when none are configured.
func (s *session) ensurePreferences() error {
	if strings.TrimSpace(s.preferences) != "" {
		return nil
	}
	fmt.Fprintln(s.stdout, "Describe your voter preferences and priorities in one line.")
	prefs, err := promptString(s.reader, s.stdout, "Preferences", "")
	if err != nil {
		return err
	}
	s.preferences = prefs
	return nil
}

// Run loops over the menu until every race is analyzed, the user quits, or
// input ends.
func (s *session) Run(ctx context.Context) error {
	if err := s.ensurePreferences(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		races, err := s.races.Load()
		if err != nil {
			return fmt.Errorf("load races: %w", err)
		}
		available := s.available(races)
		if len(available) == 0 {
			fmt.Fprintln(s.stdout, "\nAll races have been analyzed!")
			return nil
		}

		fmt.Fprintln(s.stdout, "\nAvailable races:")
		for i, race := range available {
			fmt.Fprintf(s.stdout, "%d. %s\n", i+1, race)
		}
		fmt.Fprintln(s.stdout, "\nEnter the number of the race you'd like to analyze (or 'q' to quit):")

		line, readErr := readLine(s.reader)
		if readErr != nil && readErr != io.EOF {
			return readErr
		}
		choice := strings.TrimSpace(line)
		if strings.EqualFold(choice, "q") || (choice == "" && readErr == io.EOF) {
			return nil
		}
		index, err := strconv.Atoi(choice)
		if err != nil {
			s.logger.Debug("menu input is not a number", zap.String("input", choice))
			fmt.Fprintln(s.stdout, "Please enter a valid number or 'q' to quit.")
			continue
		}
		if index < 1 || index > len(available) {
			fmt.Fprintln(s.stdout, "Invalid number. Please try again.")
			continue
		}

		race := available[index-1]
		records, err := races.Lookup(race)
		if err != nil {
			fmt.Fprintf(s.stdout, "Analysis failed: %v\n", err)
			continue
		}
		if err := s.analyze(ctx, race, records); err != nil {
			return err
		}
	}
}

// available lists races not yet processed, in listing order.
func (s *session) available(races *candidates.Races) []string {
	names := races.Names()
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !s.processed[name] {
			out = append(out, name)
		}
	}
	return out
}

// analyze runs one race. Pipeline failures are reported and leave the race
// available; only cancellation is returned.
func (s *session) analyze(ctx context.Context, race string, records []candidates.Record) error {
	fmt.Fprintf(s.stdout, "\nAnalyzing %s...\n", race)

	var observer recommend.Observer
	var controller *live.Controller
	if s.useLive {
		controller = live.StartController(s.stdout, live.Options{NoColor: s.noColor})
		observer = controller
	} else {
		observer = live.NewPlain(s.stdout)
	}

	started := s.now()
	result, err := s.analyzer(observer).Recommend(ctx, race, records, s.preferences)
	if controller != nil {
		controller.Close()
		controller.Wait()
	}
	elapsed := s.now().Sub(started)
	if err != nil {
		fmt.Fprintf(s.stdout, "Analysis failed: %v\n", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return nil
	}

	fmt.Fprintf(s.stdout, "\nAnalysis completed in %.2f seconds\n", elapsed.Seconds())
	fmt.Fprintf(s.stdout, "Recommendation:\n%s\n", result.Recommendation)
	fmt.Fprintf(s.stdout, "Reasoning:\n%s\n", result.Reasoning)
	fmt.Fprintln(s.stdout, "\nPress 'Enter' to continue...")
	if _, err := readLine(s.reader); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	s.processed[race] = true
	s.record(ctx, result)
	return nil
}

func (s *session) record(ctx context.Context, result recommend.Result) {
	if s.recorder == nil {
		return
	}
	id, err := s.recorder.Record(ctx, history.EntryFromResult(result, s.preferences))
	if err != nil {
		s.logger.Warn("failed to record analysis", zap.String("race", result.Race), zap.Error(err))
		return
	}
	s.logger.Debug("recorded analysis", zap.String("race", result.Race), zap.String("id", id))
}
