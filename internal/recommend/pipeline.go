// Package recommend runs the two-stage candidate recommendation pipeline.
package recommend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ballot/internal/candidates"
	"ballot/internal/llm"
	"ballot/internal/logx"
	"ballot/internal/research"
)

// Researcher gathers research text for a race's candidates.
type Researcher interface {
	Gather(ctx context.Context, race string, records []candidates.Record, fresh bool, observer research.Observer) ([]research.Candidate, error)
}

// Options tunes model calls and research reuse.
type Options struct {
	MaxTokens   int
	Temperature float64
	// RefreshPerStage re-queries research, bypassing the cache, before the
	// recommendation stage.
	RefreshPerStage bool
}

// Result is the outcome of one race analysis.
type Result struct {
	Race                    string
	Candidates              []research.Candidate
	IssueRationale          string
	KeyIssues               string
	IssueAnalysis           string
	RecommendationRationale string
	Recommendation          string
	Reasoning               string
	ResearchTime            time.Duration
	IssueTime               time.Duration
	RecommendTime           time.Duration
	Elapsed                 time.Duration
}

// Pipeline researches candidates then runs issue analysis and recommendation.
type Pipeline struct {
	provider   llm.Provider
	researcher Researcher
	opts       Options
	logger     *zap.Logger
	observer   Observer
}

func NewPipeline(provider llm.Provider, researcher Researcher, opts Options, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		provider:   provider,
		researcher: researcher,
		opts:       opts,
		logger:     logx.OrNop(logger),
	}
}

// Observe returns a copy of the pipeline that reports to observer.
func (p *Pipeline) Observe(observer Observer) *Pipeline {
	clone := *p
	clone.observer = observer
	return &clone
}

// Recommend analyzes one race against the voter's preferences.
func (p *Pipeline) Recommend(ctx context.Context, race string, records []candidates.Record, preferences string) (Result, error) {
	started := time.Now()
	result := Result{Race: race}
	if p.observer != nil {
		p.observer.OnAnalysisStart(race, records)
	}
	err := p.run(ctx, race, records, preferences, &result)
	result.Elapsed = time.Since(started)
	if p.observer != nil {
		p.observer.OnAnalysisEnd(result, err)
	}
	if err != nil {
		p.logger.Warn("analysis failed", zap.String("race", race), zap.Error(err))
		return Result{}, err
	}
	p.logger.Info("analysis completed",
		zap.String("race", race),
		zap.Int("candidates", len(result.Candidates)),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, race string, records []candidates.Record, preferences string, result *Result) error {
	stageStart := time.Now()
	list, err := p.gather(ctx, race, records, false)
	if err != nil {
		return err
	}
	result.Candidates = list
	result.ResearchTime = time.Since(stageStart)

	stageStart = time.Now()
	issues, err := p.complete(ctx, race, issueAnalysisSignature, map[string]string{
		"race":              race,
		"candidates":        formatCandidates(list),
		"voter_preferences": preferences,
	})
	if err != nil {
		return err
	}
	result.IssueRationale = issues["rationale"]
	result.KeyIssues = issues["key_issues"]
	result.IssueAnalysis = issues["issue_analysis"]
	result.IssueTime = time.Since(stageStart)

	if p.opts.RefreshPerStage {
		if list, err = p.gather(ctx, race, records, true); err != nil {
			return err
		}
		result.Candidates = list
	}

	stageStart = time.Now()
	pick, err := p.complete(ctx, race, recommendationSignature, map[string]string{
		"candidates":     formatCandidates(list),
		"preferences":    preferences,
		"key_issues":     result.KeyIssues,
		"issue_analysis": result.IssueAnalysis,
	})
	if err != nil {
		return err
	}
	result.RecommendationRationale = pick["rationale"]
	result.Recommendation = pick["recommendation"]
	result.Reasoning = pick["reasoning"]
	result.RecommendTime = time.Since(stageStart)
	return nil
}

func (p *Pipeline) gather(ctx context.Context, race string, records []candidates.Record, fresh bool) ([]research.Candidate, error) {
	var observer research.Observer
	if p.observer != nil {
		observer = newLookupObserver(race, len(records), p.observer)
	}
	started := time.Now()
	p.emit(Event{Race: race, Type: EventStageStart, Stage: StageResearch})
	list, err := p.researcher.Gather(ctx, race, records, fresh, observer)
	if err != nil {
		p.emit(Event{Race: race, Type: EventStageFailed, Stage: StageResearch, Error: err.Error(), Elapsed: time.Since(started)})
		return nil, &StageError{Stage: StageResearch, Err: err}
	}
	p.emit(Event{Race: race, Type: EventStageDone, Stage: StageResearch, Elapsed: time.Since(started)})
	return list, nil
}

func (p *Pipeline) complete(ctx context.Context, race string, sig signature, inputs map[string]string) (map[string]string, error) {
	started := time.Now()
	p.emit(Event{Race: race, Type: EventStageStart, Stage: sig.Stage})
	values, err := p.completeStage(ctx, sig, inputs)
	if err != nil {
		p.emit(Event{Race: race, Type: EventStageFailed, Stage: sig.Stage, Error: err.Error(), Elapsed: time.Since(started)})
		return nil, &StageError{Stage: sig.Stage, Err: err}
	}
	p.logger.Debug("stage completed", zap.String("race", race), zap.String("stage", string(sig.Stage)), zap.Duration("elapsed", time.Since(started)))
	p.emit(Event{Race: race, Type: EventStageDone, Stage: sig.Stage, Elapsed: time.Since(started)})
	return values, nil
}

func (p *Pipeline) completeStage(ctx context.Context, sig signature, inputs map[string]string) (map[string]string, error) {
	response, err := p.provider.Complete(ctx, llm.Request{
		Prompt:      sig.render(inputs),
		System:      sig.System,
		MaxTokens:   p.opts.MaxTokens,
		Temperature: p.opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}
	return parseOutput(sig, response)
}

func (p *Pipeline) emit(event Event) {
	if p.observer == nil {
		return
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now()
	}
	p.observer.OnEvent(event)
}
