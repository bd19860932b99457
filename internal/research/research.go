// Package research assembles background text on candidates from web search.
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ballot/internal/cache"
	"ballot/internal/candidates"
	"ballot/internal/logx"
	"ballot/internal/search"
)

// positionTerms steer the search toward policy coverage.
const positionTerms = "politician positions views"

// Candidate is a candidate record enriched with research text.
type Candidate struct {
	Name     string `json:"name"`
	Party    string `json:"party"`
	Research string `json:"research"`
}

// Observer receives per-candidate lookup progress. Calls may come from
// several goroutines.
type Observer interface {
	OnLookupStart(index int, name string)
	OnLookupDone(index int, name string, err error)
}

// Options tunes query construction and fan-out.
type Options struct {
	Jurisdiction string
	Region       string
	MaxResults   int
	Workers      int
	TTL          time.Duration
}

// Researcher looks up candidates through a searcher, caching joined snippets.
type Researcher struct {
	searcher search.Searcher
	cache    cache.Cache
	opts     Options
	logger   *zap.Logger
}

// New builds a Researcher. A nil cache disables caching.
func New(searcher search.Searcher, c cache.Cache, opts Options, logger *zap.Logger) *Researcher {
	if c == nil {
		c = cache.Noop{}
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 3
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Researcher{searcher: searcher, cache: c, opts: opts, logger: logx.OrNop(logger)}
}

// BuildQuery combines the jurisdiction hint, candidate name, race label and
// position terms into one keyword query.
func BuildQuery(jurisdiction, name, race string) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{jurisdiction, name, race, positionTerms} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

// Lookup returns research text for one candidate, served from cache when
// possible.
func (r *Researcher) Lookup(ctx context.Context, name, race string) (string, error) {
	return r.lookup(ctx, name, race, false)
}

// LookupFresh always queries the search provider and refreshes the cache.
func (r *Researcher) LookupFresh(ctx context.Context, name, race string) (string, error) {
	return r.lookup(ctx, name, race, true)
}

func (r *Researcher) lookup(ctx context.Context, name, race string, fresh bool) (string, error) {
	query := search.Query{
		Text:       BuildQuery(r.opts.Jurisdiction, name, race),
		MaxResults: r.opts.MaxResults,
		Region:     r.opts.Region,
	}
	key := cacheKey(query)
	if !fresh {
		if cached, ok, err := r.cache.Get(ctx, key); err != nil {
			r.logger.Warn("research cache read failed", zap.String("query", query.Text), zap.Error(err))
		} else if ok {
			r.logger.Debug("research cache hit", zap.String("query", query.Text))
			return cached, nil
		}
	}

	results, err := r.searcher.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", name, err)
	}
	bodies := make([]string, 0, len(results))
	for _, result := range results {
		if body := strings.TrimSpace(result.Body); body != "" {
			bodies = append(bodies, body)
		}
	}
	text := strings.Join(bodies, " ")
	r.logger.Debug("researched candidate", zap.String("candidate", name), zap.Int("results", len(results)))

	if err := r.cache.Set(ctx, key, text, r.opts.TTL); err != nil {
		r.logger.Warn("research cache write failed", zap.String("query", query.Text), zap.Error(err))
	}
	return text, nil
}

// Gather researches every record of a race concurrently and returns the
// candidates in input order. The first failure cancels outstanding lookups.
func (r *Researcher) Gather(ctx context.Context, race string, records []candidates.Record, fresh bool, observer Observer) ([]Candidate, error) {
	out := make([]Candidate, len(records))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.opts.Workers)
	for i, record := range records {
		group.Go(func() error {
			if observer != nil {
				observer.OnLookupStart(i, record.Name)
			}
			text, err := r.lookup(groupCtx, record.Name, race, fresh)
			if observer != nil {
				observer.OnLookupDone(i, record.Name, err)
			}
			if err != nil {
				return err
			}
			out[i] = Candidate{Name: record.Name, Party: record.Party, Research: text}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func cacheKey(query search.Query) string {
	return fmt.Sprintf("%s|%d|%s", query.Region, query.MaxResults, strings.ToLower(query.Text))
}
