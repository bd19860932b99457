package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"ballot/internal/cache"
	"ballot/internal/candidates"
	"ballot/internal/config"
	"ballot/internal/history"
	"ballot/internal/llm"
	"ballot/internal/logx"
	"ballot/internal/recommend"
	"ballot/internal/research"
	"ballot/internal/search"
)

// Provider and searcher constructors are variables so tests can stub the
// external services.
var (
	newProvider = llm.ProviderFromConfig
	newSearcher = func(provider string, client *http.Client) (search.Searcher, error) {
		return search.New(provider, client)
	}
)

const httpTimeout = 2 * time.Minute

func runRun(cmd *Command) func(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return func(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
		flags, configPath := newFlags(cmd, stderr)
		uiMode := flags.String("ui", "", "Progress display: auto|live|plain (default from config)")
		verbose := flags.Bool("verbose", false, "Plain progress output and debug logging")
		if code, done := parseFlags(cmd, flags, args, true, stdout, stderr); done {
			return code
		}

		cfg, root, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		mode := cfg.UI
		if *uiMode != "" {
			mode = *uiMode
		}
		decision, err := resolveUIMode(mode, *verbose, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		level := cfg.Log.Level
		if *verbose {
			level = "debug"
		}
		logger := logx.New(stderr, level, cfg.Log.Format)
		defer func() { _ = logger.Sync() }()

		dataFiles := flags.Args()
		if len(dataFiles) == 0 {
			for _, path := range cfg.DataFiles {
				dataFiles = append(dataFiles, config.ResolvePath(root, path))
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sess, cleanup, err := buildSession(ctx, cfg, root, dataFiles, stdin, stdout, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}
		defer cleanup()
		sess.useLive = decision.useLive

		if err := sess.Run(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(stderr, "Interrupted.")
				return ExitError
			}
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}

// buildSession wires configuration into the research, model and history
// services behind the menu.
func buildSession(ctx context.Context, cfg config.Config, root string, dataFiles []string, stdin io.Reader, stdout io.Writer, logger *zap.Logger) (*session, func(), error) {
	client := &http.Client{Timeout: httpTimeout}
	provider, err := newProvider(ctx, cfg.Model, llm.APIKeyFromEnv(), client)
	if err != nil {
		return nil, nil, fmt.Errorf("model provider: %w", err)
	}
	searcher, err := newSearcher(cfg.Search.Provider, client)
	if err != nil {
		return nil, nil, fmt.Errorf("search provider: %w", err)
	}
	researchCache, err := cache.New(ctx, cache.Options{
		Backend:   cfg.Cache.Backend,
		RedisAddr: cfg.Cache.RedisAddr,
		RedisDB:   cfg.Cache.RedisDB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("research cache: %w", err)
	}
	closers := []io.Closer{researchCache}

	researcher := research.New(searcher, researchCache, research.Options{
		Jurisdiction: cfg.Jurisdiction,
		Region:       cfg.Search.Region,
		MaxResults:   cfg.Search.MaxResults,
		Workers:      cfg.Research.Workers,
		TTL:          time.Duration(cfg.Cache.TTLSeconds) * time.Second,
	}, logger)
	pipeline := recommend.NewPipeline(provider, researcher, recommend.Options{
		MaxTokens:       cfg.Model.MaxTokens,
		Temperature:     cfg.Model.Temperature,
		RefreshPerStage: cfg.Research.RefreshPerStage,
	}, logger)

	store := candidates.NewStore(dataFiles, "", logger)
	sess := newSession(store, func(observer recommend.Observer) recommender {
		return pipeline.Observe(observer)
	}, stdin, stdout, logger)
	sess.preferences = cfg.Preferences

	if cfg.HistoryEnabled() {
		path := historyPath(cfg, root)
		historyStore, err := history.Open(ctx, path)
		if err != nil {
			logger.Warn("history disabled for this session", zap.String("path", path), zap.Error(err))
		} else {
			sess.recorder = historyStore
			closers = append(closers, historyStore)
		}
	}

	cleanup := func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}
	return sess, cleanup, nil
}
