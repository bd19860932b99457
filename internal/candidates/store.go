package candidates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"ballot/internal/logx"
)

// DiscoverPaths returns every *.json file in dir, sorted by name.
func DiscoverPaths(dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob data files: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Load reads every path and merges the races, later files winning on
// collisions. Unreadable or malformed files are logged and skipped.
func Load(paths []string, logger *zap.Logger) *Races {
	logger = logx.OrNop(logger)
	merged := NewRaces()
	for _, path := range paths {
		races, err := loadFile(path)
		if err != nil {
			var parseErr *ParseError
			if errors.As(err, &parseErr) {
				logger.Warn(fmt.Sprintf("Skipping %s - not a valid JSON file", path), zap.String("path", path), zap.Error(parseErr.Err))
			} else {
				logger.Warn(fmt.Sprintf("Could not load %s", path), zap.String("path", path), zap.Error(err))
			}
			continue
		}
		logger.Debug("loaded races", zap.String("path", path), zap.Int("races", races.Len()))
		merged.Merge(races)
	}
	return merged
}

func loadFile(path string) (*Races, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	races, err := Parse(data)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = path
		}
		return nil, err
	}
	return races, nil
}

// Store resolves the data file set and reloads it on demand, so edits to the
// files are picked up between analyses.
type Store struct {
	paths  []string
	dir    string
	logger *zap.Logger
}

// NewStore builds a store over explicit paths, or over every *.json file in
// dir when paths is empty.
func NewStore(paths []string, dir string, logger *zap.Logger) *Store {
	return &Store{paths: paths, dir: dir, logger: logx.OrNop(logger)}
}

// Paths returns the files the next Load will read.
func (s *Store) Paths() ([]string, error) {
	if len(s.paths) > 0 {
		return s.paths, nil
	}
	return DiscoverPaths(s.dir)
}

// Load reads and merges all data files.
func (s *Store) Load() (*Races, error) {
	paths, err := s.Paths()
	if err != nil {
		return nil, err
	}
	return Load(paths, s.logger), nil
}

// Lookup reloads the data and returns the candidates of race.
func (s *Store) Lookup(race string) ([]Record, error) {
	races, err := s.Load()
	if err != nil {
		return nil, err
	}
	return races.Lookup(race)
}
