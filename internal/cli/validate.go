package cli

import (
	"fmt"
	"io"

	"ballot/internal/candidates"
	"ballot/internal/config"
	"ballot/internal/logx"
)

// runValidate loads and validates the config, then reports the candidate
// data it would analyze. Unreadable data files are logged, not fatal.
func runValidate(cmd *Command) func(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return func(args []string, _ io.Reader, stdout, stderr io.Writer) int {
		flags, configPath := newFlags(cmd, stderr)
		if code, done := parseFlags(cmd, flags, args, false, stdout, stderr); done {
			return code
		}

		resolved, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%s\n", err.Error())
			return ExitError
		}
		fmt.Fprintln(stdout, "Config OK")

		root := config.RootFromConfigPath(resolved)
		dataFiles := make([]string, 0, len(cfg.DataFiles))
		for _, path := range cfg.DataFiles {
			dataFiles = append(dataFiles, config.ResolvePath(root, path))
		}
		store := candidates.NewStore(dataFiles, "", logx.New(stderr, cfg.Log.Level, cfg.Log.Format))
		paths, err := store.Paths()
		if err != nil {
			fmt.Fprintf(stderr, "Could not list data files: %v\n", err)
			return ExitError
		}
		races, _ := store.Load()
		fmt.Fprintf(stdout, "Model: %s/%s\n", cfg.Model.Provider, cfg.Model.Model)
		fmt.Fprintf(stdout, "Data files: %d, races: %d\n", len(paths), races.Len())
		return ExitOK
	}
}
