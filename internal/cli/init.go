package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ballot/internal/config"
)

// runInit builds the handler for the init command.
func runInit(cmd *Command) func(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return func(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
		flags, configPath := newFlags(cmd, stderr)
		if code, done := parseFlags(cmd, flags, args, false, stdout, stderr); done {
			return code
		}

		if stdin == nil {
			stdin = os.Stdin
		}
		reader := bufio.NewReader(stdin)

		var targetPath string
		if value := strings.TrimSpace(*configPath); value == "" {
			wd, err := os.Getwd()
			if err != nil {
				fmt.Fprintf(stderr, "Init failed: %v\n", err)
				return ExitError
			}
			targetPath = config.ConfigPath(wd)
		} else {
			abs, err := filepath.Abs(value)
			if err != nil {
				fmt.Fprintf(stderr, "Init failed: %v\n", err)
				return ExitError
			}
			targetPath = abs
		}
		configDir := filepath.Dir(targetPath)
		root := config.RootFromConfigPath(targetPath)

		if info, err := os.Stat(configDir); err == nil && !info.IsDir() {
			fmt.Fprintf(stderr, "Init failed: config directory %q is not a directory\n", configDir)
			return ExitError
		}
		if info, err := os.Stat(targetPath); err == nil {
			if info.IsDir() {
				fmt.Fprintf(stderr, "Init failed: config path %q is a directory\n", targetPath)
				return ExitError
			}
			fmt.Fprintf(stderr, "Init failed: config file already exists at %q\n", targetPath)
			return ExitError
		} else if !os.IsNotExist(err) {
			fmt.Fprintf(stderr, "Init failed: stat config file: %v\n", err)
			return ExitError
		}

		confirm, err := promptYesNo(reader, stdout, fmt.Sprintf("Initialize ballot config in %s?", configDir), true)
		if err != nil {
			fmt.Fprintf(stderr, "Init failed: %v\n", err)
			return ExitError
		}
		if !confirm {
			fmt.Fprintln(stderr, "Init cancelled.")
			return ExitError
		}

		jurisdiction, err := promptString(reader, stdout, "Jurisdiction", config.DefaultJurisdiction)
		if err != nil {
			fmt.Fprintf(stderr, "Init failed: %v\n", err)
			return ExitError
		}
		provider, err := promptChoice(reader, stdout, "Model provider", config.DefaultProvider, "gemini")
		if err != nil {
			fmt.Fprintf(stderr, "Init failed: %v\n", err)
			return ExitError
		}
		defaultModel := config.DefaultModel
		if provider == "gemini" {
			defaultModel = config.DefaultGeminiModel
		}
		model, err := promptString(reader, stdout, "Model", defaultModel)
		if err != nil {
			fmt.Fprintf(stderr, "Init failed: %v\n", err)
			return ExitError
		}

		addGitignore := false
		if isGitRepo(root) {
			answer, err := promptYesNo(reader, stdout, "Add history database to .gitignore?", true)
			if err != nil {
				fmt.Fprintf(stderr, "Init failed: %v\n", err)
				return ExitError
			}
			addGitignore = answer
		}

		if err := config.Scaffold(targetPath, config.ScaffoldOptions{
			Jurisdiction: jurisdiction,
			Provider:     provider,
			Model:        model,
			HistoryPath:  config.DefaultHistoryPath,
		}); err != nil {
			fmt.Fprintf(stderr, "Init failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Wrote %s\n", targetPath)

		if addGitignore {
			updated, err := addGitignoreEntry(root, config.DefaultHistoryPath)
			if err != nil {
				fmt.Fprintf(stderr, "Init failed: update .gitignore: %v\n", err)
				return ExitError
			}
			if updated {
				fmt.Fprintf(stdout, "Updated %s\n", filepath.Join(root, ".gitignore"))
			}
		}
		return ExitOK
	}
}
