// Package cli implements the ballot command line.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdin io.Reader, stdout, stderr io.Writer) int
}

// Run dispatches args to a command. No arguments, or leading run flags,
// start the interactive session.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return findCommand("run").Run(nil, stdin, stdout, stderr)
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}
	if strings.HasPrefix(args[0], "-") {
		return findCommand("run").Run(args, stdin, stdout, stderr)
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdin, stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ballot [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nWith no command, ballot starts an interactive session.")
	fmt.Fprintln(w, "Use \"ballot <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

// newFlags returns the command's flag set with the shared --config flag.
func newFlags(cmd *Command, stderr io.Writer) (*flag.FlagSet, *string) {
	flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "Path to config file (default: search upward for .ballot/config.yml)")
	return flags, configPath
}

// parseFlags parses args and reports done when the command must return code
// right away, after help output or a usage error. Positional arguments are
// rejected unless positional is set.
func parseFlags(cmd *Command, flags *flag.FlagSet, args []string, positional bool, stdout, stderr io.Writer) (code int, done bool) {
	if wantsHelp(args) {
		printCommandUsage(cmd, stdout)
		return ExitOK, true
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printCommandUsage(cmd, stdout)
			return ExitOK, true
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return ExitUsage, true
	}
	if !positional && flags.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
		printCommandUsage(cmd, stderr)
		return ExitUsage, true
	}
	return ExitOK, false
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdin io.Reader, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("run", "Analyze races interactively", []string{
		"ballot run [--config <path>] [--ui auto|live|plain] [--verbose] [data.json...]",
	}, runRun),
	command("init", "Scaffold .ballot/config.yml", []string{
		"ballot init [--config <path>]",
	}, runInit),
	command("validate", "Validate .ballot/config.yml", []string{
		"ballot validate [--config <path>]",
	}, runValidate),
	command("history", "List recorded analyses", []string{
		"ballot history [--config <path>] [--limit <n>] [--race <name>]",
	}, runHistory),
}
