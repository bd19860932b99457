package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// readLine returns the next input line without its line ending. A final
// unterminated line is returned together with io.EOF.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, err
}

// promptString asks for a value. An empty answer takes defaultValue; with no
// default the question repeats until answered or input ends.
func promptString(reader *bufio.Reader, out io.Writer, label, defaultValue string) (string, error) {
	prompt := label + ": "
	if defaultValue != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, defaultValue)
	}
	for {
		fmt.Fprint(out, prompt)
		line, err := readLine(reader)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if answer := strings.TrimSpace(line); answer != "" {
			return answer, nil
		}
		if defaultValue != "" {
			return defaultValue, nil
		}
		if err != nil {
			return "", fmt.Errorf("no answer for %s", strings.ToLower(label))
		}
	}
}

// promptChoice asks for one of choices, case-insensitively. The first choice
// is the default.
func promptChoice(reader *bufio.Reader, out io.Writer, label string, choices ...string) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("no choices for %s", label)
	}
	full := fmt.Sprintf("%s (%s)", label, strings.Join(choices, "|"))
	for {
		answer, err := promptString(reader, out, full, choices[0])
		if err != nil {
			return "", err
		}
		for _, choice := range choices {
			if strings.EqualFold(answer, choice) {
				return choice, nil
			}
		}
		fmt.Fprintf(out, "Please choose one of: %s.\n", strings.Join(choices, ", "))
	}
}

// promptYesNo asks a yes/no question. An empty answer or end of input takes
// the default.
func promptYesNo(reader *bufio.Reader, out io.Writer, label string, defaultYes bool) (bool, error) {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(out, "%s [%s]: ", label, hint)
		line, err := readLine(reader)
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("unrecognized answer %q", strings.TrimSpace(line))
		}
		fmt.Fprintln(out, "Please answer y or n.")
	}
}
