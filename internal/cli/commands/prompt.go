package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// identifierPrompt is shown when the publisher is read interactively.
const identifierPrompt = "Enter publisher name or id (e.g. O'Reilly, 1): "

// errNoIdentifier is returned when no publisher was entered.
var errNoIdentifier = errors.New("publisher name or id is required")

// readIdentifier returns the publisher argument, or reads one line from stdin:
// with a readline prompt on a terminal, or the first line of piped input.
func readIdentifier(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return nonEmpty(strings.Join(args, " "))
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		return promptIdentifier(cmd, f)
	}
	return readFirstLine(in)
}

func promptIdentifier(cmd *cobra.Command, stdin *os.File) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          identifierPrompt,
		Stdin:           stdin,
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
		InterruptPrompt: "^C",
	})
	if err != nil {
		return "", fmt.Errorf("failed to initialize prompt: %w", err)
	}
	defer func() { _ = rl.Close() }()

	line, err := rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", errNoIdentifier
	}
	if err != nil {
		return "", fmt.Errorf("read publisher: %w", err)
	}
	return nonEmpty(line)
}

func readFirstLine(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read publisher: %w", err)
		}
		return "", errNoIdentifier
	}
	return nonEmpty(sc.Text())
}

// nonEmpty keeps the input as typed but rejects blank lines.
func nonEmpty(s string) (string, error) {
	s = strings.TrimRight(s, "\r\n")
	if strings.TrimSpace(s) == "" {
		return "", errNoIdentifier
	}
	return s, nil
}
