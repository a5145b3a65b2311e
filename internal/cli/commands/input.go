package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/leapstack-labs/asksql/internal/session"
)

// NewAsker returns a session.Asker reading from in. A terminal gets a
// line-editing prompt; other input is read line by line. The request for a
// question is written to out.
func NewAsker(in io.Reader, out io.Writer) session.Asker {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &terminalAsker{in: f, out: out}
	}
	return &lineAsker{in: bufio.NewScanner(in), out: out}
}

func askMessage(table string) string {
	return fmt.Sprintf("Please enter your question (using table '%s'):", table)
}

type terminalAsker struct {
	in  *os.File
	out io.Writer
}

func (a *terminalAsker) Ask(_ context.Context, table string) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		Stdin:           a.in,
		Stdout:          a.out,
		Stderr:          a.out,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return "", fmt.Errorf("failed to initialize prompt: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(a.out, askMessage(table))

	line, err := rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", session.ErrInputCancelled
	}
	if err != nil {
		return "", fmt.Errorf("failed to read question: %w", err)
	}
	return strings.TrimSpace(line), nil
}

type lineAsker struct {
	in  *bufio.Scanner
	out io.Writer
}

// Ask returns the first non-blank line.
func (a *lineAsker) Ask(ctx context.Context, table string) (string, error) {
	_, _ = fmt.Fprintln(a.out, askMessage(table))

	for a.in.Scan() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if line := strings.TrimSpace(a.in.Text()); line != "" {
			return line, nil
		}
	}
	if err := a.in.Err(); err != nil {
		return "", fmt.Errorf("failed to read question: %w", err)
	}
	return "", session.ErrInputCancelled
}
