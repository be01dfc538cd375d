package setup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter answers the flow's interactive questions. The engine never reads
// the terminal directly, which keeps the flow testable and lets the TUI
// substitute its own screens.
type Prompter interface {
	// Confirm asks a yes/no question
	Confirm(question string) (bool, error)
	// Secret asks for a sensitive value, hiding input when possible
	Secret(prompt string) (string, error)
}

// TerminalPrompter reads replies from an input stream. Secrets are read
// without echo when the stream is a real terminal.
type TerminalPrompter struct {
	in         *bufio.Reader
	out        io.Writer
	fd         int
	isTerminal bool
}

// NewTerminalPrompter creates a prompter over the given streams
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	p := &TerminalPrompter{
		in:  bufio.NewReader(in),
		out: out,
		fd:  -1,
	}
	if f, ok := in.(*os.File); ok {
		p.fd = int(f.Fd())
		p.isTerminal = term.IsTerminal(p.fd)
	}
	return p
}

// Confirm asks a yes/no question; only "y"/"yes" count as yes
func (p *TerminalPrompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s (y/n): ", question)

	line, err := p.readLine()
	if err != nil {
		return false, err
	}

	reply := strings.ToLower(strings.TrimSpace(line))
	return reply == "y" || reply == "yes", nil
}

// Secret asks for a sensitive value. On a terminal the input is not echoed.
func (p *TerminalPrompter) Secret(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	if p.isTerminal {
		value, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read secret input: %w", err)
		}
		return strings.TrimSpace(string(value)), nil
	}

	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *TerminalPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read reply: %w", err)
	}
	return line, nil
}
