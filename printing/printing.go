// Package printing sends document text to the system print spooler.
package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// ErrNoPrinter is returned when no print command is available.
var ErrNoPrinter = errors.New("no print command available")

// DefaultTimeout bounds how long the spooler may take to accept a job.
const DefaultTimeout = 30 * time.Second

// Job is one document to print.
type Job struct {
	Title string
	Text  string
}

// Printer prints jobs.
type Printer interface {
	Print(ctx context.Context, job Job) error
}

// CommandPrinter pipes the job text to a spooler command such as lp or lpr.
// In Args, "{title}" is replaced with the job title.
type CommandPrinter struct {
	Command string
	Args    []string
	Timeout time.Duration
	Logger  *slog.Logger

	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args []string, stdin []byte) error
}

// spoolers are tried in order when no command is configured.
var spoolers = []struct {
	name string
	args []string
}{
	{"lp", []string{"-t", "{title}"}},
	{"lpr", []string{"-T", "{title}"}},
}

// NewCommandPrinter returns a printer for command. An empty command selects
// the first spooler found on PATH when printing.
func NewCommandPrinter(command string, args []string) *CommandPrinter {
	return &CommandPrinter{
		Command:  command,
		Args:     args,
		Timeout:  DefaultTimeout,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

func (p *CommandPrinter) resolve() (string, []string, error) {
	if p.Command != "" {
		path, err := p.lookPath(p.Command)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s", ErrNoPrinter, p.Command)
		}
		return path, p.Args, nil
	}
	for _, s := range spoolers {
		if path, err := p.lookPath(s.name); err == nil {
			return path, s.args, nil
		}
	}
	return "", nil, ErrNoPrinter
}

// Print spools job and waits for the command to exit.
func (p *CommandPrinter) Print(ctx context.Context, job Job) error {
	name, args, err := p.resolve()
	if err != nil {
		return err
	}
	expanded := make([]string, len(args))
	for i, a := range args {
		expanded[i] = strings.ReplaceAll(a, "{title}", job.Title)
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if p.Logger != nil {
		p.Logger.Info("printing", "command", name, "title", job.Title, "bytes", len(job.Text))
	}
	if err := p.run(ctx, name, expanded, []byte(job.Text)); err != nil {
		return fmt.Errorf("print %q: %w", job.Title, err)
	}
	return nil
}

func runCommand(ctx context.Context, name string, args []string, stdin []byte) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
