// Package clipboard copies and pastes text for the editor. The system
// clipboard is used when reachable; over SSH text is sent to the local
// terminal with OSC 52. A private buffer backs both.
package clipboard

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Clipboard is the editor's view of a clipboard.
type Clipboard interface {
	Copy(text string) error
	Paste() (string, error)
}

// System talks to the desktop clipboard and falls back to OSC 52.
type System struct {
	local  string
	remote bool
	out    io.Writer

	read  func() (string, error)
	write func(string) error
}

// New returns a System clipboard writing OSC 52 sequences to out
// (os.Stdout when nil).
func New(out io.Writer) *System {
	if out == nil {
		out = os.Stdout
	}
	return &System{
		remote: overSSH(),
		out:    out,
		read:   clipboard.ReadAll,
		write:  clipboard.WriteAll,
	}
}

func overSSH() bool {
	for _, v := range []string{"SSH_TTY", "SSH_CLIENT", "SSH_CONNECTION"} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// Copy stores text locally and publishes it to the system clipboard, or to
// the terminal over OSC 52 when the system clipboard is out of reach.
func (c *System) Copy(text string) error {
	c.local = text
	if !c.remote && !clipboard.Unsupported {
		if err := c.write(text); err == nil {
			return nil
		}
	}
	_, err := io.WriteString(c.out, osc52.New(text).String())
	return err
}

// Paste returns the system clipboard, or the last copied text when the
// system clipboard is empty or unavailable. OSC 52 reads are not attempted.
func (c *System) Paste() (string, error) {
	if !clipboard.Unsupported {
		if text, err := c.read(); err == nil && text != "" {
			return text, nil
		}
	}
	return c.local, nil
}

// Remote reports whether the session looks like SSH.
func (c *System) Remote() bool { return c.remote }

// Memory is a process-local clipboard.
type Memory struct {
	Text string
}

func (m *Memory) Copy(text string) error  { m.Text = text; return nil }
func (m *Memory) Paste() (string, error) { return m.Text, nil }
