package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// StatusBar is the bottom line: caret position, font, charset and messages.
type StatusBar struct {
	line, col   int
	font        string
	charset     string
	modified    bool
	window      string
	message     string
	messageType string
	width       int
	styles      Styles
}

// NewStatusBar creates a new status bar
func NewStatusBar(styles Styles) *StatusBar {
	return &StatusBar{line: 1, col: 1, charset: "UTF-8", styles: styles}
}

// SetPosition sets the caret position, 1-based.
func (s *StatusBar) SetPosition(line, col int) { s.line, s.col = line, col }

func (s *StatusBar) SetFont(desc string)       { s.font = desc }
func (s *StatusBar) SetCharset(name string)    { s.charset = name }
func (s *StatusBar) SetModified(modified bool) { s.modified = modified }
func (s *StatusBar) SetWidth(width int)        { s.width = width }
func (s *StatusBar) SetStyles(styles Styles)   { s.styles = styles }

// SetWindow labels the window, e.g. "2/3"; empty hides it.
func (s *StatusBar) SetWindow(label string) { s.window = label }

// SetMessage shows a transient message; msgType is "info", "error" or
// "success".
func (s *StatusBar) SetMessage(message, msgType string) {
	s.message = message
	s.messageType = msgType
}

// ClearMessage clears the temporary message
func (s *StatusBar) ClearMessage() {
	s.message = ""
	s.messageType = ""
}

// Message returns the current message and its type.
func (s *StatusBar) Message() (string, string) { return s.message, s.messageType }

// Position returns the text shown for the caret.
func (s *StatusBar) Position() string {
	return fmt.Sprintf("Ln %d, Col %d", s.line, s.col)
}

// View renders the status bar
func (s *StatusBar) View() string {
	c := s.styles.Theme.UI
	normal := ColorToANSI(c.StatusFg, c.StatusBg)

	var fields []string
	if s.window != "" {
		fields = append(fields, s.window)
	}
	fields = append(fields, s.Position())
	if s.font != "" {
		fields = append(fields, s.font)
	}
	fields = append(fields, s.charset)
	right := strings.Join(fields, " | ") + " "

	left := " "
	if s.modified {
		left = " Modified "
	}

	msg := s.message
	room := s.width - runewidth.StringWidth(left) - runewidth.StringWidth(right) - 2
	if room < 0 {
		room = 0
	}
	msg = runewidth.Truncate(msg, room, "...")
	gap := s.width - runewidth.StringWidth(left) - runewidth.StringWidth(msg) - runewidth.StringWidth(right)
	if gap < 0 {
		right = runewidth.Truncate(right, max(0, runewidth.StringWidth(right)+gap), "")
		gap = 0
	}

	var sb strings.Builder
	sb.WriteString(normal)
	if s.modified {
		sb.WriteString(ColorToANSIFg(c.StatusAccent) + "\033[1m" + left + "\033[22m" + ColorToANSIFg(c.StatusFg))
	} else {
		sb.WriteString(left)
	}
	switch s.messageType {
	case "error":
		sb.WriteString(ColorToANSIFg(c.ErrorFg) + "\033[1m" + msg + "\033[22m" + ColorToANSIFg(c.StatusFg))
	case "success":
		sb.WriteString(ColorToANSIFg(c.StatusAccent) + msg + ColorToANSIFg(c.StatusFg))
	default:
		sb.WriteString(msg)
	}
	sb.WriteString(strings.Repeat(" ", gap))
	sb.WriteString(right)
	sb.WriteString("\033[0m")
	return sb.String()
}
