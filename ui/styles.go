package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cornish/jotpad/config"
	"github.com/cornish/jotpad/font"
)

// UseTrueColor selects 24-bit output for hex colors. When false they are
// mapped to the nearest entry of the 256-color palette.
var UseTrueColor = true

// ColorToANSIFg converts a theme color ("0"-"255", "#rgb" or "#rrggbb") to a
// foreground escape sequence.
func ColorToANSIFg(color string) string { return sgr(color, false) }

// ColorToANSIBg converts a theme color to a background escape sequence.
func ColorToANSIBg(color string) string { return sgr(color, true) }

// ColorToANSI returns combined fg+bg ANSI sequence
func ColorToANSI(fg, bg string) string {
	return ColorToANSIBg(bg) + ColorToANSIFg(fg)
}

func sgr(color string, bg bool) string {
	base, ext := 30, 38
	if bg {
		base, ext = 40, 48
	}
	if strings.HasPrefix(color, "#") {
		r, g, b, ok := parseHex(color)
		if !ok {
			return fmt.Sprintf("\033[%dm", base+9)
		}
		if UseTrueColor {
			return fmt.Sprintf("\033[%d;2;%d;%d;%dm", ext, r, g, b)
		}
		return fmt.Sprintf("\033[%d;5;%dm", ext, nearest256(r, g, b))
	}
	n, err := strconv.Atoi(color)
	switch {
	case err != nil || n < 0 || n > 255:
		return fmt.Sprintf("\033[%dm", base+9)
	case n < 8:
		return fmt.Sprintf("\033[%dm", base+n)
	case n < 16:
		return fmt.Sprintf("\033[%dm", base+60+n-8)
	}
	return fmt.Sprintf("\033[%d;5;%dm", ext, n)
}

func parseHex(s string) (r, g, b int, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

// cubeLevels are the channel values of the 6x6x6 palette cube.
var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

func nearestLevel(v int) int {
	best := 0
	for i, l := range cubeLevels {
		if abs(v-l) < abs(v-cubeLevels[best]) {
			best = i
		}
	}
	return best
}

// nearest256 maps an RGB color onto the 256-color palette, using the grey
// ramp (232-255) for near-neutral colors.
func nearest256(r, g, b int) int {
	hi, lo := max(r, g, b), min(r, g, b)
	if hi-lo < 20 {
		grey := (r + g + b) / 3
		switch {
		case grey < 4:
			return 16
		case grey > 243:
			return 231
		}
		return 232 + (grey-8)/10
	}
	return 16 + 36*nearestLevel(r) + 6*nearestLevel(g) + nearestLevel(b)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Styles contains all the styles used in the editor
type Styles struct {
	Theme config.Theme

	MenuBar            lipgloss.Style
	MenuDropdown       lipgloss.Style
	MenuOption         lipgloss.Style
	MenuOptionActive   lipgloss.Style
	MenuOptionDisabled lipgloss.Style

	StatusBar lipgloss.Style

	Text      lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style
	Filler    lipgloss.Style

	DialogBox         lipgloss.Style
	DialogTitle       lipgloss.Style
	DialogText        lipgloss.Style
	DialogButton      lipgloss.Style
	DialogButtonFocus lipgloss.Style
	DialogInput       lipgloss.Style
	DialogListItem    lipgloss.Style
	DialogListActive  lipgloss.Style
	DialogPreview     lipgloss.Style

	Subtle lipgloss.Style
	Error  lipgloss.Style
}

// NewStyles creates a Styles configuration from a theme
func NewStyles(theme config.Theme) Styles {
	c := theme.UI
	color := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	on := func(fg, bg string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(color(fg)).Background(color(bg))
	}

	return Styles{
		Theme: theme,

		MenuBar: on(c.MenuFg, c.MenuBg),
		MenuDropdown: on(c.MenuFg, c.MenuBg).
			Border(lipgloss.NormalBorder()).
			BorderForeground(color(c.MenuFg)).
			BorderBackground(color(c.MenuBg)),
		MenuOption:         on(c.MenuFg, c.MenuBg).Padding(0, 1),
		MenuOptionActive:   on(c.MenuHighlightFg, c.MenuHighlightBg).Padding(0, 1),
		MenuOptionDisabled: on(c.DisabledFg, c.MenuBg).Padding(0, 1),

		StatusBar: on(c.StatusFg, c.StatusBg),

		Text:      lipgloss.NewStyle(),
		Selection: on(c.SelectionFg, c.SelectionBg),
		Cursor:    lipgloss.NewStyle().Reverse(true),
		Filler:    lipgloss.NewStyle().Foreground(color(c.DisabledFg)),

		DialogBox: on(c.DialogFg, c.DialogBg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color(c.DialogBorder)).
			BorderBackground(color(c.DialogBg)).
			Padding(0, 1),
		DialogTitle:       on(c.DialogTitle, c.DialogBg).Bold(true),
		DialogText:        on(c.DialogFg, c.DialogBg),
		DialogButton:      on(c.DialogFg, c.DialogBg).Padding(0, 1),
		DialogButtonFocus: on(c.DialogButtonFg, c.DialogButton).Bold(true).Padding(0, 1),
		DialogInput:       on(c.DialogBg, c.DialogFg),
		DialogListItem:    on(c.DialogFg, c.DialogBg),
		DialogListActive:  on(c.DialogButtonFg, c.DialogButton),
		DialogPreview:     on(c.DialogFg, c.DialogBg).Border(lipgloss.NormalBorder()).BorderForeground(color(c.DialogBorder)),

		Subtle: lipgloss.NewStyle().Foreground(color(c.DisabledFg)),
		Error:  lipgloss.NewStyle().Foreground(color(c.ErrorFg)).Bold(true),
	}
}

// WithFont returns s with the text style carrying the font's bold and
// italic attributes. Family and size cannot be shown by a terminal.
func (s Styles) WithFont(f font.Font) Styles {
	s.Text = lipgloss.NewStyle().Bold(f.Style.IsBold()).Italic(f.Style.IsItalic())
	return s
}

// DefaultStyles returns the styles of the default theme.
func DefaultStyles() Styles {
	return NewStyles(config.DefaultTheme())
}

// BoxChars is the set of line-drawing characters used for dialog frames.
type BoxChars struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
	TeeLeft, TeeRight                          rune
}

var (
	unicodeBox = BoxChars{'┌', '┐', '└', '┘', '─', '│', '├', '┤'}
	asciiBox   = BoxChars{'+', '+', '+', '+', '-', '|', '+', '+'}
)

// Box returns the frame characters for the terminal's character set.
func Box(ascii bool) BoxChars {
	if ascii {
		return asciiBox
	}
	return unicodeBox
}
