package editor

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/cornish/jotpad/ui"
)

// DialogBuilder assembles a framed dialog line by line.
type DialogBuilder struct {
	box        ui.BoxChars
	width      int // including borders
	innerWidth int
	lines      []string
	colors     dialogColors
}

// dialogColors holds the resolved escape sequences of the theme.
type dialogColors struct {
	base     string
	selected string
	errorFg  string
	reset    string
}

// NewDialogBuilder starts a dialog of the given total width, clamped to the
// terminal.
func (e *Editor) NewDialogBuilder(width int) *DialogBuilder {
	width = max(min(width, e.width-2), 10)
	c := e.styles.Theme.UI
	return &DialogBuilder{
		box:        e.box,
		width:      width,
		innerWidth: width - 2,
		colors: dialogColors{
			base:     ui.ColorToANSI(c.DialogFg, c.DialogBg),
			selected: ui.ColorToANSI(c.DialogButtonFg, c.DialogButton),
			errorFg:  ui.ColorToANSIFg(c.ErrorFg),
			reset:    "\033[0m",
		},
	}
}

func (db *DialogBuilder) hline(n int) string {
	return strings.Repeat(string(db.box.Horizontal), max(n, 0))
}

func (db *DialogBuilder) framed(inner string) string {
	return string(db.box.Vertical) + inner + string(db.box.Vertical)
}

// AddTitleBorder adds the top border with the title centered in it.
func (db *DialogBuilder) AddTitleBorder(title string) {
	if title != "" {
		title = " " + runewidth.Truncate(title, db.innerWidth-2, "") + " "
	}
	left := (db.innerWidth - runewidth.StringWidth(title)) / 2
	right := db.innerWidth - runewidth.StringWidth(title) - left
	db.lines = append(db.lines, string(db.box.TopLeft)+db.hline(left)+title+db.hline(right)+string(db.box.TopRight))
}

func (db *DialogBuilder) AddBottomBorder() {
	db.lines = append(db.lines, string(db.box.BottomLeft)+db.hline(db.innerWidth)+string(db.box.BottomRight))
}

func (db *DialogBuilder) AddSeparator() {
	db.lines = append(db.lines, string(db.box.TeeLeft)+db.hline(db.innerWidth)+string(db.box.TeeRight))
}

func (db *DialogBuilder) AddEmptyLine() {
	db.lines = append(db.lines, db.framed(strings.Repeat(" ", db.innerWidth)))
}

// AddText adds a left-aligned line, truncated to fit.
func (db *DialogBuilder) AddText(text string) {
	db.lines = append(db.lines, db.framed(db.PadText(text)))
}

func (db *DialogBuilder) AddCenteredText(text string) {
	db.lines = append(db.lines, db.framed(db.CenterText(text)))
}

// AddErrorText adds a line in the theme's error color.
func (db *DialogBuilder) AddErrorText(text string) {
	db.lines = append(db.lines, db.framed(db.colors.errorFg+db.PadText(text)+db.colors.base))
}

// AddSelectableItem adds a list entry, highlighted when selected.
func (db *DialogBuilder) AddSelectableItem(text string, selected bool) {
	if selected {
		db.lines = append(db.lines, db.framed(db.colors.selected+db.PadText(text)+db.colors.base))
		return
	}
	db.AddText(text)
}

// AddRaw adds a line whose content is already styled and exactly
// innerWidth cells wide.
func (db *DialogBuilder) AddRaw(styled string) {
	db.lines = append(db.lines, db.framed(styled))
}

// AddButtons adds a centered row of buttons with focus highlighted.
func (db *DialogBuilder) AddButtons(labels []string, focus int) {
	var plain, styled strings.Builder
	for i, l := range labels {
		if i > 0 {
			plain.WriteString("  ")
			styled.WriteString("  ")
		}
		b := "[ " + l + " ]"
		plain.WriteString(b)
		if i == focus {
			styled.WriteString(db.colors.selected + b + db.colors.base)
		} else {
			styled.WriteString(b)
		}
	}
	w := runewidth.StringWidth(plain.String())
	if w > db.innerWidth {
		db.AddCenteredText(plain.String())
		return
	}
	left := (db.innerWidth - w) / 2
	db.AddRaw(strings.Repeat(" ", left) + styled.String() + strings.Repeat(" ", db.innerWidth-w-left))
}

// PadText pads or truncates s to innerWidth.
func (db *DialogBuilder) PadText(s string) string {
	sw := runewidth.StringWidth(s)
	if sw > db.innerWidth {
		return runewidth.Truncate(s, db.innerWidth, "")
	}
	return s + strings.Repeat(" ", db.innerWidth-sw)
}

// CenterText centers s within innerWidth.
func (db *DialogBuilder) CenterText(s string) string {
	sw := runewidth.StringWidth(s)
	if sw >= db.innerWidth {
		return runewidth.Truncate(s, db.innerWidth, "")
	}
	left := (db.innerWidth - sw) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", db.innerWidth-sw-left)
}

func (db *DialogBuilder) Height() int     { return len(db.lines) }
func (db *DialogBuilder) InnerWidth() int { return db.innerWidth }
func (db *DialogBuilder) Lines() []string { return db.lines }

// origin returns the top-left cell of the dialog centered in the text area.
func (db *DialogBuilder) origin(areaWidth, areaHeight int) (int, int) {
	return max((areaWidth-db.width)/2, 0), max((areaHeight-len(db.lines))/2, 0)
}

// Overlay draws the dialog centered over the text area content.
func (db *DialogBuilder) Overlay(content string, areaWidth, areaHeight int) string {
	x, y := db.origin(areaWidth, areaHeight)
	rows := strings.Split(content, "\n")
	for i, l := range db.lines {
		if y+i < len(rows) {
			rows[y+i] = overlayLineAt(db.colors.base+l+db.colors.reset, rows[y+i], x)
		}
	}
	return strings.Join(rows, "\n")
}

// DialogPosition locates a rendered dialog for mouse handling.
type DialogPosition struct {
	StartX, StartY int
	Width, Height  int
	ListStart      int // first list row, relative to the dialog
	ListEnd        int
}

// GetPosition returns where Overlay places the dialog.
func (db *DialogBuilder) GetPosition(areaWidth, areaHeight, listStart, listCount int) DialogPosition {
	x, y := db.origin(areaWidth, areaHeight)
	return DialogPosition{
		StartX:    x,
		StartY:    y,
		Width:     db.width,
		Height:    len(db.lines),
		ListStart: listStart,
		ListEnd:   listStart + listCount,
	}
}

// MouseInDialog reports whether a text-area cell is inside the dialog and
// returns the cell relative to it.
func (dp DialogPosition) MouseInDialog(x, y int) (bool, int, int) {
	relX, relY := x-dp.StartX, y-dp.StartY
	return relX >= 0 && relX < dp.Width && relY >= 0 && relY < dp.Height, relX, relY
}

// MouseInList returns the list row under relY, or -1.
func (dp DialogPosition) MouseInList(relY int) int {
	if relY >= dp.ListStart && relY < dp.ListEnd {
		return relY - dp.ListStart
	}
	return -1
}

// overlayLineAt draws top over base starting at cell offset, keeping the
// base line's styling on both sides.
func overlayLineAt(top, base string, offset int) string {
	baseWidth := ansi.StringWidth(base)
	topWidth := ansi.StringWidth(top)
	var sb strings.Builder
	if baseWidth >= offset {
		sb.WriteString(ansi.Truncate(base, offset, ""))
	} else {
		sb.WriteString(base)
		sb.WriteString(strings.Repeat(" ", offset-baseWidth))
	}
	sb.WriteString("\033[0m")
	sb.WriteString(top)
	sb.WriteString("\033[0m")
	if end := offset + topWidth; end < baseWidth {
		sb.WriteString(ansi.TruncateLeft(base, end, ""))
	}
	return sb.String()
}

// ansiPad pads a styled string with blanks to width cells.
func ansiPad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return ansi.Truncate(s, width, "")
}
