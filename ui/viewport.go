package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/cornish/jotpad/syntax"
)

// tabWidth is the distance between tab stops.
const tabWidth = 4

// Row is one screen row of text: runes [Start, End) of buffer line Line.
// Without line wrap every line is a single row.
type Row struct {
	Line  int
	Start int
	End   int
}

// SelectionRange marks selected rune columns [Start, End) of one line.
// End == -1 extends the selection past the end of the line.
type SelectionRange struct {
	Start int
	End   int
}

func (r SelectionRange) contains(col int) bool {
	return col >= r.Start && (r.End == -1 || col < r.End)
}

// Viewport lays out and renders the visible part of the text area.
type Viewport struct {
	width   int
	height  int
	scrollY int // first visible row
	scrollX int // first visible cell, unwrapped only
	wrap    bool
	styles  Styles
}

// NewViewport creates a new viewport
func NewViewport(styles Styles) *Viewport {
	return &Viewport{width: 80, height: 24, styles: styles}
}

// SetSize sets the viewport dimensions
func (v *Viewport) SetSize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
}

func (v *Viewport) Width() int              { return v.width }
func (v *Viewport) Height() int             { return v.height }
func (v *Viewport) ScrollY() int            { return v.scrollY }
func (v *Viewport) ScrollX() int            { return v.scrollX }
func (v *Viewport) Wrap() bool              { return v.wrap }
func (v *Viewport) SetStyles(styles Styles) { v.styles = styles }

// SetWrap switches line wrap. Horizontal scrolling is reset either way.
func (v *Viewport) SetWrap(wrap bool) {
	v.wrap = wrap
	v.scrollX = 0
}

// cells returns the display width of r drawn at cell x.
func cells(r rune, x int) int {
	switch {
	case r == '\t':
		return tabWidth - x%tabWidth
	case r == '\r':
		return 0
	case r < 0x20 || r == 0x7f:
		return 1
	}
	return runewidth.RuneWidth(r)
}

// glyph returns what is drawn for r occupying w cells.
func glyph(r rune, w int) string {
	switch {
	case r == '\t':
		return strings.Repeat(" ", w)
	case r == '\r':
		return ""
	case r < 0x20 || r == 0x7f:
		return "?"
	}
	return string(r)
}

// Rows lays lines out into screen rows. With wrap on, lines break after the
// last blank that fits, or mid-word when a word is wider than the view.
func (v *Viewport) Rows(lines []string) []Row {
	rows := make([]Row, 0, len(lines))
	for i, line := range lines {
		rows = v.appendRows(rows, i, []rune(line))
	}
	return rows
}

func (v *Viewport) appendRows(rows []Row, line int, runes []rune) []Row {
	if !v.wrap || len(runes) == 0 {
		return append(rows, Row{Line: line, Start: 0, End: len(runes)})
	}
	start, x, brk := 0, 0, -1
	for i := 0; i < len(runes); i++ {
		w := cells(runes[i], x)
		if x+w > v.width && i > start {
			end := i
			if brk > start {
				end = brk
			}
			rows = append(rows, Row{Line: line, Start: start, End: end})
			start, x, brk = end, 0, -1
			for j := start; j < i; j++ {
				x += cells(runes[j], x)
			}
			w = cells(runes[i], x)
		}
		x += w
		if runes[i] == ' ' || runes[i] == '\t' {
			brk = i + 1
		}
	}
	return append(rows, Row{Line: line, Start: start, End: len(runes)})
}

// RowIndex returns the row holding the caret at line, col. A caret at a wrap
// point belongs to the following row.
func RowIndex(rows []Row, line, col int) int {
	idx := 0
	for i, r := range rows {
		if r.Line > line {
			break
		}
		if r.Line == line && col >= r.Start {
			idx = i
		} else if r.Line < line {
			idx = i
		}
	}
	return idx
}

// columnAt returns the rune column of row whose cells cover target, clamped
// to the row's end.
func columnAt(runes []rune, row Row, target int) int {
	x := 0
	for col := row.Start; col < row.End; col++ {
		w := cells(runes[col], x)
		if target < x+w {
			return col
		}
		x += w
	}
	return row.End
}

// cellOf returns the cell offset of col within row.
func cellOf(runes []rune, row Row, col int) int {
	x := 0
	for i := row.Start; i < col && i < len(runes); i++ {
		x += cells(runes[i], x)
	}
	return x
}

// EnsureVisible scrolls so the caret at line, col is on screen.
func (v *Viewport) EnsureVisible(lines []string, line, col int) {
	rows := v.Rows(lines)
	r := RowIndex(rows, line, col)
	if r < v.scrollY {
		v.scrollY = r
	}
	if r >= v.scrollY+v.height {
		v.scrollY = r - v.height + 1
	}
	if v.wrap {
		v.scrollX = 0
		return
	}
	x := 0
	if line >= 0 && line < len(lines) {
		x = cellOf([]rune(lines[line]), rows[r], col)
	}
	if x < v.scrollX {
		v.scrollX = x
	}
	if x >= v.scrollX+v.width {
		v.scrollX = x - v.width + 1
	}
}

// Scroll moves the view by n rows, clamped to the text.
func (v *Viewport) Scroll(lines []string, n int) {
	maxY := max(len(v.Rows(lines))-v.height, 0)
	v.scrollY = min(max(v.scrollY+n, 0), maxY)
}

// MoveVertical moves the caret by n screen rows, keeping its cell column.
func (v *Viewport) MoveVertical(lines []string, line, col, n int) (int, int) {
	rows := v.Rows(lines)
	if len(rows) == 0 {
		return 0, 0
	}
	from := RowIndex(rows, line, col)
	x := cellOf([]rune(lines[line]), rows[from], col)
	to := min(max(from+n, 0), len(rows)-1)
	if to == from {
		return line, col
	}
	row := rows[to]
	runes := []rune(lines[row.Line])
	c := columnAt(runes, row, x)
	// Landing on the wrap point would show the caret on the next row.
	if c == row.End && to+1 < len(rows) && rows[to+1].Line == row.Line && c > row.Start {
		c--
	}
	return row.Line, c
}

// PositionFromClick maps a click inside the text area to a caret position.
func (v *Viewport) PositionFromClick(lines []string, x, y int) (line, col int) {
	rows := v.Rows(lines)
	if len(rows) == 0 {
		return 0, 0
	}
	idx := v.scrollY + y
	if idx >= len(rows) {
		last := rows[len(rows)-1]
		return last.Line, last.End
	}
	row := rows[max(idx, 0)]
	c := columnAt([]rune(lines[row.Line]), row, x+v.scrollX)
	if c == row.End && idx+1 < len(rows) && rows[idx+1].Line == row.Line && c > row.Start {
		c--
	}
	return row.Line, c
}

// Render draws the visible rows. selection maps line numbers to selected
// columns; colors, when not nil, supplies syntax spans per line.
func (v *Viewport) Render(lines []string, caretLine, caretCol int, selection map[int]SelectionRange, colors func(line int) []syntax.Span) string {
	rows := v.Rows(lines)
	out := make([]string, 0, v.height)

	caretRow := RowIndex(rows, caretLine, caretCol)
	cachedLine := -1
	var runes []rune
	var spans []syntax.Span
	for i := v.scrollY; i < len(rows) && len(out) < v.height; i++ {
		row := rows[i]
		if row.Line != cachedLine {
			cachedLine = row.Line
			runes = []rune(lines[row.Line])
			spans = nil
			if colors != nil {
				spans = colors(row.Line)
			}
		}
		caret := -1
		if i == caretRow && row.Line == caretLine {
			caret = caretCol
		}
		sel, hasSel := selection[row.Line]
		lastRow := i+1 == len(rows) || rows[i+1].Line != row.Line
		out = append(out, v.renderRow(runes, row, caret, sel, hasSel, lastRow, spans))
	}
	for len(out) < v.height {
		out = append(out, v.styles.Filler.Render("~")+strings.Repeat(" ", v.width-1))
	}
	return strings.Join(out, "\n")
}

func (v *Viewport) renderRow(runes []rune, row Row, caret int, sel SelectionRange, hasSel, lastRow bool, spans []syntax.Span) string {
	var sb strings.Builder
	left := 0
	if !v.wrap {
		left = v.scrollX
	}
	x, used := 0, 0
	put := func(s string, style func(string) string, w int) {
		sb.WriteString(style(s))
		used += w
	}
	plain := func(s string) string { return v.styles.Text.Render(s) }
	cursor := func(s string) string { return v.styles.Cursor.Render(s) }
	selected := func(s string) string { return v.styles.Selection.Render(s) }

	for col := row.Start; col < row.End; col++ {
		r := runes[col]
		w := cells(r, x)
		pos := x - left
		x += w
		if pos < 0 {
			continue
		}
		if pos+w > v.width {
			break
		}
		g := glyph(r, w)
		switch {
		case col == caret:
			if g == "" {
				g, w = " ", 1
			}
			put(g, cursor, w)
		case hasSel && sel.contains(col):
			put(g, selected, w)
		default:
			if c := syntax.ColorAt(spans, col); c != "" {
				put(g, func(s string) string { return ColorToANSIFg(c) + plain(s) + "\033[39m" }, w)
			} else {
				put(g, plain, w)
			}
		}
	}

	if used < v.width && lastRow {
		switch {
		case caret == row.End:
			put(" ", cursor, 1)
		case hasSel && sel.contains(row.End):
			put(" ", selected, 1)
		}
	}
	if used < v.width {
		sb.WriteString(strings.Repeat(" ", v.width-used))
	}
	return sb.String()
}
