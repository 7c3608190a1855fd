package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cornish/jotpad/document"
	"github.com/cornish/jotpad/font"
	"github.com/cornish/jotpad/syntax"
	"github.com/cornish/jotpad/ui"
)

// window is one open document with its own caret, view and font.
type window struct {
	session   *document.Session
	viewport  *ui.Viewport
	highlight *syntax.Highlighter
	font      font.Font

	caret  int // byte offset
	anchor int // selection anchor, -1 when nothing is selected

	suggested string // Save As default for a file named on the command line
}

func (w *window) buf() *document.Buffer { return w.session.Buffer() }

// hasSelection reports whether a non-empty range is selected.
func (w *window) hasSelection() bool {
	return w.anchor >= 0 && w.anchor != w.caret
}

// selection returns the selected range, start <= end.
func (w *window) selection() (start, end int) {
	if !w.hasSelection() {
		return w.caret, w.caret
	}
	return min(w.anchor, w.caret), max(w.anchor, w.caret)
}

func (w *window) selectedText() string {
	start, end := w.selection()
	return w.buf().Substring(start, end)
}

func (w *window) clearSelection() { w.anchor = -1 }

// setCaret moves the caret. With extend the selection grows from the old
// caret, otherwise it is dropped.
func (w *window) setCaret(pos int, extend bool) {
	if extend {
		if w.anchor < 0 {
			w.anchor = w.caret
		}
	} else {
		w.anchor = -1
	}
	w.caret = min(max(pos, 0), w.buf().Len())
}

func (w *window) selectAll() {
	w.anchor = 0
	w.caret = w.buf().Len()
}

// lineCol returns the caret's 0-based line and rune column.
func (w *window) lineCol(lines []string) (int, int) {
	line, col := w.buf().LineCol(w.caret)
	if line >= len(lines) {
		return line, 0
	}
	return line, runeCol(lines[line], col)
}

// offsetOf converts a line and rune column back to a byte offset.
func (w *window) offsetOf(lines []string, line, col int) int {
	if line < 0 {
		return 0
	}
	if line >= len(lines) {
		return w.buf().Len()
	}
	return w.buf().Offset(line, byteCol(lines[line], col))
}

func runeCol(s string, byteCol int) int {
	if byteCol > len(s) {
		byteCol = len(s)
	}
	return utf8.RuneCountInString(s[:byteCol])
}

func byteCol(s string, runeCol int) int {
	i := 0
	for n := 0; n < runeCol && i < len(s); n++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

// insert replaces the selection, if any, with text. Typed text joins the
// current typing run; everything else is its own undo step.
func (w *window) insert(text string, typing bool) {
	if w.hasSelection() {
		start, end := w.selection()
		w.session.BreakTypingRun()
		w.session.Replace(start, end, text)
		w.session.BreakTypingRun()
		w.setCaret(start+len(text), false)
		return
	}
	if typing {
		w.session.ApplyTyping(document.Insertion(w.caret, text))
	} else {
		w.session.BreakTypingRun()
		w.session.Insert(w.caret, text)
		w.session.BreakTypingRun()
	}
	w.setCaret(w.caret+len(text), false)
}

// deleteSelection removes the selected text and reports whether there was any.
func (w *window) deleteSelection() bool {
	if !w.hasSelection() {
		return false
	}
	start, end := w.selection()
	w.session.BreakTypingRun()
	w.session.Delete(start, end-start)
	w.session.BreakTypingRun()
	w.setCaret(start, false)
	return true
}

func (w *window) backspace() {
	if w.deleteSelection() || w.caret == 0 {
		return
	}
	_, size := w.buf().RuneBefore(w.caret)
	start := w.caret - size
	w.session.ApplyTyping(document.Deletion(start, w.buf().Substring(start, w.caret)))
	w.setCaret(start, false)
}

func (w *window) deleteForward() {
	if w.deleteSelection() || w.caret >= w.buf().Len() {
		return
	}
	_, size := w.buf().RuneAt(w.caret)
	w.session.ApplyTyping(document.Deletion(w.caret, w.buf().Substring(w.caret, w.caret+size)))
	w.setCaret(w.caret, false)
}

func (w *window) undo() bool {
	e, ok := w.session.Undo()
	if ok {
		w.setCaret(e.Offset+len(e.Removed), false)
	}
	return ok
}

func (w *window) redo() bool {
	e, ok := w.session.Redo()
	if ok {
		w.setCaret(e.End(), false)
	}
	return ok
}

// Caret movement

func (w *window) moveLeft(extend bool) {
	if w.hasSelection() && !extend {
		start, _ := w.selection()
		w.setCaret(start, false)
		return
	}
	_, size := w.buf().RuneBefore(w.caret)
	w.setCaret(w.caret-size, extend)
}

func (w *window) moveRight(extend bool) {
	if w.hasSelection() && !extend {
		_, end := w.selection()
		w.setCaret(end, false)
		return
	}
	_, size := w.buf().RuneAt(w.caret)
	w.setCaret(w.caret+size, extend)
}

func (w *window) moveVertical(n int, extend bool) {
	lines := w.buf().Lines()
	line, col := w.lineCol(lines)
	line, col = w.viewport.MoveVertical(lines, line, col, n)
	w.setCaret(w.offsetOf(lines, line, col), extend)
}

func (w *window) moveLineStart(extend bool) {
	line, _ := w.buf().LineCol(w.caret)
	w.setCaret(w.buf().LineStart(line), extend)
}

func (w *window) moveLineEnd(extend bool) {
	line, _ := w.buf().LineCol(w.caret)
	w.setCaret(w.buf().LineEnd(line), extend)
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// moveWordLeft moves to the start of the previous word.
func (w *window) moveWordLeft(extend bool) {
	b, pos := w.buf(), w.caret
	for pos > 0 {
		r, size := b.RuneBefore(pos)
		if isWordChar(r) {
			break
		}
		pos -= size
	}
	for pos > 0 {
		r, size := b.RuneBefore(pos)
		if !isWordChar(r) {
			break
		}
		pos -= size
	}
	w.setCaret(pos, extend)
}

// moveWordRight moves past the end of the next word.
func (w *window) moveWordRight(extend bool) {
	b, pos := w.buf(), w.caret
	for pos < b.Len() {
		r, size := b.RuneAt(pos)
		if isWordChar(r) {
			break
		}
		pos += size
	}
	for pos < b.Len() {
		r, size := b.RuneAt(pos)
		if !isWordChar(r) {
			break
		}
		pos += size
	}
	w.setCaret(pos, extend)
}

// clickAt places the caret at a text-area cell.
func (w *window) clickAt(x, y int, extend bool) {
	lines := w.buf().Lines()
	line, col := w.viewport.PositionFromClick(lines, x, y)
	w.setCaret(w.offsetOf(lines, line, col), extend)
}

// ensureVisible scrolls the caret into view.
func (w *window) ensureVisible() {
	lines := w.buf().Lines()
	line, col := w.lineCol(lines)
	w.viewport.EnsureVisible(lines, line, col)
}

// selectionMap converts the selection into per-line rune ranges.
func (w *window) selectionMap(lines []string) map[int]ui.SelectionRange {
	if !w.hasSelection() {
		return nil
	}
	start, end := w.selection()
	sl, sc := w.buf().LineCol(start)
	el, ec := w.buf().LineCol(end)
	m := make(map[int]ui.SelectionRange, el-sl+1)
	for line := sl; line <= el && line < len(lines); line++ {
		r := ui.SelectionRange{Start: 0, End: -1}
		if line == sl {
			r.Start = runeCol(lines[line], sc)
		}
		if line == el {
			r.End = runeCol(lines[line], ec)
		}
		m[line] = r
	}
	return m
}

// render draws the text area.
func (w *window) render() string {
	lines := w.buf().Lines()
	line, col := w.lineCol(lines)
	var colors func(int) []syntax.Span
	if w.highlight.Active() {
		colors = func(i int) []syntax.Span { return w.highlight.Line(lines[i]) }
	}
	return w.viewport.Render(lines, line, col, w.selectionMap(lines), colors)
}

// title is the window's name for the terminal title and status bar.
func (w *window) title() string {
	name := w.session.Name()
	if w.session.IsDirty() {
		name = "*" + name
	}
	return name
}

// normalizeNewlines converts pasted CRLF and CR line endings to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
