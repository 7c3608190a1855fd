package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cornish/jotpad/ui"
)

// windowWith returns a test editor whose current window holds text, with
// the caret at the start.
func windowWith(t *testing.T, text string) (*testEditor, *window) {
	t.Helper()
	te := newTestEditor(t)
	w := te.active()
	w.insert(text, false)
	w.setCaret(0, false)
	return te, w
}

func TestRuneAndByteColumns(t *testing.T) {
	s := "héllo"
	assert.Equal(t, 2, runeCol(s, 3))
	assert.Equal(t, 3, byteCol(s, 2))
	assert.Equal(t, 5, runeCol(s, 100))
	assert.Equal(t, len(s), byteCol(s, 100))
}

func TestLineColUsesRuneColumns(t *testing.T) {
	_, w := windowWith(t, "ab\nçé x")
	lines := w.buf().Lines()
	w.setCaret(w.offsetOf(lines, 1, 3), false)

	line, col := w.lineCol(lines)
	assert.Equal(t, 1, line)
	assert.Equal(t, 3, col)
	assert.Equal(t, "x", w.buf().Substring(w.caret, w.buf().Len()))
}

func TestBackspaceRemovesWholeRune(t *testing.T) {
	_, w := windowWith(t, "aé")
	w.setCaret(w.buf().Len(), false)
	w.backspace()
	assert.Equal(t, "a", w.session.Text())
	assert.Equal(t, 1, w.caret)
}

func TestDeleteForward(t *testing.T) {
	_, w := windowWith(t, "日本")
	w.deleteForward()
	assert.Equal(t, "本", w.session.Text())
	assert.Equal(t, 0, w.caret)

	w.setCaret(w.buf().Len(), false)
	w.deleteForward()
	assert.Equal(t, "本", w.session.Text(), "nothing after the caret")
}

func TestBackspaceRunUndoesAsOneStep(t *testing.T) {
	te, w := windowWith(t, "abcd")
	w.session.BreakTypingRun()
	w.setCaret(4, false)
	te.press(key(tea.KeyBackspace))
	te.press(key(tea.KeyBackspace))
	require.Equal(t, "ab", w.session.Text())

	te.press(key(tea.KeyCtrlZ))
	assert.Equal(t, "abcd", w.session.Text())
	assert.Equal(t, 4, w.caret)
}

func TestSelectionDeleteIsItsOwnUndoStep(t *testing.T) {
	te, w := windowWith(t, "hello world")
	w.setCaret(6, false)
	w.setCaret(11, true)
	te.press(key(tea.KeyBackspace))
	te.press(key(tea.KeyBackspace))
	require.Equal(t, "hello", w.session.Text())

	te.press(key(tea.KeyCtrlZ))
	assert.Equal(t, "hello ", w.session.Text())
	te.press(key(tea.KeyCtrlZ))
	assert.Equal(t, "hello world", w.session.Text())
	assert.Equal(t, 11, w.caret)
}

func TestCutThenBackspaceUndoesSeparately(t *testing.T) {
	te, w := windowWith(t, "hello world")
	w.setCaret(6, false)
	w.setCaret(11, true)
	te.press(key(tea.KeyCtrlX))
	require.Equal(t, "world", te.clip.Text)
	te.press(key(tea.KeyBackspace))
	require.Equal(t, "hello", w.session.Text())

	te.press(key(tea.KeyCtrlZ))
	assert.Equal(t, "hello ", w.session.Text())
}

func TestWordMovement(t *testing.T) {
	_, w := windowWith(t, "one two_2, three")
	w.moveWordRight(false)
	assert.Equal(t, 3, w.caret)
	w.moveWordRight(false)
	assert.Equal(t, 9, w.caret)
	w.moveWordRight(true)
	assert.Equal(t, 16, w.caret)
	assert.Equal(t, ", three", w.selectedText())

	w.moveWordLeft(false)
	assert.Equal(t, 11, w.caret)
	w.moveWordLeft(false)
	assert.Equal(t, 4, w.caret)
}

func TestMoveLeftRightCollapseSelection(t *testing.T) {
	_, w := windowWith(t, "abcdef")
	w.setCaret(2, false)
	w.setCaret(4, true)
	require.Equal(t, "cd", w.selectedText())

	w.moveLeft(false)
	assert.Equal(t, 2, w.caret)
	assert.False(t, w.hasSelection())

	w.setCaret(4, true)
	w.moveRight(false)
	assert.Equal(t, 4, w.caret)
	assert.False(t, w.hasSelection())
}

func TestLineStartEnd(t *testing.T) {
	_, w := windowWith(t, "first\nsecond line\nthird")
	w.setCaret(9, false)
	w.moveLineEnd(false)
	assert.Equal(t, 17, w.caret)
	w.moveLineStart(true)
	assert.Equal(t, 6, w.caret)
	assert.Equal(t, "second line", w.selectedText())
}

func TestSelectionMap(t *testing.T) {
	_, w := windowWith(t, "aé\nbb\ncc")
	w.setCaret(1, false)
	w.setCaret(w.buf().Len()-1, true)

	m := w.selectionMap(w.buf().Lines())
	assert.Equal(t, map[int]ui.SelectionRange{
		0: {Start: 1, End: -1},
		1: {Start: 0, End: -1},
		2: {Start: 0, End: 1},
	}, m)

	w.clearSelection()
	assert.Nil(t, w.selectionMap(w.buf().Lines()))
}

func TestUndoRedoPlaceCaret(t *testing.T) {
	w := newTestEditor(t).active()
	w.insert("hello", true)
	w.session.BreakTypingRun()
	w.setCaret(0, false)

	require.True(t, w.undo())
	assert.Equal(t, 0, w.caret)
	require.True(t, w.redo())
	assert.Equal(t, 5, w.caret)
	assert.False(t, w.redo())
}

func TestWindowTitleMarksDirty(t *testing.T) {
	te := newTestEditor(t)
	w := te.active()
	assert.Equal(t, "Untitled", w.title())
	te.typeText("x")
	assert.Equal(t, "*Untitled", w.title())
}

func TestMouseClickPlacesCaret(t *testing.T) {
	te, w := windowWith(t, "first\nsecond")
	te.Update(tea.MouseMsg{X: 3, Y: 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, 9, w.caret)

	te.Update(tea.MouseMsg{X: 1, Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	te.Update(tea.MouseMsg{X: 1, Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	assert.Equal(t, "irst\nsec", w.selectedText())
}

func TestNormalizeNewlines(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n", normalizeNewlines("a\r\nb\rc\n"))
}
