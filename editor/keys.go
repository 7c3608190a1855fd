package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cornish/jotpad/ui"
)

// handleKey handles keyboard input
func (e *Editor) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch e.mode {
	case ModeMenu:
		return e.handleMenuKey(msg)
	case ModeOpen:
		return e.handleBrowserKey(msg)
	case ModeSaveAs:
		return e.handleSaveAsKey(msg)
	case ModeConfirm:
		return e.handleConfirmKey(msg)
	case ModeClose:
		return e.handleCloseKey(msg)
	case ModeFont:
		return e.handleFontKey(msg)
	case ModeMessage:
		e.message = nil
		e.mode = ModeNormal
		return e, nil
	}

	key := msg.String()
	if action := e.kb.ActionFor(key); action != "" {
		return e.executeAction(ui.ActionByName(action))
	}
	if msg.Alt && len(msg.Runes) == 1 {
		if i := e.menubar.MenuIndexByHotKey(msg.Runes[0]); i >= 0 {
			e.menubar.OpenMenu(i)
			e.mode = ModeMenu
			return e, nil
		}
	}
	if key == "f10" {
		e.menubar.OpenMenu(0)
		e.mode = ModeMenu
		return e, nil
	}

	e.handleEditKey(msg)
	e.afterChange()
	return e, nil
}

// handleEditKey moves the caret or edits text for keys without a binding.
func (e *Editor) handleEditKey(msg tea.KeyMsg) {
	w := e.active()
	page := max(w.viewport.Height()-1, 1)

	switch msg.String() {
	case "left", "shift+left":
		w.moveLeft(msg.String() != "left")
	case "right", "shift+right":
		w.moveRight(msg.String() != "right")
	case "up", "shift+up":
		w.moveVertical(-1, msg.String() != "up")
	case "down", "shift+down":
		w.moveVertical(1, msg.String() != "down")
	case "pgup", "shift+pgup":
		w.moveVertical(-page, msg.String() != "pgup")
	case "pgdown", "shift+pgdown":
		w.moveVertical(page, msg.String() != "pgdown")
	case "home", "shift+home":
		w.moveLineStart(msg.String() != "home")
	case "end", "shift+end":
		w.moveLineEnd(msg.String() != "end")
	case "ctrl+home", "ctrl+shift+home":
		w.setCaret(0, msg.String() != "ctrl+home")
	case "ctrl+end", "ctrl+shift+end":
		w.setCaret(w.buf().Len(), msg.String() != "ctrl+end")
	case "ctrl+left", "ctrl+shift+left":
		w.moveWordLeft(msg.String() != "ctrl+left")
	case "ctrl+right", "ctrl+shift+right":
		w.moveWordRight(msg.String() != "ctrl+right")
	case "esc":
		w.clearSelection()
	case "enter":
		w.insert("\n", true)
	case "tab":
		w.insert("\t", true)
	case "backspace":
		w.backspace()
	case "delete":
		w.deleteForward()
	default:
		switch {
		case msg.Type == tea.KeySpace:
			w.insert(" ", true)
		case msg.Type == tea.KeyRunes && msg.Paste:
			w.insert(normalizeNewlines(string(msg.Runes)), false)
		case msg.Type == tea.KeyRunes && !msg.Alt:
			w.insert(string(msg.Runes), true)
		}
		return
	}
	if !isEditKey(msg.String()) {
		w.session.BreakTypingRun()
	}
}

func isEditKey(key string) bool {
	switch key {
	case "enter", "tab", "backspace", "delete":
		return true
	}
	return false
}

// handleMenuKey handles keyboard input while a menu is open
func (e *Editor) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	leaveIfClosed := func() {
		if !e.menubar.IsOpen() {
			e.mode = ModeNormal
		}
	}

	switch msg.String() {
	case "esc", "f10":
		e.menubar.Close()
		e.mode = ModeNormal
	case "enter", " ":
		action := e.menubar.Select()
		leaveIfClosed()
		if action != ui.ActionNone {
			return e.executeAction(action)
		}
	case "up":
		e.menubar.PrevItem()
	case "down":
		e.menubar.NextItem()
	case "left":
		e.menubar.PrevMenu()
	case "right":
		e.menubar.NextMenu()
	default:
		if len(msg.Runes) != 1 {
			break
		}
		if msg.Alt {
			if i := e.menubar.MenuIndexByHotKey(msg.Runes[0]); i >= 0 {
				e.menubar.OpenMenu(i)
			}
			break
		}
		action := e.menubar.SelectByHotKey(msg.Runes[0])
		leaveIfClosed()
		if action != ui.ActionNone {
			return e.executeAction(action)
		}
	}
	return e, nil
}

// handleMouse handles mouse input
func (e *Editor) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch e.mode {
	case ModeOpen:
		return e.handleBrowserMouse(msg)
	case ModeNormal, ModeMenu:
	default:
		return e, nil
	}

	w := e.active()
	press := msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress

	if press && (msg.Y == 0 || e.menubar.IsOpen()) {
		handled, action := e.menubar.HandleClick(msg.X, msg.Y)
		if e.menubar.IsOpen() {
			e.mode = ModeMenu
		} else {
			e.mode = ModeNormal
		}
		if action != ui.ActionNone {
			return e.executeAction(action)
		}
		if handled {
			return e, nil
		}
		e.menubar.Close()
		e.mode = ModeNormal
	}

	y := msg.Y - 1
	inText := y >= 0 && y < w.viewport.Height()

	switch {
	case press && inText:
		w.session.BreakTypingRun()
		w.clickAt(msg.X, y, msg.Shift)
		e.mouseDown = true
	case msg.Action == tea.MouseActionRelease:
		e.mouseDown = false
	case msg.Action == tea.MouseActionMotion && e.mouseDown:
		// Dragging past an edge scrolls.
		switch {
		case y < 0:
			w.viewport.Scroll(w.buf().Lines(), -1)
			y = 0
		case y >= w.viewport.Height():
			w.viewport.Scroll(w.buf().Lines(), 1)
			y = w.viewport.Height() - 1
		}
		w.clickAt(msg.X, y, true)
	case msg.Button == tea.MouseButtonWheelUp:
		w.viewport.Scroll(w.buf().Lines(), -3)
		return e, nil
	case msg.Button == tea.MouseButtonWheelDown:
		w.viewport.Scroll(w.buf().Lines(), 3)
		return e, nil
	default:
		return e, nil
	}
	e.afterChange()
	return e, nil
}
