package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/cornish/jotpad/config"
)

func newTestMenuBar() *MenuBar {
	m := NewMenuBar(DefaultStyles(), config.DefaultKeybindings())
	m.SetWidth(80)
	return m
}

func TestEveryBoundActionHasAMenuItem(t *testing.T) {
	m := newTestMenuBar()
	for _, name := range config.AllActions() {
		action := ActionByName(name)
		if action == ActionNone {
			t.Errorf("ActionByName(%q) = ActionNone", name)
			continue
		}
		if _, ok := m.Item(action); !ok {
			t.Errorf("no menu item for %q", name)
		}
	}
}

func TestShortcutLabels(t *testing.T) {
	m := newTestMenuBar()
	it, _ := m.Item(ActionSave)
	if it.Shortcut != "Ctrl+S" {
		t.Errorf("Save shortcut = %q, want Ctrl+S", it.Shortcut)
	}
}

func TestNavigationSkipsSeparators(t *testing.T) {
	m := newTestMenuBar()
	m.OpenMenu(0)
	for i := 0; i < 4; i++ {
		m.NextItem()
	}
	// New, Open, Save, Save As, ---, Print
	if got := m.Select(); got != ActionPrint {
		t.Errorf("Select() = %v, want ActionPrint", got)
	}
	if m.IsOpen() {
		t.Error("menu should close after Select()")
	}
}

func TestPrevItemWraps(t *testing.T) {
	m := newTestMenuBar()
	m.OpenMenu(0)
	m.PrevItem()
	if got := m.Select(); got != ActionExit {
		t.Errorf("Select() = %v, want ActionExit", got)
	}
}

func TestDisabledItemsCannotBeSelected(t *testing.T) {
	m := newTestMenuBar()
	m.SetItemDisabled(ActionUndo, true)
	m.OpenMenu(1)
	if got := m.Select(); got != ActionNone {
		t.Errorf("Select() on disabled Undo = %v, want ActionNone", got)
	}
	if got := m.SelectByHotKey('u'); got != ActionNone {
		t.Errorf("SelectByHotKey('u') on disabled Undo = %v", got)
	}
	if got := m.SelectByHotKey('r'); got != ActionRedo {
		t.Errorf("SelectByHotKey('r') = %v, want ActionRedo", got)
	}
}

func TestMenuIndexByHotKey(t *testing.T) {
	m := newTestMenuBar()
	tests := []struct {
		r    rune
		want int
	}{
		{'f', 0},
		{'E', 1},
		{'o', 2},
		{'v', 3},
		{'h', 4},
		{'z', -1},
	}
	for _, tt := range tests {
		if got := m.MenuIndexByHotKey(tt.r); got != tt.want {
			t.Errorf("MenuIndexByHotKey(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestCheckedLabel(t *testing.T) {
	m := newTestMenuBar()
	m.SetChecked(ActionLineWrap, true)
	m.OpenMenu(2)
	lines, _ := m.RenderDropdown()
	if !strings.Contains(ansi.Strip(strings.Join(lines, "\n")), "[x] Line Wrap") {
		t.Error("dropdown should show a checked Line Wrap item")
	}
}

func TestHandleClick(t *testing.T) {
	m := newTestMenuBar()

	handled, action := m.HandleClick(1, 0)
	if !handled || action != ActionNone || !m.IsOpen() {
		t.Fatalf("click on File: handled=%v action=%v open=%v", handled, action, m.IsOpen())
	}
	// Row 2 is the first item under the top border.
	handled, action = m.HandleClick(2, 2)
	if !handled || action != ActionNew {
		t.Errorf("click on first item = %v, %v, want ActionNew", handled, action)
	}

	m.OpenMenu(0)
	handled, _ = m.HandleClick(70, 10)
	if handled {
		t.Error("click outside the dropdown should not be handled")
	}
}

func TestViewWidth(t *testing.T) {
	m := newTestMenuBar()
	if w := ansi.StringWidth(m.View()); w != 80 {
		t.Errorf("View() width = %d, want 80", w)
	}
}
