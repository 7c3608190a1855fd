package ui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/cornish/jotpad/config"
)

// MenuAction represents an action triggered by a menu item
type MenuAction int

const (
	ActionNone MenuAction = iota
	// File
	ActionNew
	ActionOpen
	ActionSave
	ActionSaveAs
	ActionPrint
	ActionClose
	ActionExit
	// Edit
	ActionUndo
	ActionRedo
	ActionCut
	ActionCopy
	ActionPaste
	ActionDelete
	ActionSelectAll
	// Format
	ActionLineWrap
	ActionSetFont
	ActionFontIncrease
	ActionFontDecrease
	ActionFontReset
	// View
	ActionStatusBar
	ActionNextWindow
	ActionPrevWindow
	// Help
	ActionHelp
	ActionAbout
)

var actionNames = map[string]MenuAction{
	config.ActNew:          ActionNew,
	config.ActOpen:         ActionOpen,
	config.ActSave:         ActionSave,
	config.ActSaveAs:       ActionSaveAs,
	config.ActPrint:        ActionPrint,
	config.ActClose:        ActionClose,
	config.ActQuit:         ActionExit,
	config.ActUndo:         ActionUndo,
	config.ActRedo:         ActionRedo,
	config.ActCut:          ActionCut,
	config.ActCopy:         ActionCopy,
	config.ActPaste:        ActionPaste,
	config.ActDelete:       ActionDelete,
	config.ActSelectAll:    ActionSelectAll,
	config.ActLineWrap:     ActionLineWrap,
	config.ActSetFont:      ActionSetFont,
	config.ActFontIncrease: ActionFontIncrease,
	config.ActFontDecrease: ActionFontDecrease,
	config.ActFontReset:    ActionFontReset,
	config.ActStatusBar:    ActionStatusBar,
	config.ActNextWindow:   ActionNextWindow,
	config.ActPrevWindow:   ActionPrevWindow,
	config.ActHelp:         ActionHelp,
}

// ActionByName maps a key binding action name to its menu action.
func ActionByName(name string) MenuAction {
	return actionNames[name]
}

// MenuItem represents a single menu option
type MenuItem struct {
	Label     string
	Shortcut  string
	HotKey    rune
	Action    MenuAction
	Disabled  bool
	Checkable bool
	Checked   bool
	Separator bool
}

func (it MenuItem) text() string {
	if !it.Checkable {
		return it.Label
	}
	if it.Checked {
		return "[x] " + it.Label
	}
	return "[ ] " + it.Label
}

// Menu represents a dropdown menu
type Menu struct {
	Label  string
	HotKey rune // Alt+HotKey opens the menu
	Items  []MenuItem
}

// MenuBar is the top menu bar and its open dropdown.
type MenuBar struct {
	menus      []Menu
	activeMenu int
	activeItem int
	isOpen     bool
	width      int
	styles     Styles
}

var separator = MenuItem{Separator: true}

// NewMenuBar builds the menus, labelling shortcuts from kb.
func NewMenuBar(styles Styles, kb config.Keybindings) *MenuBar {
	item := func(label string, hot rune, action string) MenuItem {
		return MenuItem{Label: label, HotKey: hot, Action: actionNames[action], Shortcut: kb.Label(action)}
	}
	check := func(it MenuItem) MenuItem {
		it.Checkable = true
		return it
	}
	return &MenuBar{
		menus: []Menu{
			{Label: "File", HotKey: 'F', Items: []MenuItem{
				item("New", 'N', config.ActNew),
				item("Open...", 'O', config.ActOpen),
				item("Save", 'S', config.ActSave),
				item("Save As...", 'A', config.ActSaveAs),
				separator,
				item("Print...", 'P', config.ActPrint),
				separator,
				item("Close", 'C', config.ActClose),
				item("Exit", 'X', config.ActQuit),
			}},
			{Label: "Edit", HotKey: 'E', Items: []MenuItem{
				item("Undo", 'U', config.ActUndo),
				item("Redo", 'R', config.ActRedo),
				separator,
				item("Cut", 'T', config.ActCut),
				item("Copy", 'C', config.ActCopy),
				item("Paste", 'P', config.ActPaste),
				item("Delete", 'L', config.ActDelete),
				separator,
				item("Select All", 'A', config.ActSelectAll),
			}},
			{Label: "Format", HotKey: 'O', Items: []MenuItem{
				check(item("Line Wrap", 'W', config.ActLineWrap)),
				item("Font...", 'F', config.ActSetFont),
				separator,
				item("Increase Font Size", 'I', config.ActFontIncrease),
				item("Decrease Font Size", 'D', config.ActFontDecrease),
				item("Original Font Size", 'O', config.ActFontReset),
			}},
			{Label: "View", HotKey: 'V', Items: []MenuItem{
				check(item("Status Bar", 'S', config.ActStatusBar)),
				separator,
				item("Next Window", 'N', config.ActNextWindow),
				item("Previous Window", 'P', config.ActPrevWindow),
			}},
			{Label: "Help", HotKey: 'H', Items: []MenuItem{
				item("Help", 'H', config.ActHelp),
				{Label: "About jotpad", HotKey: 'A', Action: ActionAbout},
			}},
		},
		activeMenu: -1,
		styles:     styles,
	}
}

func (m *MenuBar) SetWidth(width int)      { m.width = width }
func (m *MenuBar) SetStyles(styles Styles) { m.styles = styles }
func (m *MenuBar) IsOpen() bool            { return m.isOpen }

// Menus exposes the menus for inspection.
func (m *MenuBar) Menus() []Menu { return m.menus }

// OpenMenu opens the menu at index with its first enabled item highlighted.
func (m *MenuBar) OpenMenu(index int) {
	if index < 0 || index >= len(m.menus) {
		return
	}
	m.activeMenu = index
	m.isOpen = true
	m.activeItem = -1
	m.moveItem(1)
}

// Close closes any open menu
func (m *MenuBar) Close() {
	m.isOpen = false
	m.activeMenu = -1
	m.activeItem = 0
}

// MenuIndexByHotKey returns the menu opened by Alt+r, or -1.
func (m *MenuBar) MenuIndexByHotKey(r rune) int {
	r = unicode.ToUpper(r)
	for i, menu := range m.menus {
		if menu.HotKey == r {
			return i
		}
	}
	return -1
}

func (m *MenuBar) NextMenu() { m.OpenMenu((m.activeMenu + 1) % len(m.menus)) }
func (m *MenuBar) PrevMenu() { m.OpenMenu((m.activeMenu - 1 + len(m.menus)) % len(m.menus)) }
func (m *MenuBar) NextItem() { m.moveItem(1) }
func (m *MenuBar) PrevItem() { m.moveItem(-1) }

// moveItem steps the highlight by dir, skipping separators.
func (m *MenuBar) moveItem(dir int) {
	if !m.isOpen {
		return
	}
	items := m.menus[m.activeMenu].Items
	i := m.activeItem
	for range items {
		i = (i + dir + len(items)) % len(items)
		if !items[i].Separator {
			m.activeItem = i
			return
		}
	}
}

// Select returns the highlighted item's action and closes the menu.
// Disabled items select nothing and leave the menu open.
func (m *MenuBar) Select() MenuAction {
	if !m.isOpen {
		return ActionNone
	}
	items := m.menus[m.activeMenu].Items
	if m.activeItem < 0 || m.activeItem >= len(items) {
		return ActionNone
	}
	it := items[m.activeItem]
	if it.Disabled || it.Separator {
		return ActionNone
	}
	m.Close()
	return it.Action
}

// SelectByHotKey selects the enabled item of the open menu whose hot key is r.
func (m *MenuBar) SelectByHotKey(r rune) MenuAction {
	if !m.isOpen {
		return ActionNone
	}
	r = unicode.ToUpper(r)
	for i, it := range m.menus[m.activeMenu].Items {
		if !it.Separator && !it.Disabled && unicode.ToUpper(it.HotKey) == r {
			m.activeItem = i
			return m.Select()
		}
	}
	return ActionNone
}

func (m *MenuBar) find(action MenuAction) *MenuItem {
	for i := range m.menus {
		for j := range m.menus[i].Items {
			if it := &m.menus[i].Items[j]; !it.Separator && it.Action == action {
				return it
			}
		}
	}
	return nil
}

// SetItemDisabled sets the disabled state of a menu item by action
func (m *MenuBar) SetItemDisabled(action MenuAction, disabled bool) {
	if it := m.find(action); it != nil {
		it.Disabled = disabled
	}
}

// SetChecked sets the check mark of a checkable item.
func (m *MenuBar) SetChecked(action MenuAction, checked bool) {
	if it := m.find(action); it != nil {
		it.Checked = checked
	}
}

// Item returns a copy of the item for action.
func (m *MenuBar) Item(action MenuAction) (MenuItem, bool) {
	if it := m.find(action); it != nil {
		return *it, true
	}
	return MenuItem{}, false
}

func (m *MenuBar) titleWidth(i int) int {
	return runewidth.StringWidth(m.menus[i].Label) + 4
}

// DropdownOffset returns the column where the open dropdown starts.
func (m *MenuBar) DropdownOffset() int {
	off := 0
	for i := 0; i < m.activeMenu; i++ {
		off += m.titleWidth(i)
	}
	return off
}

// HandleClick handles a click at x, y (screen coordinates, bar on row 0).
// It reports whether the click landed on the menus.
func (m *MenuBar) HandleClick(x, y int) (bool, MenuAction) {
	if y == 0 {
		pos := 0
		for i := range m.menus {
			w := m.titleWidth(i)
			if x >= pos && x < pos+w {
				if m.isOpen && m.activeMenu == i {
					m.Close()
				} else {
					m.OpenMenu(i)
				}
				return true, ActionNone
			}
			pos += w
		}
		m.Close()
		return true, ActionNone
	}
	if !m.isOpen {
		return false, ActionNone
	}
	off := m.DropdownOffset()
	lines, _ := m.RenderDropdown()
	if x < off || len(lines) == 0 || x >= off+lipgloss.Width(lines[0]) || y > len(lines) {
		return false, ActionNone
	}
	idx := y - 2 // bar row plus top border
	items := m.menus[m.activeMenu].Items
	if idx < 0 || idx >= len(items) || items[idx].Separator {
		return true, ActionNone
	}
	m.activeItem = idx
	return true, m.Select()
}

// underlineHotKey underlines the first occurrence of hot in s.
func underlineHotKey(s string, hot rune) string {
	if hot == 0 {
		return s
	}
	hot = unicode.ToUpper(hot)
	for i, r := range s {
		if unicode.ToUpper(r) == hot {
			return s[:i] + "\033[4m" + string(r) + "\033[24m" + s[i+len(string(r)):]
		}
	}
	return s
}

// View renders the bar itself.
func (m *MenuBar) View() string {
	c := m.styles.Theme.UI
	normal := ColorToANSI(c.MenuFg, c.MenuBg)
	active := ColorToANSI(c.MenuHighlightFg, c.MenuHighlightBg)

	var sb strings.Builder
	sb.WriteString(normal)
	used := 0
	for i, menu := range m.menus {
		label := "  " + underlineHotKey(menu.Label, menu.HotKey) + "  "
		if m.isOpen && i == m.activeMenu {
			sb.WriteString(active + label + normal)
		} else {
			sb.WriteString(label)
		}
		used += m.titleWidth(i)
	}
	if used < m.width {
		sb.WriteString(strings.Repeat(" ", m.width-used))
	}
	sb.WriteString("\033[0m")
	return sb.String()
}

// RenderDropdown renders the open dropdown as lines for overlaying, plus the
// column where it starts.
func (m *MenuBar) RenderDropdown() ([]string, int) {
	if !m.isOpen {
		return nil, 0
	}
	menu := m.menus[m.activeMenu]

	labelW, keyW := 0, 0
	for _, it := range menu.Items {
		labelW = max(labelW, runewidth.StringWidth(it.text()))
		keyW = max(keyW, runewidth.StringWidth(it.Shortcut))
	}
	inner := labelW
	if keyW > 0 {
		inner += 3 + keyW
	}

	rows := make([]string, 0, len(menu.Items))
	for i, it := range menu.Items {
		if it.Separator {
			rows = append(rows, m.styles.MenuOption.Render(strings.Repeat("-", inner)))
			continue
		}
		style := m.styles.MenuOption
		switch {
		case it.Disabled:
			style = m.styles.MenuOptionDisabled
		case i == m.activeItem:
			style = m.styles.MenuOptionActive
		}
		text := it.text()
		pad := inner - runewidth.StringWidth(text) - runewidth.StringWidth(it.Shortcut)
		label := text
		if !it.Disabled {
			label = underlineHotKey(text, it.HotKey)
		}
		rows = append(rows, style.Render(label+strings.Repeat(" ", pad)+it.Shortcut))
	}
	box := m.styles.MenuDropdown.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return strings.Split(box, "\n"), m.DropdownOffset()
}

// DropdownHeight returns the dropdown's height including borders.
func (m *MenuBar) DropdownHeight() int {
	if !m.isOpen {
		return 0
	}
	return len(m.menus[m.activeMenu].Items) + 2
}
