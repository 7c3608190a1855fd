package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// FileEntry is one row of the Open dialog.
type FileEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// fileBrowser is the state of the Open dialog.
type fileBrowser struct {
	dir      string
	entries  []FileEntry
	selected int
	scroll   int
	err      string
}

// newFileBrowser lists dir, falling back to the working directory and then
// the home directory.
func newFileBrowser(dir string) *fileBrowser {
	b := &fileBrowser{}
	for _, candidate := range []string{dir, workingDir(), homeDir(), "/"} {
		if candidate == "" {
			continue
		}
		if err := b.load(candidate); err == nil {
			break
		}
	}
	return b
}

func workingDir() string {
	dir, _ := os.Getwd()
	return dir
}

func homeDir() string {
	dir, _ := os.UserHomeDir()
	return dir
}

// load reads path into the list: parent first, then directories, then
// files, each sorted case-insensitively.
func (b *fileBrowser) load(path string) error {
	path = filepath.Clean(path)
	entries, err := os.ReadDir(path)
	if err != nil {
		b.err = "Cannot open: " + err.Error()
		return err
	}
	b.err = ""

	var dirs, files []FileEntry
	for _, entry := range entries {
		if entry.IsDir() {
			// Info() can hang on stale mounts; directories don't need it.
			dirs = append(dirs, FileEntry{Name: entry.Name(), IsDir: true})
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileEntry{Name: entry.Name(), Size: info.Size()})
	}
	byName := func(list []FileEntry) {
		sort.Slice(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}
	byName(dirs)
	byName(files)

	b.entries = b.entries[:0]
	if path != filepath.Dir(path) {
		b.entries = append(b.entries, FileEntry{Name: "..", IsDir: true})
	}
	b.entries = append(b.entries, dirs...)
	b.entries = append(b.entries, files...)
	b.dir = path
	b.selected = 0
	b.scroll = 0
	return nil
}

func (b *fileBrowser) current() (FileEntry, bool) {
	if b.selected < 0 || b.selected >= len(b.entries) {
		return FileEntry{}, false
	}
	return b.entries[b.selected], true
}

// activate enters the selected directory, or returns the selected file's
// path.
func (b *fileBrowser) activate() (string, bool) {
	entry, ok := b.current()
	if !ok {
		return "", false
	}
	if entry.IsDir {
		b.load(filepath.Join(b.dir, entry.Name))
		return "", false
	}
	return filepath.Join(b.dir, entry.Name), true
}

func (b *fileBrowser) parent() {
	b.load(filepath.Dir(b.dir))
}

// move shifts the selection by n rows and keeps it in view.
func (b *fileBrowser) move(n, visible int) {
	if len(b.entries) == 0 {
		return
	}
	b.selected = min(max(b.selected+n, 0), len(b.entries)-1)
	if b.selected < b.scroll {
		b.scroll = b.selected
	}
	if b.selected >= b.scroll+visible {
		b.scroll = b.selected - visible + 1
	}
}

// scrollBy scrolls the list without moving past either end.
func (b *fileBrowser) scrollBy(n, visible int) {
	b.scroll = min(max(b.scroll+n, 0), max(len(b.entries)-visible, 0))
	b.selected = min(max(b.selected, b.scroll), b.scroll+visible-1)
}

// formatFileSize formats a file size in human-readable format
func formatFileSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/float64(MB))
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// truncateLeft keeps the end of s, which is the informative part of a path.
func truncateLeft(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	w := 1
	i := len(runes)
	for i > 0 && w+runewidth.RuneWidth(runes[i-1]) <= width {
		i--
		w += runewidth.RuneWidth(runes[i])
	}
	return "…" + string(runes[i:])
}

const browserWidth = 56

// browserVisibleRows returns how many entries fit in the Open dialog.
func (e *Editor) browserVisibleRows() int {
	return max(min(e.textHeight()-4, 20)-7, 3)
}

func (e *Editor) showOpen() tea.Cmd {
	dir := ""
	if w := e.active(); !w.session.IsNew() {
		dir = filepath.Dir(w.session.Path())
	}
	e.browser = newFileBrowser(dir)
	e.mode = ModeOpen
	return nil
}

func (e *Editor) closeBrowser(message string) {
	e.browser = nil
	e.mode = ModeNormal
	if message != "" {
		e.statusbar.SetMessage(message, "info")
	}
}

// openSelected opens the selected file or enters the selected directory.
func (e *Editor) openSelected() tea.Cmd {
	path, ok := e.browser.activate()
	if !ok {
		return nil
	}
	if err := e.Open(path); err != nil {
		e.browser.err = "Open failed: " + describeError(err)
		return nil
	}
	e.closeBrowser("")
	return nil
}

func (e *Editor) handleBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b, visible := e.browser, e.browserVisibleRows()
	switch msg.String() {
	case "esc":
		e.closeBrowser("Cancelled")
	case "enter":
		return e, e.openSelected()
	case "backspace", "left":
		b.parent()
	case "up":
		b.move(-1, visible)
	case "down":
		b.move(1, visible)
	case "pgup":
		b.move(-visible, visible)
	case "pgdown":
		b.move(visible, visible)
	case "home":
		b.move(-len(b.entries), visible)
	case "end":
		b.move(len(b.entries), visible)
	}
	return e, nil
}

func (e *Editor) handleBrowserMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	b, visible := e.browser, e.browserVisibleRows()
	pos := e.browserDialog().GetPosition(e.width, e.textHeight(), 3, visible)
	inside, _, relY := pos.MouseInDialog(msg.X, msg.Y-1)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		b.scrollBy(-1, visible)
	case msg.Button == tea.MouseButtonWheelDown:
		b.scrollBy(1, visible)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if !inside {
			e.closeBrowser("Cancelled")
			return e, nil
		}
		row := pos.MouseInList(relY)
		if row < 0 {
			return e, nil
		}
		idx := b.scroll + row
		if idx >= len(b.entries) {
			return e, nil
		}
		// A second click on the selected row opens it.
		if idx == b.selected {
			return e, e.openSelected()
		}
		b.selected = idx
	}
	return e, nil
}

// browserDialog renders the Open dialog.
func (e *Editor) browserDialog() *DialogBuilder {
	b, visible := e.browser, e.browserVisibleRows()
	db := e.NewDialogBuilder(browserWidth)
	inner := db.InnerWidth()

	db.AddTitleBorder("Open")
	db.AddText(" " + truncateLeft(b.dir, inner-2))
	db.AddSeparator()
	for i := b.scroll; i < b.scroll+visible; i++ {
		if i >= len(b.entries) {
			db.AddEmptyLine()
			continue
		}
		entry := b.entries[i]
		name, size := entry.Name, ""
		if entry.IsDir {
			name += "/"
		} else {
			size = formatFileSize(entry.Size)
		}
		nameWidth := inner - 2 - runewidth.StringWidth(size) - 1
		name = runewidth.Truncate(name, nameWidth, "…")
		gap := max(inner-2-runewidth.StringWidth(name)-runewidth.StringWidth(size), 1)
		db.AddSelectableItem(" "+name+strings.Repeat(" ", gap)+size, i == b.selected)
	}
	db.AddSeparator()
	if b.err != "" {
		db.AddErrorText(" " + b.err)
	} else {
		db.AddText(fmt.Sprintf(" %d items", len(b.entries)))
	}
	db.AddCenteredText("Enter: open  Backspace: up  Esc: cancel")
	db.AddBottomBorder()
	return db
}
