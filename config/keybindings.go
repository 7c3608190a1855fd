package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// KeyBinding holds the keys bound to one action.
type KeyBinding struct {
	Primary   string `toml:"primary"`
	Alternate string `toml:"alternate,omitempty"`
}

// Keybindings maps action names to their keys. It is stored as a TOML table
// per action in keybindings.toml.
type Keybindings map[string]KeyBinding

// Action names, in menu order.
const (
	ActNew          = "new"
	ActOpen         = "open"
	ActSave         = "save"
	ActSaveAs       = "save_as"
	ActPrint        = "print"
	ActClose        = "close"
	ActQuit         = "quit"
	ActUndo         = "undo"
	ActRedo         = "redo"
	ActCut          = "cut"
	ActCopy         = "copy"
	ActPaste        = "paste"
	ActDelete       = "delete"
	ActSelectAll    = "select_all"
	ActLineWrap     = "line_wrap"
	ActSetFont      = "set_font"
	ActFontIncrease = "font_increase"
	ActFontDecrease = "font_decrease"
	ActFontReset    = "font_reset"
	ActStatusBar    = "status_bar"
	ActNextWindow   = "next_window"
	ActPrevWindow   = "prev_window"
	ActHelp         = "help"
)

// ActionNames gives each action its display label.
var ActionNames = map[string]string{
	ActNew:          "New",
	ActOpen:         "Open",
	ActSave:         "Save",
	ActSaveAs:       "Save As",
	ActPrint:        "Print",
	ActClose:        "Close",
	ActQuit:         "Quit",
	ActUndo:         "Undo",
	ActRedo:         "Redo",
	ActCut:          "Cut",
	ActCopy:         "Copy",
	ActPaste:        "Paste",
	ActDelete:       "Delete",
	ActSelectAll:    "Select All",
	ActLineWrap:     "Line Wrap",
	ActSetFont:      "Set Font",
	ActFontIncrease: "Increase Font Size",
	ActFontDecrease: "Decrease Font Size",
	ActFontReset:    "Original Font Size",
	ActStatusBar:    "Status Bar",
	ActNextWindow:   "Next Window",
	ActPrevWindow:   "Previous Window",
	ActHelp:         "Help",
}

// AllActions returns every action name in menu order.
func AllActions() []string {
	return []string{
		ActNew, ActOpen, ActSave, ActSaveAs, ActPrint, ActClose, ActQuit,
		ActUndo, ActRedo, ActCut, ActCopy, ActPaste, ActDelete, ActSelectAll,
		ActLineWrap, ActSetFont, ActFontIncrease, ActFontDecrease, ActFontReset,
		ActStatusBar, ActNextWindow, ActPrevWindow, ActHelp,
	}
}

// DefaultKeybindings returns the built-in bindings.
func DefaultKeybindings() Keybindings {
	return Keybindings{
		ActNew:          {Primary: "ctrl+n"},
		ActOpen:         {Primary: "ctrl+o"},
		ActSave:         {Primary: "ctrl+s"},
		ActSaveAs:       {Primary: "f12"},
		ActPrint:        {Primary: "ctrl+p"},
		ActClose:        {Primary: "ctrl+w"},
		ActQuit:         {Primary: "ctrl+q"},
		ActUndo:         {Primary: "ctrl+z"},
		ActRedo:         {Primary: "ctrl+y"},
		ActCut:          {Primary: "ctrl+x"},
		ActCopy:         {Primary: "ctrl+c"},
		ActPaste:        {Primary: "ctrl+v"},
		ActDelete:       {Primary: "delete"},
		ActSelectAll:    {Primary: "ctrl+a"},
		ActLineWrap:     {Primary: "alt+z"},
		ActSetFont:      {},
		ActFontIncrease: {Primary: "ctrl+up", Alternate: "alt+="},
		ActFontDecrease: {Primary: "ctrl+down", Alternate: "alt+-"},
		ActFontReset:    {Primary: "alt+0"},
		ActStatusBar:    {},
		ActNextWindow:   {Primary: "alt+>", Alternate: "ctrl+pgdown"},
		ActPrevWindow:   {Primary: "alt+<", Alternate: "ctrl+pgup"},
		ActHelp:         {Primary: "f1"},
	}
}

// KeybindingsPath returns the path to keybindings.toml.
func KeybindingsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "keybindings.toml"), nil
}

// LoadKeybindings reads keybindings.toml over the defaults. Unknown actions
// in the file are ignored.
func LoadKeybindings() (Keybindings, error) {
	path, err := KeybindingsPath()
	if err != nil {
		return DefaultKeybindings(), nil
	}
	return LoadKeybindingsFile(path)
}

// LoadKeybindingsFile is LoadKeybindings for an explicit path.
func LoadKeybindingsFile(path string) (Keybindings, error) {
	kb := DefaultKeybindings()
	var file Keybindings
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return kb, nil
		}
		return kb, &ConfigLoadError{FilePath: path, Err: err}
	}
	for action, b := range file {
		if _, ok := kb[action]; ok {
			kb[action] = b
		}
	}
	return kb, nil
}

// SaveFile writes the bindings to path.
func (kb Keybindings) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	f.WriteString("# jotpad keybindings\n")
	f.WriteString("# [action] primary = \"ctrl+s\", alternate = \"f2\" (optional)\n\n")
	return toml.NewEncoder(f).Encode(kb)
}

// ActionFor returns the action bound to key, or "" if none.
func (kb Keybindings) ActionFor(key string) string {
	for _, action := range AllActions() {
		if kb[action].Matches(key) {
			return action
		}
	}
	return ""
}

// Label returns the display form of an action's primary key.
func (kb Keybindings) Label(action string) string {
	return FormatKeyForDisplay(kb[action].Primary)
}

// Matches reports whether key is this binding's primary or alternate key.
func (b KeyBinding) Matches(key string) bool {
	return (b.Primary != "" && strings.EqualFold(b.Primary, key)) ||
		(b.Alternate != "" && strings.EqualFold(b.Alternate, key))
}

// DisplayString returns a human-readable string for the binding
func (b KeyBinding) DisplayString() string {
	switch {
	case b.Primary == "" && b.Alternate == "":
		return "(none)"
	case b.Alternate == "":
		return FormatKeyForDisplay(b.Primary)
	}
	return FormatKeyForDisplay(b.Primary) + " / " + FormatKeyForDisplay(b.Alternate)
}

var keyWords = map[string]string{
	"ctrl": "Ctrl", "alt": "Alt", "shift": "Shift",
	"up": "Up", "down": "Down", "left": "Left", "right": "Right",
	"home": "Home", "end": "End", "pgup": "PgUp", "pgdown": "PgDn",
	"tab": "Tab", "delete": "Del", "insert": "Ins",
	"enter": "Enter", "esc": "Esc", "space": "Space",
}

// FormatKeyForDisplay turns "ctrl+shift+s" into "Ctrl+Shift+S".
func FormatKeyForDisplay(key string) string {
	if key == "" {
		return ""
	}
	parts := strings.Split(key, "+")
	for i, p := range parts {
		switch w, ok := keyWords[strings.ToLower(p)]; {
		case ok:
			parts[i] = w
		case len(p) > 1 && (p[0] == 'f' || p[0] == 'F'):
			parts[i] = "F" + p[1:]
		default:
			parts[i] = strings.ToUpper(p)
		}
	}
	return strings.Join(parts, "+")
}

// FindConflicts returns, for each key bound more than once, the actions
// sharing it.
func (kb Keybindings) FindConflicts() map[string][]string {
	byKey := make(map[string][]string)
	for _, action := range AllActions() {
		b := kb[action]
		for _, k := range []string{b.Primary, b.Alternate} {
			if k != "" {
				k = strings.ToLower(k)
				byKey[k] = append(byKey[k], action)
			}
		}
	}
	for k, actions := range byKey {
		if len(actions) < 2 {
			delete(byKey, k)
			continue
		}
		sort.Strings(actions)
	}
	return byKey
}
