package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cornish/jotpad/syntax"
)

// Theme is the format of theme files in ~/.config/jotpad/themes/.
type Theme struct {
	Name        string        `toml:"name"`
	Description string        `toml:"description"`
	Author      string        `toml:"author"`
	UI          UIColors      `toml:"ui"`
	Syntax      syntax.Colors `toml:"syntax"`
}

// UIColors holds UI color settings ("0"-"255" or "#rrggbb").
type UIColors struct {
	MenuBg          string `toml:"menu_bg"`
	MenuFg          string `toml:"menu_fg"`
	MenuHighlightBg string `toml:"menu_highlight_bg"`
	MenuHighlightFg string `toml:"menu_highlight_fg"`
	StatusBg        string `toml:"status_bg"`
	StatusFg        string `toml:"status_fg"`
	StatusAccent    string `toml:"status_accent"`
	SelectionBg     string `toml:"selection_bg"`
	SelectionFg     string `toml:"selection_fg"`
	ErrorFg         string `toml:"error_fg"`
	DisabledFg      string `toml:"disabled_fg"`
	DialogBg        string `toml:"dialog_bg"`
	DialogFg        string `toml:"dialog_fg"`
	DialogBorder    string `toml:"dialog_border"`
	DialogTitle     string `toml:"dialog_title"`
	DialogButton    string `toml:"dialog_button"`
	DialogButtonFg  string `toml:"dialog_button_fg"`
}

var builtinThemes = map[string]Theme{
	"default": {
		Name:        "default",
		Description: "Grey menus on the terminal's own colours",
		Author:      "jotpad",
		UI: UIColors{
			MenuBg:          "7",
			MenuFg:          "0",
			MenuHighlightBg: "4",
			MenuHighlightFg: "15",
			StatusBg:        "7",
			StatusFg:        "0",
			StatusAccent:    "4",
			SelectionBg:     "4",
			SelectionFg:     "15",
			ErrorFg:         "1",
			DisabledFg:      "8",
			DialogBg:        "7",
			DialogFg:        "0",
			DialogBorder:    "0",
			DialogTitle:     "4",
			DialogButton:    "4",
			DialogButtonFg:  "15",
		},
		Syntax: syntax.DefaultColors(),
	},
	"dark": {
		Name:        "dark",
		Description: "Muted greys for dark terminals",
		Author:      "jotpad",
		UI: UIColors{
			MenuBg:          "236",
			MenuFg:          "252",
			MenuHighlightBg: "24",
			MenuHighlightFg: "15",
			StatusBg:        "236",
			StatusFg:        "252",
			StatusAccent:    "43",
			SelectionBg:     "24",
			SelectionFg:     "15",
			ErrorFg:         "203",
			DisabledFg:      "240",
			DialogBg:        "238",
			DialogFg:        "252",
			DialogBorder:    "245",
			DialogTitle:     "43",
			DialogButton:    "24",
			DialogButtonFg:  "15",
		},
		Syntax: syntax.Colors{
			Keyword:  "176",
			String:   "114",
			Comment:  "245",
			Number:   "215",
			Operator: "80",
			Function: "75",
			Type:     "222",
			Error:    "203",
		},
	},
	"light": {
		Name:        "light",
		Description: "High-contrast theme for bright terminals",
		Author:      "jotpad",
		UI: UIColors{
			MenuBg:          "254",
			MenuFg:          "235",
			MenuHighlightBg: "32",
			MenuHighlightFg: "15",
			StatusBg:        "254",
			StatusFg:        "235",
			StatusAccent:    "26",
			SelectionBg:     "153",
			SelectionFg:     "0",
			ErrorFg:         "160",
			DisabledFg:      "249",
			DialogBg:        "255",
			DialogFg:        "235",
			DialogBorder:    "240",
			DialogTitle:     "26",
			DialogButton:    "32",
			DialogButtonFg:  "15",
		},
		Syntax: syntax.Colors{
			Keyword:  "26",
			String:   "28",
			Comment:  "245",
			Number:   "166",
			Operator: "90",
			Function: "26",
			Type:     "30",
			Error:    "160",
		},
	},
}

// DefaultTheme returns the built-in default theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}

// LoadTheme resolves name against the user themes directory, then the
// built-in themes, then the default theme.
func LoadTheme(name string) Theme {
	if name == "" {
		return DefaultTheme()
	}
	if dir, err := ThemesDir(); err == nil {
		if theme, err := loadThemeFile(filepath.Join(dir, name+".toml")); err == nil {
			return theme
		}
	}
	if builtin, ok := builtinThemes[name]; ok {
		return builtin
	}
	return DefaultTheme()
}

// loadThemeFile decodes a theme over the default one, so missing colors keep
// their default values.
func loadThemeFile(path string) (Theme, error) {
	theme := DefaultTheme()
	theme.Name = strings.TrimSuffix(filepath.Base(path), ".toml")
	if _, err := toml.DecodeFile(path, &theme); err != nil {
		return Theme{}, err
	}
	return theme, nil
}

// ThemeNames returns the built-in theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListUserThemes returns the names of *.toml files in the themes directory.
func ListUserThemes() []string {
	dir, err := ThemesDir()
	if err != nil {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var themes []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".toml" {
			themes = append(themes, strings.TrimSuffix(e.Name(), ".toml"))
		}
	}
	return themes
}
