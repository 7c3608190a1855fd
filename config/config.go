package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/cornish/jotpad/font"
)

const configDirName = "jotpad"

// Config holds the editor configuration
type Config struct {
	Editor      EditorConfig `toml:"editor"`
	Font        FontConfig   `toml:"font"`
	Print       PrintConfig  `toml:"print"`
	Log         LogConfig    `toml:"log"`
	Theme       ThemeConfig  `toml:"theme"`
	RecentFiles []string     `toml:"recent_files,omitempty"` // most recent first
}

// MaxRecentFiles is the maximum number of recent files to track
const MaxRecentFiles = 10

// EditorConfig holds editor-specific settings
type EditorConfig struct {
	LineWrap        bool  `toml:"line_wrap"`
	StatusBar       bool  `toml:"status_bar"`
	SyntaxHighlight bool  `toml:"syntax_highlight"`
	TrueColor       *bool `toml:"true_color"` // nil = auto
	AsciiMode       *bool `toml:"ascii_mode"` // nil = auto-detect
	UndoLimit       int   `toml:"undo_limit"`
	MaxWindows      int   `toml:"max_windows"` // 0 = unlimited
}

// FontConfig is the font applied to new windows.
type FontConfig struct {
	Family   string   `toml:"family"`
	Style    string   `toml:"style"`
	Size     int      `toml:"size"`
	Families []string `toml:"families,omitempty"` // offered by Set Font
}

// PrintConfig selects the print command. An empty command means lp or lpr.
type PrintConfig struct {
	Command string   `toml:"command,omitempty"`
	Args    []string `toml:"args,omitempty"`
}

// LogConfig sends the diagnostic log to a file.
type LogConfig struct {
	File  string `toml:"file,omitempty"`
	Level string `toml:"level,omitempty"`
}

// ThemeConfig references a theme by name; colors come from theme files.
type ThemeConfig struct {
	Name string `toml:"name"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			LineWrap:   false,
			StatusBar:  true,
			UndoLimit:  1000,
			MaxWindows: 20,
		},
		Font: FontConfig{
			Family: font.DefaultFamily,
			Style:  font.Plain.String(),
			Size:   font.DefaultSize,
		},
		Log:   LogConfig{Level: "info"},
		Theme: ThemeConfig{Name: "default"},
	}
}

// DefaultFont resolves the [font] section, falling back field by field.
func (c *Config) DefaultFont() font.Font {
	style, err := font.ParseStyle(c.Font.Style)
	if err != nil {
		style = font.Plain
	}
	size := c.Font.Size
	if size <= 0 {
		size = font.DefaultSize
	}
	return font.New(c.Font.Family, style, size)
}

// FontFamilies lists the families offered by the font dialog.
func (c *Config) FontFamilies() []string {
	if len(c.Font.Families) > 0 {
		return c.Font.Families
	}
	return font.DefaultFamilies
}

// AddRecentFile moves path to the front of the recent files list.
func (c *Config) AddRecentFile(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	list := make([]string, 0, MaxRecentFiles)
	list = append(list, path)
	for _, f := range c.RecentFiles {
		if f != path && len(list) < MaxRecentFiles {
			list = append(list, f)
		}
	}
	c.RecentFiles = list
}

// Clone returns a deep copy for background saving.
func (c *Config) Clone() *Config {
	cp := *c
	cp.RecentFiles = append([]string(nil), c.RecentFiles...)
	cp.Font.Families = append([]string(nil), c.Font.Families...)
	cp.Print.Args = append([]string(nil), c.Print.Args...)
	if c.Editor.TrueColor != nil {
		v := *c.Editor.TrueColor
		cp.Editor.TrueColor = &v
	}
	if c.Editor.AsciiMode != nil {
		v := *c.Editor.AsciiMode
		cp.Editor.AsciiMode = &v
	}
	return &cp
}

// Dir returns the jotpad configuration directory.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, configDirName), nil
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ThemesDir returns the path to the user themes directory
func ThemesDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "themes"), nil
}

// ConfigLoadError holds details about a config loading error
type ConfigLoadError struct {
	FilePath string
	Err      error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// Load reads the configuration from the default location.
// A missing file yields defaults; a malformed one yields defaults and a
// *ConfigLoadError.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the configuration at path.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return DefaultConfig(), &ConfigLoadError{FilePath: path, Err: err}
	}
	return cfg, nil
}

// Save writes the configuration to the default location.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the configuration to path, creating its directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteString("# jotpad configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// GetResolved loads and returns the complete theme
func (t *ThemeConfig) GetResolved() Theme {
	return LoadTheme(t.Name)
}
