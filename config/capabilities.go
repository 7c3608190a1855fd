package config

import (
	"os"
	"strings"
	"sync"
)

// ColorMode represents the terminal color capability
type ColorMode int

const (
	Color16 ColorMode = iota
	Color256
	ColorTrueColor
)

func (c ColorMode) String() string {
	switch c {
	case Color16:
		return "16 colors"
	case Color256:
		return "256 colors"
	case ColorTrueColor:
		return "TrueColor (24-bit)"
	}
	return "unknown"
}

// TermCapabilities describes what the terminal can draw.
type TermCapabilities struct {
	UTF8Support bool
	ColorMode   ColorMode
}

// DetectCapabilities inspects the locale and terminal variables read through
// getenv (os.Getenv when nil).
func DetectCapabilities(getenv func(string) string) *TermCapabilities {
	if getenv == nil {
		getenv = os.Getenv
	}
	caps := &TermCapabilities{ColorMode: Color16}

	for _, v := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if val := strings.ToUpper(getenv(v)); val != "" {
			caps.UTF8Support = strings.Contains(val, "UTF-8") || strings.Contains(val, "UTF8")
			break
		}
	}

	colorterm := strings.ToLower(getenv("COLORTERM"))
	term := strings.ToLower(getenv("TERM"))
	switch {
	case colorterm == "truecolor" || colorterm == "24bit",
		strings.Contains(term, "truecolor"), strings.Contains(term, "24bit"),
		strings.Contains(term, "direct"):
		caps.ColorMode = ColorTrueColor
	case strings.Contains(term, "256color"), strings.Contains(term, "256-color"):
		caps.ColorMode = Color256
	}
	return caps
}

// ShouldUseASCII applies a user override to the detected UTF-8 support.
func (c *TermCapabilities) ShouldUseASCII(override *bool) bool {
	if override != nil {
		return *override
	}
	return !c.UTF8Support
}

// ShouldUseTrueColor applies a user override to the detected color mode.
func (c *TermCapabilities) ShouldUseTrueColor(override *bool) bool {
	if override != nil {
		return *override
	}
	return c.ColorMode == ColorTrueColor
}

var (
	capsOnce sync.Once
	caps     *TermCapabilities
)

// GetCapabilities detects the capabilities of the running terminal once.
func GetCapabilities() *TermCapabilities {
	capsOnce.Do(func() { caps = DetectCapabilities(nil) })
	return caps
}
