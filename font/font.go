// Package font holds the text-area formatting state: family, style and size.
package font

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultFamily = "Lucida Console"
	DefaultSize   = 14
	MinSize       = 1
)

// DefaultFamilies is offered by the font dialog when none are configured.
var DefaultFamilies = []string{
	"Lucida Console",
	"Consolas",
	"Courier New",
	"DejaVu Sans Mono",
	"Monospace",
}

// Style is the weight and slant of the text.
type Style int

const (
	Plain Style = iota
	Bold
	Italic
	BoldItalic
)

// Styles lists every style in menu order.
var Styles = []Style{Plain, Bold, Italic, BoldItalic}

func (s Style) String() string {
	switch s {
	case Bold:
		return "Bold"
	case Italic:
		return "Italic"
	case BoldItalic:
		return "Bold Italic"
	default:
		return "Plain"
	}
}

// IsBold reports whether s includes bold.
func (s Style) IsBold() bool { return s == Bold || s == BoldItalic }

// IsItalic reports whether s includes italic.
func (s Style) IsItalic() bool { return s == Italic || s == BoldItalic }

// ParseStyle converts a style name, ignoring case, spaces and dashes.
func ParseStyle(name string) (Style, error) {
	n := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(name))
	switch n {
	case "", "plain", "regular", "normal":
		return Plain, nil
	case "bold":
		return Bold, nil
	case "italic":
		return Italic, nil
	case "bolditalic":
		return BoldItalic, nil
	}
	return Plain, fmt.Errorf("unknown font style %q", name)
}

// Font is a family, style and size. Size is never below MinSize.
type Font struct {
	Family string
	Style  Style
	Size   int
}

// Default returns Lucida Console, plain, 14.
func Default() Font {
	return Font{Family: DefaultFamily, Style: Plain, Size: DefaultSize}
}

// New returns a font with size clamped to MinSize and an empty family
// replaced by DefaultFamily.
func New(family string, style Style, size int) Font {
	if family == "" {
		family = DefaultFamily
	}
	return Font{Family: family, Style: style, Size: max(size, MinSize)}
}

// Increase returns f one point larger.
func (f Font) Increase() Font {
	f.Size++
	return f
}

// Decrease returns f one point smaller, stopping at MinSize.
func (f Font) Decrease() Font {
	f.Size = max(f.Size-1, MinSize)
	return f
}

// Reset returns the default font.
func (f Font) Reset() Font {
	return Default()
}

// WithSizeText parses text as a size. Text that is not a positive integer
// leaves the size unchanged.
func (f Font) WithSizeText(text string) Font {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < MinSize {
		return f
	}
	f.Size = n
	return f
}

// WithFamily returns f using family; an empty name is ignored.
func (f Font) WithFamily(family string) Font {
	if family != "" {
		f.Family = family
	}
	return f
}

// WithStyle returns f using style.
func (f Font) WithStyle(s Style) Font {
	f.Style = s
	return f
}

func (f Font) String() string {
	return fmt.Sprintf("%s %s %dpt", f.Family, f.Style, f.Size)
}
