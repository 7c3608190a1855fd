// Package syntax colours lines of the text area by file type using chroma
// lexers. Highlighting is off unless enabled and a lexer matches the file
// name; plain .txt files never match.
package syntax

import (
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Colors maps token classes to theme colours ("0"-"255" or "#rrggbb").
// Empty entries are left uncoloured.
type Colors struct {
	Keyword  string `toml:"keyword"`
	String   string `toml:"string"`
	Comment  string `toml:"comment"`
	Number   string `toml:"number"`
	Operator string `toml:"operator"`
	Function string `toml:"function"`
	Type     string `toml:"type"`
	Error    string `toml:"error"`
}

// DefaultColors is the 16-colour palette used by the default theme.
func DefaultColors() Colors {
	return Colors{
		Keyword:  "14",
		String:   "10",
		Comment:  "8",
		Number:   "11",
		Operator: "13",
		Function: "12",
		Type:     "11",
		Error:    "9",
	}
}

// Span colours runes [Start, End) of a line.
type Span struct {
	Start int
	End   int
	Color string
}

// Highlighter tokenises single lines for the file currently shown.
type Highlighter struct {
	lexer   chroma.Lexer
	enabled bool
	colors  Colors
}

// New returns a disabled highlighter for filename.
func New(filename string, colors Colors) *Highlighter {
	h := &Highlighter{colors: colors}
	h.SetFile(filename)
	return h
}

// SetFile picks the lexer for filename. An empty name clears it.
func (h *Highlighter) SetFile(filename string) {
	h.lexer = nil
	if filename == "" {
		return
	}
	if l := lexers.Match(filename); l != nil {
		h.lexer = chroma.Coalesce(l)
	}
}

func (h *Highlighter) SetEnabled(on bool) { h.enabled = on }
func (h *Highlighter) Enabled() bool      { return h.enabled }
func (h *Highlighter) SetColors(c Colors) { h.colors = c }

// Active reports whether lines will be coloured.
func (h *Highlighter) Active() bool { return h.enabled && h.lexer != nil }

// Language names the matched lexer, or "" for plain text.
func (h *Highlighter) Language() string {
	if h.lexer == nil {
		return ""
	}
	return h.lexer.Config().Name
}

// Line returns the coloured spans of line, or nil when inactive.
func (h *Highlighter) Line(line string) []Span {
	if !h.Active() || line == "" {
		return nil
	}
	it, err := h.lexer.Tokenise(nil, line)
	if err != nil {
		return nil
	}
	var spans []Span
	col := 0
	for _, tok := range it.Tokens() {
		n := utf8.RuneCountInString(tok.Value)
		if n == 0 {
			continue
		}
		if c := h.colorFor(tok.Type); c != "" {
			// Adjacent tokens of the same colour share one span.
			if k := len(spans) - 1; k >= 0 && spans[k].End == col && spans[k].Color == c {
				spans[k].End += n
			} else {
				spans = append(spans, Span{Start: col, End: col + n, Color: c})
			}
		}
		col += n
	}
	return spans
}

// ColorAt returns the colour covering rune column col, if any.
func ColorAt(spans []Span, col int) string {
	for _, s := range spans {
		if col < s.Start {
			break
		}
		if col < s.End {
			return s.Color
		}
	}
	return ""
}

func (h *Highlighter) colorFor(t chroma.TokenType) string {
	switch {
	case t.InCategory(chroma.Keyword):
		return h.colors.Keyword
	case t.InCategory(chroma.Comment):
		return h.colors.Comment
	case t.InSubCategory(chroma.LiteralString):
		return h.colors.String
	case t.InSubCategory(chroma.LiteralNumber), t == chroma.NameConstant:
		return h.colors.Number
	case t.InCategory(chroma.Operator):
		return h.colors.Operator
	case t == chroma.NameFunction, t == chroma.NameFunctionMagic:
		return h.colors.Function
	case t == chroma.NameClass, t == chroma.NameBuiltin, t == chroma.NameBuiltinPseudo,
		t == chroma.GenericHeading, t == chroma.GenericSubheading:
		return h.colors.Type
	case t == chroma.Error, t == chroma.GenericError:
		return h.colors.Error
	}
	return ""
}
