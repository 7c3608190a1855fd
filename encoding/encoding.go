// Package encoding detects the character set of file contents and converts
// between it and the UTF-8 text held in a document buffer.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnsupported is returned when text is in a charset jotpad cannot convert.
var ErrUnsupported = errors.New("unsupported character set")

// Charset describes one character set a file may be stored in.
type Charset struct {
	ID          string
	Name        string
	Description string
	Aliases     []string

	codec encoding.Encoding // nil for plain UTF-8
	bom   []byte
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Charsets lists every charset that can be read and written.
var Charsets = []*Charset{
	{ID: "utf-8", Name: "UTF-8", Description: "Unicode", Aliases: []string{"utf8"}},
	{ID: "utf-8-bom", Name: "UTF-8 BOM", Description: "Unicode with byte order mark", bom: bomUTF8},
	{ID: "utf-16-le", Name: "UTF-16 LE", Description: "Unicode, 16-bit little endian", Aliases: []string{"utf-16le"},
		codec: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), bom: bomUTF16LE},
	{ID: "utf-16-be", Name: "UTF-16 BE", Description: "Unicode, 16-bit big endian", Aliases: []string{"utf-16be"},
		codec: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), bom: bomUTF16BE},
	{ID: "iso-8859-1", Name: "ISO-8859-1", Description: "Western European", Aliases: []string{"latin1", "latin-1"},
		codec: charmap.ISO8859_1},
	{ID: "iso-8859-15", Name: "ISO-8859-15", Description: "Western European with euro", Aliases: []string{"latin9"},
		codec: charmap.ISO8859_15},
	{ID: "windows-1252", Name: "Windows-1252", Description: "Western European (Windows)", Aliases: []string{"cp1252"},
		codec: charmap.Windows1252},
	{ID: "shift-jis", Name: "Shift-JIS", Description: "Japanese", Aliases: []string{"shift_jis", "sjis"},
		codec: japanese.ShiftJIS},
	{ID: "euc-jp", Name: "EUC-JP", Description: "Japanese (Unix)", codec: japanese.EUCJP},
	{ID: "gbk", Name: "GBK", Description: "Simplified Chinese", Aliases: []string{"gb2312", "gb-2312"},
		codec: simplifiedchinese.GBK},
	{ID: "gb18030", Name: "GB18030", Description: "Simplified Chinese (extended)", codec: simplifiedchinese.GB18030},
	{ID: "euc-kr", Name: "EUC-KR", Description: "Korean", codec: korean.EUCKR},
}

// UTF8 is the charset used for new documents.
var UTF8 = Charsets[0]

// Lookup finds a charset by ID, display name or alias, ignoring case.
func Lookup(name string) *Charset {
	name = strings.ToLower(name)
	for _, cs := range Charsets {
		if cs.ID == name || strings.ToLower(cs.Name) == name {
			return cs
		}
		for _, a := range cs.Aliases {
			if a == name {
				return cs
			}
		}
	}
	return nil
}

func (c *Charset) String() string { return c.Name }

// Detection is the outcome of Detect.
type Detection struct {
	Charset    *Charset // nil when the detected charset is not supported
	Reported   string   // charset name as detected
	Confidence int      // 0-100
	BOM        bool
}

// Detect guesses the charset of data: byte order marks first, then UTF-8
// validity, then statistical detection.
func Detect(data []byte) Detection {
	for _, id := range []string{"utf-8-bom", "utf-16-be", "utf-16-le"} {
		cs := Lookup(id)
		if bytes.HasPrefix(data, cs.bom) {
			return Detection{Charset: cs, Reported: cs.Name, Confidence: 100, BOM: true}
		}
	}
	if utf8.Valid(data) {
		return Detection{Charset: UTF8, Reported: UTF8.Name, Confidence: 100}
	}

	best, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || best == nil {
		latin1 := Lookup("iso-8859-1")
		return Detection{Charset: latin1, Reported: latin1.Name, Confidence: 50}
	}
	return Detection{Charset: Lookup(best.Charset), Reported: best.Charset, Confidence: best.Confidence}
}

// Decode converts data in charset c to UTF-8 text, dropping any byte order mark.
func (c *Charset) Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, c.bom)
	if c.codec == nil {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s: invalid byte sequence", c.Name)
		}
		return string(data), nil
	}
	out, err := c.codec.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.Name, err)
	}
	return string(out), nil
}

// Encode converts UTF-8 text to charset c, prefixing its byte order mark.
func (c *Charset) Encode(text string) ([]byte, error) {
	var out []byte
	if c.codec == nil {
		out = []byte(text)
	} else {
		enc, err := c.codec.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		out = enc
	}
	if len(c.bom) > 0 {
		out = append(append([]byte(nil), c.bom...), out...)
	}
	return out, nil
}

// DecodeDetected detects the charset of data and decodes it.
func DecodeDetected(data []byte) (string, *Charset, error) {
	d := Detect(data)
	if d.Charset == nil {
		return "", nil, unsupported(d.Reported)
	}
	text, err := d.Charset.Decode(data)
	if err != nil {
		return "", nil, err
	}
	return text, d.Charset, nil
}

func unsupported(name string) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, name)
}
