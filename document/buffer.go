package document

import (
	"strings"
	"unicode/utf8"
)

// Buffer is a gap buffer holding the text of one document.
// Offsets are byte offsets into the logical (gap-free) text.
type Buffer struct {
	data     []byte
	gapStart int
	gapEnd   int
}

const minGap = 1024

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{data: make([]byte, minGap), gapEnd: minGap}
}

// NewBufferFromString returns a buffer holding s with the gap at the end.
func NewBufferFromString(s string) *Buffer {
	b := &Buffer{data: make([]byte, len(s)+minGap)}
	copy(b.data, s)
	b.gapStart = len(s)
	b.gapEnd = len(b.data)
	return b
}

// Len returns the text length in bytes.
func (b *Buffer) Len() int {
	return len(b.data) - (b.gapEnd - b.gapStart)
}

func (b *Buffer) grow(n int) {
	if b.gapEnd-b.gapStart >= n {
		return
	}
	extra := max(minGap, 2*(n-(b.gapEnd-b.gapStart)))
	data := make([]byte, len(b.data)+extra)
	copy(data, b.data[:b.gapStart])
	tail := len(b.data) - b.gapEnd
	copy(data[len(data)-tail:], b.data[b.gapEnd:])
	b.gapEnd = len(data) - tail
	b.data = data
}

// moveGap places the gap at pos, clamped to [0, Len()].
func (b *Buffer) moveGap(pos int) {
	pos = b.clamp(pos)
	switch {
	case pos < b.gapStart:
		n := b.gapStart - pos
		copy(b.data[b.gapEnd-n:b.gapEnd], b.data[pos:b.gapStart])
		b.gapStart -= n
		b.gapEnd -= n
	case pos > b.gapStart:
		n := pos - b.gapStart
		copy(b.data[b.gapStart:b.gapStart+n], b.data[b.gapEnd:b.gapEnd+n])
		b.gapStart += n
		b.gapEnd += n
	}
}

func (b *Buffer) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if n := b.Len(); pos > n {
		return n
	}
	return pos
}

// physical maps a logical offset to an index into data.
func (b *Buffer) physical(pos int) int {
	if pos < b.gapStart {
		return pos
	}
	return pos + (b.gapEnd - b.gapStart)
}

// Splice removes n bytes at offset and inserts text in their place.
// It returns the removed text. Offset and n are clamped to the buffer.
func (b *Buffer) Splice(offset, n int, text string) string {
	offset = b.clamp(offset)
	if n < 0 {
		n = 0
	}
	if offset+n > b.Len() {
		n = b.Len() - offset
	}
	b.moveGap(offset)
	removed := string(b.data[b.gapEnd : b.gapEnd+n])
	b.gapEnd += n
	if text != "" {
		b.grow(len(text))
		copy(b.data[b.gapStart:], text)
		b.gapStart += len(text)
	}
	return removed
}

// Insert inserts text at offset.
func (b *Buffer) Insert(offset int, text string) {
	b.Splice(offset, 0, text)
}

// Delete removes n bytes at offset and returns them.
func (b *Buffer) Delete(offset, n int) string {
	return b.Splice(offset, n, "")
}

// String returns the whole text.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow(b.Len())
	sb.Write(b.data[:b.gapStart])
	sb.Write(b.data[b.gapEnd:])
	return sb.String()
}

// Substring returns the text in [start, end).
func (b *Buffer) Substring(start, end int) string {
	start, end = b.clamp(start), b.clamp(end)
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	if start < b.gapStart {
		sb.Write(b.data[start:min(end, b.gapStart)])
	}
	if end > b.gapStart {
		sb.Write(b.data[b.physical(max(start, b.gapStart)):b.physical(end-1)+1])
	}
	return sb.String()
}

// ByteAt returns the byte at pos, or 0 when out of range.
func (b *Buffer) ByteAt(pos int) byte {
	if pos < 0 || pos >= b.Len() {
		return 0
	}
	return b.data[b.physical(pos)]
}

// RuneAt decodes the rune starting at pos.
func (b *Buffer) RuneAt(pos int) (rune, int) {
	if pos < 0 || pos >= b.Len() {
		return 0, 0
	}
	if pos < b.gapStart {
		return utf8.DecodeRune(b.data[pos:b.gapStart])
	}
	return utf8.DecodeRune(b.data[b.physical(pos):])
}

// RuneBefore decodes the rune ending at pos.
func (b *Buffer) RuneBefore(pos int) (rune, int) {
	pos = b.clamp(pos)
	if pos == 0 {
		return 0, 0
	}
	start := pos - 1
	for start > 0 && pos-start < utf8.UTFMax && !utf8.RuneStart(b.ByteAt(start)) {
		start--
	}
	return utf8.DecodeRuneInString(b.Substring(start, pos))
}

// IsBlank reports whether the text is empty or whitespace only.
func (b *Buffer) IsBlank() bool {
	return strings.TrimSpace(b.String()) == ""
}

// Lines splits the text on newlines. An empty buffer has one empty line.
func (b *Buffer) Lines() []string {
	return strings.Split(b.String(), "\n")
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	return 1 + b.countNewlines(b.Len())
}

func (b *Buffer) countNewlines(end int) int {
	end = b.clamp(end)
	n := 0
	for i := 0; i < min(end, b.gapStart); i++ {
		if b.data[i] == '\n' {
			n++
		}
	}
	for i := b.gapStart; i < end; i++ {
		if b.data[b.physical(i)] == '\n' {
			n++
		}
	}
	return n
}

// LineStart returns the offset of the first byte of line (0-based).
func (b *Buffer) LineStart(line int) int {
	if line <= 0 {
		return 0
	}
	seen := 0
	for i := 0; i < b.Len(); i++ {
		if b.data[b.physical(i)] == '\n' {
			seen++
			if seen == line {
				return i + 1
			}
		}
	}
	return b.Len()
}

// LineEnd returns the offset of the newline ending line, or Len() for the last line.
func (b *Buffer) LineEnd(line int) int {
	for i := b.LineStart(line); i < b.Len(); i++ {
		if b.data[b.physical(i)] == '\n' {
			return i
		}
	}
	return b.Len()
}

// LineCol converts an offset into a 0-based line and byte column.
func (b *Buffer) LineCol(pos int) (line, col int) {
	pos = b.clamp(pos)
	line = b.countNewlines(pos)
	return line, pos - b.LineStart(line)
}

// Offset converts a 0-based line and byte column into an offset, clamping
// the column to the end of the line.
func (b *Buffer) Offset(line, col int) int {
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	start, end := b.LineStart(line), b.LineEnd(line)
	return min(start+col, end)
}
