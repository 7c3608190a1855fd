package document

import "unicode"

// Edit is a reversible change to a buffer: Removed was replaced by Inserted
// starting at Offset.
type Edit struct {
	Offset   int
	Removed  string
	Inserted string
}

// Insertion returns an edit inserting text at offset.
func Insertion(offset int, text string) Edit {
	return Edit{Offset: offset, Inserted: text}
}

// Deletion returns an edit removing text found at offset.
func Deletion(offset int, text string) Edit {
	return Edit{Offset: offset, Removed: text}
}

// Inverse returns the edit that undoes e.
func (e Edit) Inverse() Edit {
	return Edit{Offset: e.Offset, Removed: e.Inserted, Inserted: e.Removed}
}

// IsEmpty reports whether the edit changes nothing.
func (e Edit) IsEmpty() bool {
	return e.Removed == e.Inserted
}

// End returns the offset just past the inserted text.
func (e Edit) End() int {
	return e.Offset + len(e.Inserted)
}

// ApplyTo performs the edit on b.
func (e Edit) ApplyTo(b *Buffer) {
	b.Splice(e.Offset, len(e.Removed), e.Inserted)
}

// merge folds next into e when next continues the same run of typing or
// deleting. Whitespace starts a new run.
func (e Edit) merge(next Edit) (Edit, bool) {
	switch {
	case e.Removed == "" && next.Removed == "":
		if e.Inserted == "" || next.Offset != e.End() || breaksRun(next.Inserted) || breaksRun(e.Inserted[len(e.Inserted)-1:]) {
			return e, false
		}
		e.Inserted += next.Inserted
		return e, true

	case e.Inserted == "" && next.Inserted == "":
		switch {
		case next.Offset+len(next.Removed) == e.Offset: // backspace
			e.Offset = next.Offset
			e.Removed = next.Removed + e.Removed
			return e, true
		case next.Offset == e.Offset: // delete forward
			e.Removed += next.Removed
			return e, true
		}
	}
	return e, false
}

func breaksRun(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
