package document

// DefaultHistoryLimit bounds the number of edits a history keeps.
const DefaultHistoryLimit = 1000

// History is a linear list of edits with a cursor. Entries before the
// cursor can be undone, entries at or after it can be redone.
//
// saved is the cursor position matching the last persisted text, or -1
// when that state has been discarded and can no longer be reached.
type History struct {
	entries []Edit
	index   int
	saved   int
	limit   int
	sealed  bool
}

// NewHistory returns an empty history holding at most limit edits.
// A limit of zero or less selects DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Reset empties the history and marks the empty state as saved.
func (h *History) Reset() {
	h.entries = nil
	h.index = 0
	h.saved = 0
	h.sealed = false
}

// Push drops any redoable entries, appends e and advances the cursor.
func (h *History) Push(e Edit) {
	h.truncate()
	h.entries = append(h.entries, e)
	h.index++
	h.sealed = false
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = h.entries[over:]
		h.index -= over
		if h.saved >= 0 {
			h.saved -= over
			if h.saved < 0 {
				h.saved = -1
			}
		}
	}
}

// PushMerging behaves like Push but folds e into the previous entry when
// both belong to the same typing run. The entry at the saved position is
// never extended.
func (h *History) PushMerging(e Edit) {
	if !h.sealed && h.index > 0 && h.index == len(h.entries) && h.index != h.saved {
		if merged, ok := h.entries[h.index-1].merge(e); ok {
			h.entries[h.index-1] = merged
			return
		}
	}
	h.Push(e)
}

// Seal stops the next PushMerging from extending the last entry.
func (h *History) Seal() {
	h.sealed = true
}

func (h *History) truncate() {
	if h.index == len(h.entries) {
		return
	}
	h.entries = h.entries[:h.index]
	if h.saved > h.index {
		h.saved = -1
	}
}

// Undo moves the cursor back and returns the edit to revert.
func (h *History) Undo() (Edit, bool) {
	if h.index == 0 {
		return Edit{}, false
	}
	h.index--
	h.sealed = true
	return h.entries[h.index], true
}

// Redo moves the cursor forward and returns the edit to reapply.
func (h *History) Redo() (Edit, bool) {
	if h.index == len(h.entries) {
		return Edit{}, false
	}
	e := h.entries[h.index]
	h.index++
	h.sealed = true
	return e, true
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool { return h.index < len(h.entries) }

// Len returns the number of recorded edits.
func (h *History) Len() int { return len(h.entries) }

// Index returns the cursor position.
func (h *History) Index() int { return h.index }

// Entries returns a copy of the recorded edits.
func (h *History) Entries() []Edit {
	return append([]Edit(nil), h.entries...)
}

// MarkSaved records the current cursor as the persisted state.
func (h *History) MarkSaved() {
	h.saved = h.index
	h.sealed = true
}

// AtSaved reports whether the cursor sits at the persisted state.
func (h *History) AtSaved() bool {
	return h.index == h.saved
}
