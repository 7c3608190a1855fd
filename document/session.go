// Package document holds the state of one open document: its text, the
// file it belongs to, whether it has unsaved changes and its undo history.
//
// A Session is not safe for concurrent use; the editor drives every
// transition from its update loop.
package document

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/cornish/jotpad/encoding"
)

// UntitledName is shown for documents that have never been saved.
const UntitledName = "Untitled"

// HistoryListener is told whether undo and redo are available after every
// change to the history.
type HistoryListener func(canUndo, canRedo bool)

// CloseChoice is the answer to the save-before-close question.
type CloseChoice int

const (
	ChoiceCancel CloseChoice = iota
	ChoiceSave
	ChoiceDiscard
)

// CloseDecision is the outcome of a close request.
type CloseDecision int

const (
	Proceed CloseDecision = iota
	Cancelled
)

func (d CloseDecision) String() string {
	if d == Proceed {
		return "proceed"
	}
	return "cancelled"
}

// Session is one open document.
type Session struct {
	id       string
	path     string
	dirty    bool
	buf      *Buffer
	history  *History
	charset  *encoding.Charset
	files    FileIO
	listener HistoryListener
	log      *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithFileIO replaces the filesystem used by Load and Save.
func WithFileIO(f FileIO) Option {
	return func(s *Session) { s.files = f }
}

// WithLogger sets the logger. Session attributes are added to it.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithHistoryLimit bounds the undo history.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.history = NewHistory(n) }
}

// WithHistoryListener registers the undo/redo availability listener.
func WithHistoryListener(fn HistoryListener) Option {
	return func(s *Session) { s.listener = fn }
}

// New returns a clean, empty, never-saved session.
func New(opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		buf:     NewBuffer(),
		history: NewHistory(DefaultHistoryLimit),
		charset: encoding.UTF8,
		files:   OSFileIO{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.log = s.log.With("session_id", s.id)
	return s
}

// SetHistoryListener replaces the undo/redo availability listener.
func (s *Session) SetHistoryListener(fn HistoryListener) {
	s.listener = fn
	s.notify()
}

func (s *Session) notify() {
	if s.listener != nil {
		s.listener(s.history.CanUndo(), s.history.CanRedo())
	}
}

// Load replaces the content with the file at path. On failure the session
// is left as it was and a *FileError is returned.
func (s *Session) Load(path string) error {
	text, cs, err := s.files.ReadFile(path)
	if err != nil {
		err = fileError("open", path, err)
		s.log.Warn("load failed", "file", path, "error", err)
		return err
	}
	s.buf = NewBufferFromString(text)
	s.charset = cs
	s.path = path
	s.history.Reset()
	s.dirty = false
	s.log.Info("loaded", "file", path, "bytes", len(text), "charset", cs.ID)
	s.notify()
	return nil
}

// Apply performs e on the buffer and records it.
func (s *Session) Apply(e Edit) {
	if e.IsEmpty() {
		return
	}
	e.ApplyTo(s.buf)
	s.RecordEdit(e)
}

// ApplyTyping is Apply for keystrokes: consecutive typed or deleted runes
// collapse into one undo step.
func (s *Session) ApplyTyping(e Edit) {
	if e.IsEmpty() {
		return
	}
	e.ApplyTo(s.buf)
	s.history.PushMerging(e)
	s.afterEdit()
}

// RecordEdit records an edit already performed on the buffer. Any redoable
// edits are discarded.
func (s *Session) RecordEdit(e Edit) {
	s.history.Push(e)
	s.afterEdit()
}

func (s *Session) afterEdit() {
	s.dirty = !s.history.AtSaved()
	s.notify()
}

// BreakTypingRun makes the next ApplyTyping start a new undo step.
func (s *Session) BreakTypingRun() {
	s.history.Seal()
}

// Insert inserts text at offset.
func (s *Session) Insert(offset int, text string) Edit {
	e := Insertion(offset, text)
	s.Apply(e)
	return e
}

// Delete removes n bytes at offset.
func (s *Session) Delete(offset, n int) Edit {
	e := Deletion(offset, s.buf.Substring(offset, offset+n))
	s.Apply(e)
	return e
}

// Replace replaces [start, end) with text as a single undo step.
func (s *Session) Replace(start, end int, text string) Edit {
	e := Edit{Offset: start, Removed: s.buf.Substring(start, end), Inserted: text}
	s.Apply(e)
	return e
}

// Undo reverts the edit before the history cursor. It returns that edit as
// recorded, not its inverse, so callers can place the caret from it.
// It reports false, changing nothing, when there is nothing to undo.
func (s *Session) Undo() (Edit, bool) {
	e, ok := s.history.Undo()
	if !ok {
		return Edit{}, false
	}
	e.Inverse().ApplyTo(s.buf)
	s.dirty = !s.history.AtSaved()
	s.notify()
	return e, true
}

// Redo reapplies the edit at the history cursor and returns it.
func (s *Session) Redo() (Edit, bool) {
	e, ok := s.history.Redo()
	if !ok {
		return Edit{}, false
	}
	e.ApplyTo(s.buf)
	s.dirty = !s.history.AtSaved()
	s.notify()
	return e, true
}

// Save writes the content to the session's path. A clean session is not
// written. Without a path it returns ErrNoPath.
func (s *Session) Save() error {
	if s.path == "" {
		return ErrNoPath
	}
	if !s.dirty {
		return nil
	}
	return s.write(s.path)
}

// SaveAs writes the content to path, even when clean, and adopts path.
// An empty path means the picker was dismissed and returns ErrCancelled.
// On failure the previous path is kept.
func (s *Session) SaveAs(path string) error {
	if path == "" {
		return ErrCancelled
	}
	prev := s.path
	s.path = path
	if err := s.write(path); err != nil {
		s.path = prev
		return err
	}
	return nil
}

func (s *Session) write(path string) error {
	if err := s.files.WriteFile(path, s.buf.String(), s.charset); err != nil {
		err = fileError("save", path, err)
		s.log.Warn("save failed", "file", path, "error", err)
		return err
	}
	s.history.MarkSaved()
	s.dirty = false
	s.log.Info("saved", "file", path, "bytes", s.buf.Len(), "charset", s.charset.ID)
	return nil
}

// NeedsCloseConfirmation reports whether closing would lose changes the
// user might want: the session is dirty and not a blank new document.
func (s *Session) NeedsCloseConfirmation() bool {
	if s.IsNew() && s.IsBlank() {
		return false
	}
	return s.dirty
}

// ResolveClose applies the user's answer to the save-before-close question.
// ChoiceSave on a never-saved session returns ErrNoPath; the caller must
// obtain a path through SaveAs first.
func (s *Session) ResolveClose(choice CloseChoice) (CloseDecision, error) {
	switch choice {
	case ChoiceSave:
		if err := s.Save(); err != nil {
			return Cancelled, err
		}
		s.log.Info("closed after save", "file", s.path)
		return Proceed, nil
	case ChoiceDiscard:
		s.log.Info("closed discarding changes", "file", s.path)
		return Proceed, nil
	default:
		return Cancelled, nil
	}
}

// RequestClose decides whether the session may close, asking confirm only
// when unsaved changes would be lost.
func (s *Session) RequestClose(confirm func() CloseChoice) (CloseDecision, error) {
	if !s.NeedsCloseConfirmation() {
		return Proceed, nil
	}
	return s.ResolveClose(confirm())
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Path returns the file path, empty for a never-saved document.
func (s *Session) Path() string { return s.path }

// Name returns the base name of the file, or UntitledName.
func (s *Session) Name() string {
	if s.path == "" {
		return UntitledName
	}
	return filepath.Base(s.path)
}

// IsNew reports whether the document has never been saved or loaded.
func (s *Session) IsNew() bool { return s.path == "" }

// IsDirty reports whether the content differs from what was last persisted.
func (s *Session) IsDirty() bool { return s.dirty }

// IsBlank reports whether the content is empty or whitespace only.
func (s *Session) IsBlank() bool { return s.buf.IsBlank() }

func (s *Session) CanUndo() bool     { return s.history.CanUndo() }
func (s *Session) CanRedo() bool     { return s.history.CanRedo() }
func (s *Session) HistoryLen() int   { return s.history.Len() }
func (s *Session) HistoryIndex() int { return s.history.Index() }

// History exposes the edit history for inspection.
func (s *Session) History() *History { return s.history }

// Buffer returns the text buffer. Mutations must go through the session.
func (s *Session) Buffer() *Buffer { return s.buf }

// Text returns the whole content.
func (s *Session) Text() string { return s.buf.String() }

// Charset returns the charset the file is stored in.
func (s *Session) Charset() *encoding.Charset { return s.charset }

// Logger returns the session-scoped logger.
func (s *Session) Logger() *slog.Logger { return s.log }
