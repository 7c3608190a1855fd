package document

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cornish/jotpad/encoding"
)

// memFS is an in-memory FileIO.
type memFS struct {
	files    map[string]string
	writeErr error
	writes   int
}

func newMemFS(files map[string]string) *memFS {
	if files == nil {
		files = map[string]string{}
	}
	return &memFS{files: files}
}

func (m *memFS) ReadFile(path string) (string, *encoding.Charset, error) {
	text, ok := m.files[path]
	if !ok {
		return "", nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return text, encoding.UTF8, nil
}

func (m *memFS) WriteFile(path, text string, _ *encoding.Charset) error {
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[path] = text
	return nil
}

func TestNewSessionIsCleanAndUntitled(t *testing.T) {
	s := New()
	assert.False(t, s.IsDirty())
	assert.True(t, s.IsNew())
	assert.Equal(t, UntitledName, s.Name())
	assert.Equal(t, "", s.Text())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	assert.NotEmpty(t, s.ID())
}

func TestEditsThenUndoAllRestoresOriginal(t *testing.T) {
	fsys := newMemFS(map[string]string{"a.txt": "The quick fox"})
	s := New(WithFileIO(fsys))
	require.NoError(t, s.Load("a.txt"))

	s.Insert(4, "very ")
	s.Delete(0, 4)
	s.Replace(s.Buffer().Len()-3, s.Buffer().Len(), "dog")
	s.Insert(s.Buffer().Len(), "!\n")
	require.Equal(t, "very quick dog!\n", s.Text())

	for i := 0; i < 4; i++ {
		_, ok := s.Undo()
		require.True(t, ok)
	}
	assert.Equal(t, "The quick fox", s.Text())
	assert.False(t, s.IsDirty())
	assert.False(t, s.CanUndo())
	assert.True(t, s.CanRedo())
}

func TestUndoRedoBoundsAreNoOps(t *testing.T) {
	s := New()
	_, ok := s.Undo()
	assert.False(t, ok)
	assert.Equal(t, 0, s.HistoryIndex())

	s.Insert(0, "x")
	_, ok = s.Redo()
	assert.False(t, ok)
	assert.Equal(t, 1, s.HistoryIndex())
	assert.Equal(t, "x", s.Text())
	assert.True(t, s.IsDirty())
}

func TestUndoRedoReturnRecordedEdit(t *testing.T) {
	s := New()
	s.Insert(0, "hello")
	rec := s.Insert(5, " world")

	e, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, rec, e)
	assert.Equal(t, " world", e.Inserted)
	assert.Equal(t, "hello", s.Text())

	e, ok = s.Redo()
	require.True(t, ok)
	assert.Equal(t, rec, e)
	assert.Equal(t, "hello world", s.Text())
}

func TestEditAfterUndoDiscardsRedoTail(t *testing.T) {
	s := New()
	a := s.Insert(0, "A")
	s.Insert(1, "B")
	s.Insert(2, "C")
	s.Undo()
	s.Undo()
	d := s.Insert(1, "D")

	assert.False(t, s.CanRedo())
	assert.Equal(t, []Edit{a, d}, s.History().Entries())
	assert.Equal(t, 2, s.HistoryIndex())
	assert.Equal(t, "AD", s.Text())
}

func TestSaveMarksCleanAndEditDirties(t *testing.T) {
	fsys := newMemFS(map[string]string{"notes.txt": "hello"})
	s := New(WithFileIO(fsys))
	require.NoError(t, s.Load("notes.txt"))
	s.Insert(5, "!")
	require.NoError(t, s.Save())
	assert.False(t, s.IsDirty())
	assert.Equal(t, "hello!", fsys.files["notes.txt"])

	s.Insert(0, ">")
	assert.True(t, s.IsDirty())
}

func TestNotesScenario(t *testing.T) {
	fsys := newMemFS(map[string]string{"notes.txt": "hello"})
	s := New(WithFileIO(fsys))

	require.NoError(t, s.Load("notes.txt"))
	assert.False(t, s.IsDirty())
	assert.Equal(t, "notes.txt", s.Path())

	s.Insert(5, " world")
	assert.True(t, s.IsDirty())
	assert.True(t, s.CanUndo())

	require.NoError(t, s.Save())
	assert.False(t, s.IsDirty())
	assert.Equal(t, "hello world", fsys.files["notes.txt"])

	_, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "hello", s.Text())
	assert.True(t, s.IsDirty())
}

func TestRedoBackToSavedPointIsClean(t *testing.T) {
	fsys := newMemFS(nil)
	s := New(WithFileIO(fsys))
	s.Insert(0, "abc")
	require.NoError(t, s.SaveAs("x.txt"))

	s.Undo()
	assert.True(t, s.IsDirty())
	s.Redo()
	assert.False(t, s.IsDirty())
}

func TestTruncatingSavedStateKeepsDirty(t *testing.T) {
	fsys := newMemFS(nil)
	s := New(WithFileIO(fsys))
	s.Insert(0, "a")
	s.Insert(1, "b")
	require.NoError(t, s.SaveAs("x.txt"))

	s.Undo()
	s.Insert(1, "c")
	assert.True(t, s.IsDirty())
	s.Undo()
	assert.True(t, s.IsDirty(), "state matching the file was discarded")
}

func TestSaveWithoutPath(t *testing.T) {
	fsys := newMemFS(nil)
	s := New(WithFileIO(fsys))
	s.Insert(0, "text")

	err := s.Save()
	assert.ErrorIs(t, err, ErrNoPath)
	assert.True(t, s.IsDirty())
	assert.Zero(t, fsys.writes)
}

func TestSaveCleanSkipsWrite(t *testing.T) {
	fsys := newMemFS(map[string]string{"a.txt": "x"})
	s := New(WithFileIO(fsys))
	require.NoError(t, s.Load("a.txt"))

	require.NoError(t, s.Save())
	assert.Zero(t, fsys.writes)
}

func TestSaveFailureLeavesDirty(t *testing.T) {
	fsys := newMemFS(map[string]string{"a.txt": "x"})
	s := New(WithFileIO(fsys))
	require.NoError(t, s.Load("a.txt"))
	s.Insert(1, "y")

	fsys.writeErr = &fs.PathError{Op: "write", Path: "a.txt", Err: fs.ErrPermission}
	err := s.Save()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPermission))
	assert.True(t, s.IsDirty())
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestSaveAsCleanDocumentStillWrites(t *testing.T) {
	fsys := newMemFS(map[string]string{"a.txt": "content"})
	s := New(WithFileIO(fsys))
	require.NoError(t, s.Load("a.txt"))

	require.NoError(t, s.SaveAs("b.txt"))
	assert.Equal(t, "content", fsys.files["b.txt"])
	assert.Equal(t, "b.txt", s.Path())
	assert.False(t, s.IsDirty())
}

func TestSaveAsCancelled(t *testing.T) {
	fsys := newMemFS(nil)
	s := New(WithFileIO(fsys))
	s.Insert(0, "x")

	assert.ErrorIs(t, s.SaveAs(""), ErrCancelled)
	assert.True(t, s.IsNew())
	assert.True(t, s.IsDirty())
	assert.Zero(t, fsys.writes)
}

func TestSaveAsFailureRestoresPath(t *testing.T) {
	fsys := newMemFS(map[string]string{"a.txt": "x"})
	s := New(WithFileIO(fsys))
	require.NoError(t, s.Load("a.txt"))
	s.Insert(0, "y")

	fsys.writeErr = errors.New("disk full")
	err := s.SaveAs("b.txt")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindIO))
	assert.Equal(t, "a.txt", s.Path())
	assert.True(t, s.IsDirty())
}

func TestLoadFailureLeavesSessionUnchanged(t *testing.T) {
	fsys := newMemFS(nil)
	s := New(WithFileIO(fsys))
	s.Insert(0, "draft")

	err := s.Load("missing.txt")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "open", fe.Op)
	assert.Equal(t, "draft", s.Text())
	assert.True(t, s.IsDirty())
	assert.True(t, s.IsNew())
}

func TestLoadResetsHistory(t *testing.T) {
	fsys := newMemFS(map[string]string{"a.txt": "one"})
	s := New(WithFileIO(fsys))
	s.Insert(0, "zzz")
	require.NoError(t, s.Load("a.txt"))
	assert.Equal(t, 0, s.HistoryLen())
	assert.Equal(t, 0, s.HistoryIndex())
	assert.False(t, s.IsDirty())
}

func TestHistoryListener(t *testing.T) {
	type state struct{ undo, redo bool }
	var got []state
	s := New(WithHistoryListener(func(u, r bool) { got = append(got, state{u, r}) }))

	s.Insert(0, "a")
	s.Undo()
	s.Redo()
	assert.Equal(t, []state{{true, false}, {false, true}, {true, false}}, got)
}

func TestRequestClose(t *testing.T) {
	never := func() CloseChoice {
		t.Fatal("confirm called")
		return ChoiceCancel
	}

	t.Run("fresh session", func(t *testing.T) {
		d, err := New().RequestClose(never)
		require.NoError(t, err)
		assert.Equal(t, Proceed, d)
	})

	t.Run("new with whitespace only", func(t *testing.T) {
		s := New()
		s.Insert(0, "  \n\t")
		d, err := s.RequestClose(never)
		require.NoError(t, err)
		assert.Equal(t, Proceed, d)
	})

	t.Run("clean loaded file", func(t *testing.T) {
		s := New(WithFileIO(newMemFS(map[string]string{"a": "x"})))
		require.NoError(t, s.Load("a"))
		d, err := s.RequestClose(never)
		require.NoError(t, err)
		assert.Equal(t, Proceed, d)
	})

	t.Run("dirty cancel", func(t *testing.T) {
		s := New()
		s.Insert(0, "text")
		d, err := s.RequestClose(func() CloseChoice { return ChoiceCancel })
		require.NoError(t, err)
		assert.Equal(t, Cancelled, d)
		assert.True(t, s.IsDirty())
	})

	t.Run("dirty discard", func(t *testing.T) {
		s := New()
		s.Insert(0, "text")
		d, err := s.RequestClose(func() CloseChoice { return ChoiceDiscard })
		require.NoError(t, err)
		assert.Equal(t, Proceed, d)
	})

	t.Run("dirty save", func(t *testing.T) {
		fsys := newMemFS(map[string]string{"a": "x"})
		s := New(WithFileIO(fsys))
		require.NoError(t, s.Load("a"))
		s.Insert(1, "y")
		d, err := s.RequestClose(func() CloseChoice { return ChoiceSave })
		require.NoError(t, err)
		assert.Equal(t, Proceed, d)
		assert.Equal(t, "xy", fsys.files["a"])
	})

	t.Run("dirty save fails", func(t *testing.T) {
		fsys := newMemFS(map[string]string{"a": "x"})
		s := New(WithFileIO(fsys))
		require.NoError(t, s.Load("a"))
		s.Insert(1, "y")
		fsys.writeErr = errors.New("boom")
		d, err := s.RequestClose(func() CloseChoice { return ChoiceSave })
		require.Error(t, err)
		assert.Equal(t, Cancelled, d)
		assert.True(t, s.IsDirty())
	})

	t.Run("dirty new save needs path", func(t *testing.T) {
		s := New()
		s.Insert(0, "text")
		d, err := s.RequestClose(func() CloseChoice { return ChoiceSave })
		assert.ErrorIs(t, err, ErrNoPath)
		assert.Equal(t, Cancelled, d)
	})
}

func TestApplyTypingMergesRuns(t *testing.T) {
	s := New()
	for i, r := range "hi there" {
		s.ApplyTyping(Insertion(i, string(r)))
	}
	assert.Equal(t, "hi there", s.Text())
	assert.Equal(t, 3, s.HistoryLen(), "\"hi\", \" \", \"there\"")

	s.Undo()
	assert.Equal(t, "hi ", s.Text())
}

func TestApplyTypingDoesNotExtendSavedEntry(t *testing.T) {
	fsys := newMemFS(nil)
	s := New(WithFileIO(fsys))
	s.ApplyTyping(Insertion(0, "a"))
	require.NoError(t, s.SaveAs("f"))
	s.ApplyTyping(Insertion(1, "b"))

	assert.Equal(t, 2, s.HistoryLen())
	s.Undo()
	assert.False(t, s.IsDirty())
	assert.Equal(t, "a", s.Text())
}

func TestBreakTypingRun(t *testing.T) {
	s := New()
	s.ApplyTyping(Insertion(0, "a"))
	s.BreakTypingRun()
	s.ApplyTyping(Insertion(1, "b"))
	assert.Equal(t, 2, s.HistoryLen())
}

func TestOSFileIORoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")

	s := New()
	s.Insert(0, "line one\nline two ✓\n")
	require.NoError(t, s.SaveAs(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two ✓\n", string(data))

	other := New()
	require.NoError(t, other.Load(path))
	assert.Equal(t, s.Text(), other.Text())
	assert.Equal(t, "utf-8", other.Charset().ID)
}

func TestOSFileIOKeepsCharset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latin.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, 0o600))

	s := New()
	require.NoError(t, s.Load(path))
	assert.Equal(t, "hi", s.Text())
	s.Insert(2, "!")
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFE, 'h', 0, 'i', 0, '!', 0}, data)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
}

func TestOSFileIOMissingDirectory(t *testing.T) {
	s := New()
	s.Insert(0, "x")
	err := s.SaveAs(filepath.Join(t.TempDir(), "nope", "doc.txt"))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
	assert.True(t, s.IsNew())
}
