package document

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/cornish/jotpad/encoding"
)

var (
	// ErrNoPath is returned by Save when the document has never been saved.
	ErrNoPath = errors.New("document has no file path")

	// ErrCancelled is returned when the user dismissed a destination picker.
	ErrCancelled = errors.New("cancelled")
)

// ErrorKind classifies file failures for display.
type ErrorKind int

const (
	KindIO ErrorKind = iota
	KindNotFound
	KindPermission
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "file not found"
	case KindPermission:
		return "permission denied"
	case KindDecode:
		return "cannot decode file"
	default:
		return "I/O error"
	}
}

// FileError reports a failed read or write of a document file.
type FileError struct {
	Op   string // "open" or "save"
	Path string
	Kind ErrorKind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// fileError wraps err, classifying it by the underlying cause.
func fileError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FileError
	if errors.As(err, &fe) {
		return err
	}
	kind := KindIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermission
	case errors.Is(err, encoding.ErrUnsupported), errors.Is(err, errDecode):
		kind = KindDecode
	}
	return &FileError{Op: op, Path: path, Kind: kind, Err: err}
}

// IsKind reports whether err is a *FileError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FileError
	return errors.As(err, &fe) && fe.Kind == kind
}
