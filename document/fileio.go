package document

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cornish/jotpad/encoding"
)

var errDecode = errors.New("decode failed")

// FileIO reads and writes document files. Text is always UTF-8; the
// charset records how it is stored on disk.
type FileIO interface {
	ReadFile(path string) (text string, cs *encoding.Charset, err error)
	WriteFile(path, text string, cs *encoding.Charset) error
}

// OSFileIO is the FileIO backed by the local filesystem.
type OSFileIO struct {
	// Perm is used for files that do not exist yet. Zero means 0644.
	Perm fs.FileMode
}

// ReadFile reads path and decodes it from its detected charset.
func (o OSFileIO) ReadFile(path string) (string, *encoding.Charset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	text, cs, err := encoding.DecodeDetected(data)
	if err != nil {
		if errors.Is(err, encoding.ErrUnsupported) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("%w: %w", errDecode, err)
	}
	return text, cs, nil
}

// WriteFile encodes text and replaces path atomically: the bytes go to a
// temporary file in the same directory which is synced and renamed over
// the target. A failure leaves any existing file untouched.
func (o OSFileIO) WriteFile(path, text string, cs *encoding.Charset) error {
	if cs == nil {
		cs = encoding.UTF8
	}
	data, err := cs.Encode(text)
	if err != nil {
		return err
	}

	perm := o.Perm
	if perm == 0 {
		perm = 0o644
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	done := false
	defer func() {
		if !done {
			if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("failed to remove temporary file", "path", tmp.Name(), "error", err)
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	done = true
	return nil
}
