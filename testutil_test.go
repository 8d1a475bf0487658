package lmdb

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

// seekBuffer is an in-memory growable buffer satisfying both io.ReadSeeker
// and io.WriteSeeker, standing in for a real file in tests that only need
// a handful of words round-tripped rather than a full handle.
type seekBuffer struct {
	data []byte
	pos  int64
}

func (b *seekBuffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	n := copy(b.data[b.pos:end], p)
	b.pos = end
	return n, nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = b.pos + offset
	case io.SeekEnd:
		target = int64(len(b.data)) + offset
	}
	if target < 0 {
		return 0, os.ErrInvalid
	}
	b.pos = target
	return b.pos, nil
}

// tempDBPath returns a path for a scratch file under the test's temp
// directory; the file itself is created by Create, not here.
func tempDBPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

// writeFile writes data to path, used by tests that need a file on disk
// that isn't a valid database.
func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// statFile returns the size in bytes of the file at path.
func statFile(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
