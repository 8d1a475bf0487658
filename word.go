package lmdb

import (
	"encoding/binary"
	"io"
)

// WordSize is the file-variant pointer width, in bytes: 4 (Word32) or 8
// (Word64). Every other component treats this as an opaque tag and never
// branches on it directly; the adapter is the only place that does.
type WordSize int

const (
	Word32 WordSize = 4
	Word64 WordSize = 8
)

// optAbsent is the all-ones sentinel an optional word uses to mean "absent",
// expressed as the maximum value of an unsigned integer of the matching
// width interpreted as -1 in its signed twin.
func optAbsent(ws WordSize) uint64 {
	if ws == Word32 {
		return 0xFFFFFFFF
	}
	return 0xFFFFFFFFFFFFFFFF
}

// Reader is the read half of the word-sized I/O adapter (spec §4.1). It
// wraps a seekable byte source and exposes fixed-width little-endian
// primitives; it performs no framing of its own, so callers are responsible
// for positioning before every call.
type Reader interface {
	Seek(offset int64, whence int) (int64, error)
	Pos() (int64, error)
	WordSize() WordSize
	ReadU16() (uint16, error)
	ReadU32() (uint32, error)
	ReadWord() (uint64, error)
	ReadOptWord() (uint64, bool, error)
	ReadExact(buf []byte) error
}

// Writer is the write half of the word-sized I/O adapter.
type Writer interface {
	Seek(offset int64, whence int) (int64, error)
	Pos() (int64, error)
	WordSize() WordSize
	WriteU16(v uint16) error
	WriteU32(v uint32) error
	WriteWord(v uint64) error
	WriteOptWord(v uint64, present bool) error
	WriteExact(buf []byte) error
	WriteFill(n int) error
	Flush() error
}

type streamReader struct {
	r  io.ReadSeeker
	ws WordSize
}

// NewReader wraps a seekable byte source as a word-sized Reader.
func NewReader(r io.ReadSeeker, ws WordSize) Reader {
	return &streamReader{r: r, ws: ws}
}

func (s *streamReader) Seek(offset int64, whence int) (int64, error) {
	n, err := s.r.Seek(offset, whence)
	if err != nil {
		return n, Wrap(CodeReadError, "seek", err)
	}
	return n, nil
}

func (s *streamReader) Pos() (int64, error) {
	return s.Seek(0, io.SeekCurrent)
}

func (s *streamReader) WordSize() WordSize { return s.ws }

func (s *streamReader) ReadU16() (uint16, error) {
	var buf [2]byte
	if err := s.ReadExact(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func (s *streamReader) ReadU32() (uint32, error) {
	var buf [4]byte
	if err := s.ReadExact(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (s *streamReader) ReadWord() (uint64, error) {
	if s.ws == Word32 {
		v, err := s.ReadU32()
		return uint64(v), err
	}
	var buf [8]byte
	if err := s.ReadExact(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (s *streamReader) ReadOptWord() (uint64, bool, error) {
	v, err := s.ReadWord()
	if err != nil {
		return 0, false, err
	}
	if v == optAbsent(s.ws) {
		return 0, false, nil
	}
	return v, true, nil
}

func (s *streamReader) ReadExact(buf []byte) error {
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return Wrap(CodeReadError, "read", err)
	}
	return nil
}

type streamWriter struct {
	w  io.WriteSeeker
	ws WordSize
}

// NewWriter wraps a seekable byte sink as a word-sized Writer.
func NewWriter(w io.WriteSeeker, ws WordSize) Writer {
	return &streamWriter{w: w, ws: ws}
}

func (s *streamWriter) Seek(offset int64, whence int) (int64, error) {
	n, err := s.w.Seek(offset, whence)
	if err != nil {
		return n, Wrap(CodeWriteError, "seek", err)
	}
	return n, nil
}

func (s *streamWriter) Pos() (int64, error) {
	return s.Seek(0, io.SeekCurrent)
}

func (s *streamWriter) WordSize() WordSize { return s.ws }

func (s *streamWriter) WriteU16(v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return s.WriteExact(buf[:])
}

func (s *streamWriter) WriteU32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return s.WriteExact(buf[:])
}

func (s *streamWriter) WriteWord(v uint64) error {
	if s.ws == Word32 {
		return s.WriteU32(uint32(v))
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return s.WriteExact(buf[:])
}

func (s *streamWriter) WriteOptWord(v uint64, present bool) error {
	if !present {
		return s.WriteWord(optAbsent(s.ws))
	}
	return s.WriteWord(v)
}

func (s *streamWriter) WriteExact(buf []byte) error {
	if _, err := s.w.Write(buf); err != nil {
		return Wrap(CodeWriteError, "write", err)
	}
	return nil
}

func (s *streamWriter) WriteFill(n int) error {
	if n <= 0 {
		return nil
	}
	buf := make([]byte, n)
	return s.WriteExact(buf)
}

func (s *streamWriter) Flush() error {
	if f, ok := s.w.(interface{ Sync() error }); ok {
		if err := f.Sync(); err != nil {
			return Wrap(CodeWriteError, "flush", err)
		}
	}
	return nil
}
