package lmdb

import "io"

// Detect opens path read-only and inspects the first page header to decide
// whether the file is a Word32 or Word64 variant. It reads a 32-bit header
// first; if pageno, pad, and flags don't match the expected meta-page
// pattern it rewinds and tries a 64-bit header. A file matching neither is
// rejected as InvalidFileFormat.
func Detect(path string) (WordSize, error) {
	f, err := openFile(path)
	if err != nil {
		return 0, Wrap(CodeIOError, "detect", err)
	}
	defer f.Close()

	if matches, err := looksLikeMeta(f, Word32); err != nil {
		return 0, err
	} else if matches {
		return Word32, nil
	}
	if matches, err := looksLikeMeta(f, Word64); err != nil {
		return 0, err
	} else if matches {
		return Word64, nil
	}
	return 0, New(CodeInvalidFileFormat, "detect")
}

func looksLikeMeta(f io.ReadSeeker, ws WordSize) (bool, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false, Wrap(CodeReadError, "detect", err)
	}
	r := NewReader(f, ws)
	hdr, err := ReadPageHeader(r)
	if err != nil {
		return false, nil
	}
	return hdr.Pageno == 0 && hdr.Pad == 0 && hdr.Flags == FlagMeta, nil
}
