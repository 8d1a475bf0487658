package lmdb

import (
	"io"
	"sync"
)

// Handle owns one word-sized adapter (a reader, a writer, or both) plus the
// cached latest metadata and which of the two meta slots produced it. It is
// the single owner of the underlying stream; cursors borrow it for their
// lifetime (spec §4.4, §9 "cursor ↔ handle coupling").
type Handle struct {
	mu sync.Mutex

	reader Reader
	writer Writer
	ws     WordSize

	meta   Meta
	metaID int

	// borrowed is true while a cursor holds the handle. It exists so a
	// caller that (incorrectly) tries to open two cursors at once gets a
	// clear error instead of silently interleaved I/O.
	borrowed bool
}

// Open reads path, detects its word size, selects the current meta via
// PickMeta, and returns a read-capable handle.
func Open(path string) (*Handle, error) {
	ws, err := Detect(path)
	if err != nil {
		return nil, err
	}
	f, err := openFile(path)
	if err != nil {
		return nil, Wrap(CodeIOError, "open", err)
	}
	r := NewReader(f, ws)
	meta, metaID, err := PickMeta(r)
	if err != nil {
		return nil, err
	}
	return &Handle{reader: r, ws: ws, meta: meta, metaID: metaID}, nil
}

// Create initializes a new file at path with the identity state of
// invariant I6 (both meta slots present, txnid=0, root absent,
// last_pgno=1) and returns a write-capable handle.
func Create(path string, ws WordSize) (*Handle, error) {
	f, err := createFile(path)
	if err != nil {
		return nil, Wrap(CodeIOError, "create", err)
	}
	w := NewWriter(f, ws)
	meta := Meta{
		Magic:   Magic,
		Version: Version,
		MapSize: 1048576,
		Free: SubDatabase{
			Pad:   4096,
			Flags: SubDBIntegerKey,
		},
		Main: SubDatabase{
			Pad: 4096,
		},
		LastPgno: 1,
		Txnid:    0,
	}
	if err := WriteMeta(w, meta, 0); err != nil {
		return nil, err
	}
	if err := WriteMeta(w, meta, 1); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return &Handle{writer: w, ws: ws, meta: meta, metaID: 0}, nil
}

// OpenForWrite reopens an existing file for writing, seeking the current
// meta via PickMeta, and returns a handle that can both read and write.
// Nothing in this module calls it; convert and verify use Open and Create.
func OpenForWrite(path string) (*Handle, error) {
	ws, err := Detect(path)
	if err != nil {
		return nil, err
	}
	f, err := openFileReadWrite(path)
	if err != nil {
		return nil, Wrap(CodeIOError, "open", err)
	}
	rw := NewReader(f, ws)
	meta, metaID, err := PickMeta(rw)
	if err != nil {
		return nil, err
	}
	w := NewWriter(f, ws)
	return &Handle{reader: rw, writer: w, ws: ws, meta: meta, metaID: metaID}, nil
}

// WordSize returns the handle's word-size variant.
func (h *Handle) WordSize() WordSize { return h.ws }

// Meta returns a read-only snapshot of the handle's currently cached
// metadata.
func (h *Handle) Meta() MetaSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return MetaSnapshot{
		LastPgno:      h.meta.LastPgno,
		Root:          h.meta.Main.Root,
		HasRoot:       h.meta.Main.HasRoot,
		LeafPages:     h.meta.Main.LeafPages,
		BranchPages:   h.meta.Main.BranchPages,
		OverflowPages: h.meta.Main.OverflowPages,
		Entries:       h.meta.Main.Entries,
		Depth:         h.meta.Main.Depth,
	}
}

func (h *Handle) acquire() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.borrowed {
		return New(CodeLockError, "acquire")
	}
	h.borrowed = true
	return nil
}

func (h *Handle) release() {
	h.mu.Lock()
	h.borrowed = false
	h.mu.Unlock()
}

func (h *Handle) readLeaf(pageno uint64) (Leaf, error) {
	if h.reader == nil {
		return Leaf{}, New(CodeNoReader, "read")
	}
	if _, err := h.reader.Seek(int64(pageno)*PageSize, io.SeekStart); err != nil {
		return Leaf{}, err
	}
	return ReadLeaf(h.reader, pageno)
}

// peekPageFlags reads just the page header at pageno and returns its
// flags, for callers (the read cursor) that must tell a leaf page from an
// interleaved overflow page before committing to a full ReadLeaf.
func (h *Handle) peekPageFlags(pageno uint64) (PageFlags, error) {
	if h.reader == nil {
		return 0, New(CodeNoReader, "read")
	}
	if _, err := h.reader.Seek(int64(pageno)*PageSize, io.SeekStart); err != nil {
		return 0, err
	}
	hdr, err := ReadPageHeader(h.reader)
	if err != nil {
		return 0, err
	}
	return hdr.Flags, nil
}

func (h *Handle) readOverflow(pageno uint64, size uint32) ([]byte, error) {
	if h.reader == nil {
		return nil, New(CodeNoReader, "read_overflow")
	}
	return ReadOverflow(h.reader, pageno, size)
}

func (h *Handle) writeLeaf(leaf Leaf) error {
	return WriteLeaf(h.writer, leaf)
}

func (h *Handle) writeOverflow(ov Overflow) error {
	return WriteOverflow(h.writer, ov)
}

func (h *Handle) writeMeta(meta Meta, slot int) error {
	return WriteMeta(h.writer, meta, slot)
}
