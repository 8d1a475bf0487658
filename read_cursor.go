package lmdb

// cursorState tracks validity of a cursor's current position, mirroring
// the small state machine used by cursors in the family of implementations
// this one descends from.
type cursorState uint8

const (
	cursorUninitialized cursorState = iota
	cursorPointing
	cursorEOF
)

// ReadCursor walks the main database's leaf pages from the root onward,
// yielding elements in on-disk pointer-table order within each leaf and in
// ascending page number across leaves. It is forward-only and not
// restartable (spec §4.5).
//
// Leaf pages are not always contiguous: a write cursor allocates an
// overflow page's number out of the same counter it uses for leaves
// (write_cursor.go), so a large value pushed mid-leaf can leave an
// overflow page sitting between two leaf page numbers (e.g. leaves at 2
// and 4, overflow at 3). The cursor accounts for this by peeking each
// page's header and skipping over interleaved overflow pages rather than
// assuming pageno+1 is always the next leaf.
type ReadCursor struct {
	h     *Handle
	state cursorState

	leaf  Leaf
	index int

	// leavesLeft bounds how many more leaf pages the cursor expects to
	// find, per meta.Main.LeafPages; lastPage bounds how far it will scan
	// looking for the next one. Both guard against runaway scans over a
	// truncated or corrupt file.
	leavesLeft uint64
	lastPage   uint64
}

// ReadCursor constructs a forward cursor bound to h. Only one cursor (read
// or write) may be open against a handle at a time.
func (h *Handle) ReadCursor() (*ReadCursor, error) {
	if err := h.acquire(); err != nil {
		return nil, err
	}
	c := &ReadCursor{h: h}
	if err := c.init(); err != nil {
		h.release()
		return nil, err
	}
	return c, nil
}

// Close releases the cursor's borrow of the handle. Safe to call more than
// once.
func (c *ReadCursor) Close() error {
	if c.h != nil {
		c.h.release()
		c.h = nil
	}
	return nil
}

func (c *ReadCursor) init() error {
	root := DefaultRootPage
	if c.h.meta.Main.HasRoot {
		root = c.h.meta.Main.Root
	}
	if c.h.meta.Main.LeafPages == 0 {
		c.state = cursorEOF
		return nil
	}
	c.lastPage = c.h.meta.LastPgno
	c.leavesLeft = c.h.meta.Main.LeafPages

	leaf, found, err := c.nextLeafFrom(root)
	if err != nil {
		return err
	}
	if !found {
		c.state = cursorEOF
		return nil
	}
	c.leaf = leaf
	c.leavesLeft--
	c.index = 0
	c.state = cursorPointing
	return c.skipToNode()
}

// skipToNode advances past exhausted leaves until a node is available or
// the cursor reaches EOF.
func (c *ReadCursor) skipToNode() error {
	for c.state == cursorPointing && c.index >= len(c.leaf.Nodes) {
		if err := c.advancePage(); err != nil {
			return err
		}
	}
	return nil
}

func (c *ReadCursor) advancePage() error {
	if c.leavesLeft == 0 {
		c.state = cursorEOF
		return nil
	}
	leaf, found, err := c.nextLeafFrom(c.leaf.Pageno + 1)
	if err != nil {
		return err
	}
	if !found {
		c.state = cursorEOF
		return nil
	}
	c.leaf = leaf
	c.leavesLeft--
	c.index = 0
	return nil
}

// nextLeafFrom scans page numbers starting at pageno (inclusive) up to
// lastPage, peeking each page's flags and skipping over any overflow page
// it meets, until it finds a leaf page or exhausts the range.
func (c *ReadCursor) nextLeafFrom(pageno uint64) (Leaf, bool, error) {
	for pageno <= c.lastPage {
		flags, err := c.h.peekPageFlags(pageno)
		if err != nil {
			return Leaf{}, false, err
		}
		if flags == FlagOverflow {
			pageno++
			continue
		}
		if flags != FlagLeaf {
			return Leaf{}, false, New(CodeInvalidFileFormat, "read_cursor").WithPage(pageno)
		}
		leaf, err := c.h.readLeaf(pageno)
		if err != nil {
			return Leaf{}, false, err
		}
		return leaf, true, nil
	}
	return Leaf{}, false, nil
}

// Next returns the next element and true, or a zero Element and false at
// end of iteration.
func (c *ReadCursor) Next() (Element, bool, error) {
	if c.state != cursorPointing {
		return Element{}, false, nil
	}
	node := c.leaf.Nodes[c.index]
	value := node.Data.Inline
	if node.Data.IsOverflow {
		v, err := c.h.readOverflow(node.Data.Overflow, node.Data.DataSize)
		if err != nil {
			return Element{}, false, err
		}
		value = v
	}
	elem := Element{Key: node.Key, Value: value}

	c.index++
	if err := c.skipToNode(); err != nil {
		return Element{}, false, err
	}
	return elem, true, nil
}
