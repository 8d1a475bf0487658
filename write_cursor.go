package lmdb

// WriteCursor buffers nodes into a current leaf, flushes full leaves,
// writes overflow pages as needed, and commits by rewriting the other meta
// slot (spec §4.6).
type WriteCursor struct {
	h    *Handle
	page Leaf

	// nextPage is the next unused page number. It advances independently
	// of the pending leaf's own page number so that an overflow page
	// written while a leaf is still being filled never collides with a
	// later leaf or overflow page.
	nextPage uint64
}

// WriteCursor constructs a buffered append cursor bound to h. Only one
// cursor (read or write) may be open against a handle at a time.
func (h *Handle) WriteCursor() (*WriteCursor, error) {
	if err := h.acquire(); err != nil {
		return nil, err
	}
	c := &WriteCursor{h: h}
	if err := c.init(); err != nil {
		h.release()
		return nil, err
	}
	return c, nil
}

// Close releases the cursor's borrow of the handle without committing.
// Callers that want their writes persisted must call Commit first.
func (c *WriteCursor) Close() error {
	if c.h != nil {
		c.h.release()
		c.h = nil
	}
	return nil
}

func (c *WriteCursor) init() error {
	last := c.h.meta.LastPgno
	if c.h.reader != nil {
		leaf, err := c.h.readLeaf(last)
		if err != nil {
			return err
		}
		c.page = leaf
	} else {
		pageno := uint64(2)
		if last > 1 {
			pageno = last + 1
		}
		c.page = Leaf{Pageno: pageno, Flags: FlagLeaf}
	}
	c.nextPage = c.page.Pageno + 1
	return nil
}

// PushElement buffers one key/value pair into the pending leaf, escaping
// to an overflow page when the value exceeds OverflowThreshold.
func (c *WriteCursor) PushElement(e Element) error {
	if len(e.Value) > OverflowThreshold {
		pageno := c.nextPage
		c.nextPage++
		if err := c.h.writeOverflow(Overflow{Pageno: pageno, Data: e.Value}); err != nil {
			return err
		}
		c.h.meta.Main.OverflowPages++
		if pageno > c.h.meta.LastPgno {
			c.h.meta.LastPgno = pageno
		}
		node := Node{
			Flags: NodeBigData,
			Key:   e.Key,
			Data:  NodeData{IsOverflow: true, Overflow: pageno, DataSize: uint32(len(e.Value))},
		}
		return c.pushNode(node)
	}
	node := Node{
		Key:  e.Key,
		Data: NodeData{Inline: e.Value, DataSize: uint32(len(e.Value))},
	}
	return c.pushNode(node)
}

func (c *WriteCursor) pushNode(n Node) error {
	ws := c.h.ws
	size := 0
	for _, existing := range c.page.Nodes {
		size += existing.Size(ws)
	}
	threshold := PageSize - 6*(len(c.page.Nodes)+1)
	if size+n.Size(ws) >= threshold {
		if err := c.flushLeaf(); err != nil {
			return err
		}
	}
	c.page.Nodes = append(c.page.Nodes, n)
	return nil
}

// flushLeaf writes the pending leaf, folds its accounting into the
// handle's cached meta, and starts a fresh empty leaf.
func (c *WriteCursor) flushLeaf() error {
	if err := c.h.writeLeaf(c.page); err != nil {
		return err
	}
	if c.page.Pageno > c.h.meta.LastPgno {
		c.h.meta.LastPgno = c.page.Pageno
	}
	c.h.meta.Main.Entries += uint64(len(c.page.Nodes))
	c.h.meta.Main.LeafPages++
	c.h.meta.Main.Depth = 1
	if !c.h.meta.Main.HasRoot {
		c.h.meta.Main.Root = c.page.Pageno
		c.h.meta.Main.HasRoot = true
	}

	newPageno := c.nextPage
	c.nextPage = newPageno + 1
	c.page = Leaf{Pageno: newPageno, Flags: FlagLeaf}
	return nil
}

// Commit flushes the pending leaf — even if it has zero nodes, a quirk of
// the source format preserved deliberately rather than silently corrected —
// then publishes a new meta with an incremented txnid to the other slot.
func (c *WriteCursor) Commit() error {
	if err := c.h.writeLeaf(c.page); err != nil {
		return err
	}
	meta := c.h.meta.Clone()
	if c.page.Pageno > meta.LastPgno {
		meta.LastPgno = c.page.Pageno
	}
	meta.Txnid++
	meta.Main.Entries += uint64(len(c.page.Nodes))
	meta.Main.LeafPages++
	meta.Main.Depth = 1
	if !meta.Main.HasRoot {
		meta.Main.Root = c.page.Pageno
		meta.Main.HasRoot = true
	}

	nextSlot := (c.h.metaID + 1) % 2
	if err := c.h.writeMeta(meta, nextSlot); err != nil {
		return err
	}
	if err := c.h.writer.Flush(); err != nil {
		return err
	}

	c.h.meta = meta
	c.h.metaID = nextSlot

	newPageno := c.nextPage
	c.nextPage = newPageno + 1
	c.page = Leaf{Pageno: newPageno, Flags: FlagLeaf}
	return nil
}
