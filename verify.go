package lmdb

import "fmt"

// Report summarizes a Verify pass over an open, unmodified database.
type Report struct {
	Entries       uint64
	LeafPages     uint64
	OverflowPages uint64
	WordSize      WordSize
}

// Verify walks the leaf pages of h with a read cursor. It checks that every
// leaf holding at least one node fits its pointer table and node bodies
// within one page, and that the number of elements the cursor yields equals
// the meta's entry count; read and decode failures along the way are
// returned as errors. It does not check meta slots or txnids, file length,
// or overflow page flags and sizes. It never writes to h; it only opens a
// read cursor.
func Verify(h *Handle) (Report, error) {
	cur, err := h.ReadCursor()
	if err != nil {
		return Report{}, err
	}
	defer cur.Close()

	var entries uint64
	checkedLeaf := ^uint64(0)
	for {
		if cur.state == cursorPointing && cur.leaf.Pageno != checkedLeaf {
			checkedLeaf = cur.leaf.Pageno
			if err := checkLeafLayout(cur.leaf, h.ws); err != nil {
				return Report{}, err
			}
		}
		_, ok, err := cur.Next()
		if err != nil {
			return Report{}, err
		}
		if !ok {
			break
		}
		entries++
	}

	meta := h.Meta()
	if entries != meta.Entries {
		return Report{}, New(CodeInvalidFileFormat, "verify").
			WithPage(meta.Root)
	}

	return Report{
		Entries:       entries,
		LeafPages:     meta.LeafPages,
		OverflowPages: meta.OverflowPages,
		WordSize:      h.ws,
	}, nil
}

// checkLeafLayout asserts invariant I4 (pointer table and node bodies never
// overlap) without needing the original free_lower/free_upper fields: the
// pointer table's end and the sum of every node's on-disk size must fit
// within one page.
func checkLeafLayout(leaf Leaf, ws WordSize) error {
	pointerTableEnd := PageHeaderSize(ws) + len(leaf.Nodes)*2
	bodySize := 0
	for _, n := range leaf.Nodes {
		bodySize += n.Size(ws)
	}
	if pointerTableEnd+bodySize > PageSize {
		return New(CodeInvalidFileFormat, "verify").WithPage(leaf.Pageno)
	}
	return nil
}

// String renders r as a short human-readable summary, used by the
// verify CLI subcommand's non-JSON output.
func (r Report) String() string {
	return fmt.Sprintf(
		"word_size=%d entries=%d leaf_pages=%d overflow_pages=%d",
		r.WordSize, r.Entries, r.LeafPages, r.OverflowPages,
	)
}
