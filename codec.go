package lmdb

import "io"

// ReadPageHeader reads the common 5-field page header prefix at the
// reader's current position.
func ReadPageHeader(r Reader) (Header, error) {
	pageno, err := r.ReadWord()
	if err != nil {
		return Header{}, Wrap(CodeReadError, "read_page_header", err)
	}
	pad, err := r.ReadU16()
	if err != nil {
		return Header{}, Wrap(CodeReadError, "read_page_header", err)
	}
	flags, err := r.ReadU16()
	if err != nil {
		return Header{}, Wrap(CodeReadError, "read_page_header", err)
	}
	lower, err := r.ReadU16()
	if err != nil {
		return Header{}, Wrap(CodeReadError, "read_page_header", err)
	}
	upper, err := r.ReadU16()
	if err != nil {
		return Header{}, Wrap(CodeReadError, "read_page_header", err)
	}
	return Header{
		Pageno:    pageno,
		Pad:       pad,
		Flags:     PageFlags(flags),
		FreeLower: lower,
		FreeUpper: upper,
	}, nil
}

// ReadPageHeaderWithPointers reads the header plus the node-pointer table
// that follows a leaf page's header, deriving nkeys from free_lower.
func ReadPageHeaderWithPointers(r Reader) (Header, []uint16, error) {
	hdr, err := ReadPageHeader(r)
	if err != nil {
		return Header{}, nil, err
	}
	consumed := PageHeaderSize(r.WordSize())
	if int(hdr.FreeLower) < consumed {
		return Header{}, nil, New(CodeInvalidFileFormat, "read_page_header_with_ptrs").WithPage(hdr.Pageno)
	}
	nkeys := (int(hdr.FreeLower) - consumed) / 2
	ptrs := make([]uint16, nkeys)
	for i := 0; i < nkeys; i++ {
		v, err := r.ReadU16()
		if err != nil {
			return Header{}, nil, Wrap(CodeReadError, "read_page_header_with_ptrs", err).WithPage(hdr.Pageno)
		}
		ptrs[i] = v
	}
	return hdr, ptrs, nil
}

func readSubDatabase(r Reader) (SubDatabase, error) {
	pad, err := r.ReadU32()
	if err != nil {
		return SubDatabase{}, err
	}
	flags, err := r.ReadU16()
	if err != nil {
		return SubDatabase{}, err
	}
	depth, err := r.ReadU16()
	if err != nil {
		return SubDatabase{}, err
	}
	branch, err := r.ReadWord()
	if err != nil {
		return SubDatabase{}, err
	}
	leaf, err := r.ReadWord()
	if err != nil {
		return SubDatabase{}, err
	}
	overflow, err := r.ReadWord()
	if err != nil {
		return SubDatabase{}, err
	}
	entries, err := r.ReadWord()
	if err != nil {
		return SubDatabase{}, err
	}
	root, present, err := r.ReadOptWord()
	if err != nil {
		return SubDatabase{}, err
	}
	return SubDatabase{
		Pad:           pad,
		Flags:         SubDBFlags(flags),
		Depth:         depth,
		BranchPages:   branch,
		LeafPages:     leaf,
		OverflowPages: overflow,
		Entries:       entries,
		Root:          root,
		HasRoot:       present,
	}, nil
}

func writeSubDatabase(w Writer, db SubDatabase) error {
	if err := w.WriteU32(db.Pad); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(db.Flags)); err != nil {
		return err
	}
	if err := w.WriteU16(db.Depth); err != nil {
		return err
	}
	if err := w.WriteWord(db.BranchPages); err != nil {
		return err
	}
	if err := w.WriteWord(db.LeafPages); err != nil {
		return err
	}
	if err := w.WriteWord(db.OverflowPages); err != nil {
		return err
	}
	if err := w.WriteWord(db.Entries); err != nil {
		return err
	}
	return w.WriteOptWord(db.Root, db.HasRoot)
}

// ReadMeta positions the caller at the given meta slot, validates it, and
// returns the decoded metadata.
func ReadMeta(r Reader, slot int) (Meta, error) {
	if _, err := r.Seek(int64(slot)*PageSize, io.SeekStart); err != nil {
		return Meta{}, err
	}
	hdr, err := ReadPageHeader(r)
	if err != nil {
		return Meta{}, err
	}
	if !hdr.Flags.Has(FlagMeta) {
		return Meta{}, New(CodeInvalidFileFormat, "read_meta").WithPage(uint64(slot))
	}
	magic, err := r.ReadU32()
	if err != nil {
		return Meta{}, Wrap(CodeReadError, "read_meta", err).WithPage(uint64(slot))
	}
	if magic != Magic {
		return Meta{}, New(CodeInvalidFileFormat, "read_meta").WithPage(uint64(slot))
	}
	version, err := r.ReadU32()
	if err != nil {
		return Meta{}, Wrap(CodeReadError, "read_meta", err).WithPage(uint64(slot))
	}
	if version != Version {
		return Meta{}, New(CodeVersionNotSupported, "read_meta").WithPage(uint64(slot))
	}
	address, err := r.ReadWord()
	if err != nil {
		return Meta{}, err
	}
	mapsize, err := r.ReadWord()
	if err != nil {
		return Meta{}, err
	}
	free, err := readSubDatabase(r)
	if err != nil {
		return Meta{}, Wrap(CodeReadError, "read_meta", err).WithPage(uint64(slot))
	}
	main, err := readSubDatabase(r)
	if err != nil {
		return Meta{}, Wrap(CodeReadError, "read_meta", err).WithPage(uint64(slot))
	}
	lastPgno, err := r.ReadWord()
	if err != nil {
		return Meta{}, err
	}
	txnid, err := r.ReadWord()
	if err != nil {
		return Meta{}, err
	}
	return Meta{
		Magic:    magic,
		Version:  version,
		Address:  address,
		MapSize:  mapsize,
		Free:     free,
		Main:     main,
		LastPgno: lastPgno,
		Txnid:    txnid,
	}, nil
}

// PickMeta reads both meta slots and returns the one with the higher txnid
// (ties resolve to slot 0), plus the winning slot index.
func PickMeta(r Reader) (Meta, int, error) {
	m0, err := ReadMeta(r, 0)
	if err != nil {
		return Meta{}, 0, err
	}
	m1, err := ReadMeta(r, 1)
	if err != nil {
		return Meta{}, 0, err
	}
	if m1.Txnid > m0.Txnid {
		return m1, 1, nil
	}
	return m0, 0, nil
}

// WriteMeta writes meta to the given slot, zero-filling the remainder of
// the page.
func WriteMeta(w Writer, meta Meta, slot int) error {
	start := int64(slot) * PageSize
	if _, err := w.Seek(start, io.SeekStart); err != nil {
		return err
	}
	hdr := Header{Pageno: 0, Pad: 0, Flags: FlagMeta, FreeLower: 0, FreeUpper: 0}
	if err := writePageHeader(w, hdr); err != nil {
		return Wrap(CodeWriteError, "write_meta", err).WithPage(uint64(slot))
	}
	if err := w.WriteU32(meta.Magic); err != nil {
		return err
	}
	if err := w.WriteU32(meta.Version); err != nil {
		return err
	}
	if err := w.WriteWord(meta.Address); err != nil {
		return err
	}
	if err := w.WriteWord(meta.MapSize); err != nil {
		return err
	}
	if err := writeSubDatabase(w, meta.Free); err != nil {
		return err
	}
	if err := writeSubDatabase(w, meta.Main); err != nil {
		return err
	}
	if err := w.WriteWord(meta.LastPgno); err != nil {
		return err
	}
	if err := w.WriteWord(meta.Txnid); err != nil {
		return err
	}
	return fillToPageEnd(w, start)
}

func writePageHeader(w Writer, hdr Header) error {
	if err := w.WriteWord(hdr.Pageno); err != nil {
		return err
	}
	if err := w.WriteU16(hdr.Pad); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(hdr.Flags)); err != nil {
		return err
	}
	if err := w.WriteU16(hdr.FreeLower); err != nil {
		return err
	}
	return w.WriteU16(hdr.FreeUpper)
}

func fillToPageEnd(w Writer, pageStart int64) error {
	pos, err := w.Pos()
	if err != nil {
		return err
	}
	tail := pageStart + PageSize
	if pos < tail {
		return w.WriteFill(int(tail - pos))
	}
	return nil
}

// ReadLeaf decodes the leaf page at the reader's current position, which
// must already be seeked to the page start.
func ReadLeaf(r Reader, pageno uint64) (Leaf, error) {
	hdr, ptrs, err := ReadPageHeaderWithPointers(r)
	if err != nil {
		return Leaf{}, err
	}
	// Exact equality, not Has: BRANCH/LEAF/OVERFLOW (1/2/3) are a
	// mutually-exclusive page-type code packed into the low two bits, not
	// independent bitmask flags, so an OVERFLOW page's flags value (3)
	// would otherwise also satisfy a bitwise LEAF(2) test.
	if hdr.Flags != FlagLeaf {
		return Leaf{}, New(CodeInvalidFileFormat, "read_leaf").WithPage(pageno)
	}
	pageStart := int64(pageno) * PageSize
	nodes := make([]Node, len(ptrs))
	for i, ptr := range ptrs {
		if _, err := r.Seek(pageStart+int64(ptr), io.SeekStart); err != nil {
			return Leaf{}, err
		}
		datasize, err := r.ReadU32()
		if err != nil {
			return Leaf{}, Wrap(CodeReadError, "read_leaf", err).WithPage(pageno)
		}
		flags, err := r.ReadU16()
		if err != nil {
			return Leaf{}, Wrap(CodeReadError, "read_leaf", err).WithPage(pageno)
		}
		ksize, err := r.ReadU16()
		if err != nil {
			return Leaf{}, Wrap(CodeReadError, "read_leaf", err).WithPage(pageno)
		}
		key := make([]byte, ksize)
		if err := r.ReadExact(key); err != nil {
			return Leaf{}, Wrap(CodeReadError, "read_leaf", err).WithPage(pageno)
		}
		nflags := NodeFlags(flags)
		var data NodeData
		if nflags.Has(NodeBigData) {
			ref, err := r.ReadWord()
			if err != nil {
				return Leaf{}, Wrap(CodeReadError, "read_leaf", err).WithPage(pageno)
			}
			data = NodeData{IsOverflow: true, Overflow: ref, DataSize: datasize}
		} else {
			val := make([]byte, datasize)
			if err := r.ReadExact(val); err != nil {
				return Leaf{}, Wrap(CodeReadError, "read_leaf", err).WithPage(pageno)
			}
			data = NodeData{Inline: val, DataSize: datasize}
		}
		nodes[i] = Node{Flags: nflags, Key: key, Data: data}
	}
	return Leaf{Pageno: pageno, Flags: hdr.Flags, Nodes: nodes}, nil
}

// ReadOverflow seeks past the page header at pageno and reads exactly size
// payload bytes.
func ReadOverflow(r Reader, pageno uint64, size uint32) ([]byte, error) {
	pageStart := int64(pageno) * PageSize
	if _, err := r.Seek(pageStart+int64(PageHeaderSize(r.WordSize())), io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	if err := r.ReadExact(buf); err != nil {
		return nil, Wrap(CodeReadError, "read_overflow", err).WithPage(pageno)
	}
	return buf, nil
}

// WriteOverflow writes an overflow page: header, payload, zero-fill to
// PageSize.
func WriteOverflow(w Writer, ov Overflow) error {
	start := int64(ov.Pageno) * PageSize
	if _, err := w.Seek(start, io.SeekStart); err != nil {
		return err
	}
	hdr := Header{Pageno: ov.Pageno, Pad: 0, Flags: FlagOverflow}
	if err := writePageHeader(w, hdr); err != nil {
		return Wrap(CodeWriteError, "write_overflow", err).WithPage(ov.Pageno)
	}
	if err := w.WriteExact(ov.Data); err != nil {
		return Wrap(CodeWriteError, "write_overflow", err).WithPage(ov.Pageno)
	}
	return fillToPageEnd(w, start)
}

// WriteLeaf writes leaf to its own page slot. Nodes are sorted by key
// ascending, then placed from the page tail downward in descending-key
// order so that offsets computed in placement order can simply be reversed
// to match the ascending pointer table — the layout algorithm the source
// format's writer uses.
func WriteLeaf(w Writer, leaf Leaf) error {
	start := int64(leaf.Pageno) * PageSize
	if _, err := w.Seek(start, io.SeekStart); err != nil {
		return err
	}

	nkeys := len(leaf.Nodes)
	ordered := make([]Node, nkeys)
	copy(ordered, leaf.Nodes)
	sortNodesByKey(ordered)
	reverseNodes(ordered)

	ws := w.WordSize()
	ptrs := make([]int, nkeys)
	offset := PageSize - 1
	for i, n := range ordered {
		offset -= n.Size(ws)
		ptrs[i] = offset
	}
	reverseInts(ptrs)

	hdr := Header{Pageno: leaf.Pageno, Pad: 0, Flags: FlagLeaf}
	consumed := PageHeaderSize(ws)
	freeLower := uint16(nkeys*2 + consumed)
	freeUpper := uint16(offset)
	hdr.FreeLower = freeLower
	hdr.FreeUpper = freeUpper
	if err := writePageHeader(w, hdr); err != nil {
		return Wrap(CodeWriteError, "write_leaf", err).WithPage(leaf.Pageno)
	}
	for _, p := range ptrs {
		if err := w.WriteU16(uint16(p)); err != nil {
			return Wrap(CodeWriteError, "write_leaf", err).WithPage(leaf.Pageno)
		}
	}

	pos, err := w.Pos()
	if err != nil {
		return err
	}
	gap := start + int64(freeUpper) - pos
	if gap > 0 {
		if err := w.WriteFill(int(gap)); err != nil {
			return err
		}
	}

	// ordered is descending-key; walk it in reverse (ascending key) to
	// match ptrs, which was reversed back into ascending order above.
	for i := nkeys - 1; i >= 0; i-- {
		n := ordered[i]
		bodyOffset := ptrs[nkeys-1-i]
		if _, err := w.Seek(start+int64(bodyOffset), io.SeekStart); err != nil {
			return err
		}
		if n.Data.IsOverflow {
			if err := w.WriteU32(n.Data.DataSize); err != nil {
				return err
			}
		} else {
			if err := w.WriteU32(uint32(len(n.Data.Inline))); err != nil {
				return err
			}
		}
		if err := w.WriteU16(uint16(n.Flags)); err != nil {
			return err
		}
		if err := w.WriteU16(uint16(len(n.Key))); err != nil {
			return err
		}
		if err := w.WriteExact(n.Key); err != nil {
			return err
		}
		if n.Data.IsOverflow {
			if err := w.WriteWord(n.Data.Overflow); err != nil {
				return err
			}
		} else {
			if err := w.WriteExact(n.Data.Inline); err != nil {
				return err
			}
		}
	}

	return fillToPageEnd(w, start)
}

func sortNodesByKey(nodes []Node) {
	// insertion sort: leaf node counts are small (bounded by one 4096-byte
	// page), and this keeps the comparator trivially inlined without an
	// import of sort for a handful of elements.
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && compareBytes(nodes[j].Key, nodes[j-1].Key) < 0; j-- {
			nodes[j], nodes[j-1] = nodes[j-1], nodes[j]
		}
	}
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}

func reverseNodes(nodes []Node) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}

func reverseInts(v []int) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}
