package lmdb

import (
	"bytes"
	"testing"
)

func TestWriteMetaReadMetaRoundTrip(t *testing.T) {
	for _, ws := range []WordSize{Word32, Word64} {
		buf := &seekBuffer{}
		w := NewWriter(buf, ws)
		meta := Meta{
			Magic:   Magic,
			Version: Version,
			MapSize: 1 << 20,
			Free:    SubDatabase{Flags: SubDBIntegerKey},
			Main: SubDatabase{
				Depth:     1,
				LeafPages: 3,
				Entries:   10,
				Root:      2,
				HasRoot:   true,
			},
			LastPgno: 4,
			Txnid:    1,
		}
		if err := WriteMeta(w, meta, 0); err != nil {
			t.Fatalf("WriteMeta(ws=%d): %v", ws, err)
		}
		r := NewReader(buf, ws)
		got, err := ReadMeta(r, 0)
		if err != nil {
			t.Fatalf("ReadMeta(ws=%d): %v", ws, err)
		}
		if got.Magic != Magic || got.Version != Version || got.Txnid != 1 {
			t.Fatalf("ReadMeta(ws=%d) header mismatch: %+v", ws, got)
		}
		if !got.Main.HasRoot || got.Main.Root != 2 || got.Main.Entries != 10 || got.Main.LeafPages != 3 {
			t.Fatalf("ReadMeta(ws=%d) main mismatch: %+v", ws, got.Main)
		}
	}
}

func TestReadMetaRejectsBadMagic(t *testing.T) {
	buf := &seekBuffer{}
	w := NewWriter(buf, Word64)
	meta := Meta{Magic: 0xBAD, Version: Version}
	if err := WriteMeta(w, meta, 0); err != nil {
		t.Fatalf("WriteMeta: %v", err)
	}
	r := NewReader(buf, Word64)
	_, err := ReadMeta(r, 0)
	if !IsInvalidFormat(err) {
		t.Fatalf("ReadMeta with bad magic: got %v, want InvalidFileFormat", err)
	}
}

func TestReadMetaRejectsUnsupportedVersion(t *testing.T) {
	buf := &seekBuffer{}
	w := NewWriter(buf, Word64)
	meta := Meta{Magic: Magic, Version: Version + 1}
	if err := WriteMeta(w, meta, 0); err != nil {
		t.Fatalf("WriteMeta: %v", err)
	}
	r := NewReader(buf, Word64)
	_, err := ReadMeta(r, 0)
	if !IsVersionNotSupported(err) {
		t.Fatalf("ReadMeta with future version: got %v, want VersionNotSupported", err)
	}
}

func TestPickMetaPrefersHigherTxnidAndTiesToSlotZero(t *testing.T) {
	buf := &seekBuffer{}
	w := NewWriter(buf, Word64)
	low := Meta{Magic: Magic, Version: Version, Txnid: 1}
	high := Meta{Magic: Magic, Version: Version, Txnid: 2}
	if err := WriteMeta(w, low, 0); err != nil {
		t.Fatalf("WriteMeta(0): %v", err)
	}
	if err := WriteMeta(w, high, 1); err != nil {
		t.Fatalf("WriteMeta(1): %v", err)
	}
	r := NewReader(buf, Word64)
	got, slot, err := PickMeta(r)
	if err != nil {
		t.Fatalf("PickMeta: %v", err)
	}
	if slot != 1 || got.Txnid != 2 {
		t.Fatalf("PickMeta = (txnid=%d, slot=%d), want (2, 1)", got.Txnid, slot)
	}

	buf2 := &seekBuffer{}
	w2 := NewWriter(buf2, Word64)
	tie := Meta{Magic: Magic, Version: Version, Txnid: 5}
	if err := WriteMeta(w2, tie, 0); err != nil {
		t.Fatalf("WriteMeta(0): %v", err)
	}
	if err := WriteMeta(w2, tie, 1); err != nil {
		t.Fatalf("WriteMeta(1): %v", err)
	}
	r2 := NewReader(buf2, Word64)
	_, slot2, err := PickMeta(r2)
	if err != nil {
		t.Fatalf("PickMeta: %v", err)
	}
	if slot2 != 0 {
		t.Fatalf("PickMeta tie broke to slot %d, want 0", slot2)
	}
}

func TestWriteLeafReadLeafRoundTrip(t *testing.T) {
	for _, ws := range []WordSize{Word32, Word64} {
		buf := &seekBuffer{}
		w := NewWriter(buf, ws)
		leaf := Leaf{
			Pageno: 2,
			Flags:  FlagLeaf,
			Nodes: []Node{
				{Key: []byte("banana"), Data: NodeData{Inline: []byte("yellow")}},
				{Key: []byte("apple"), Data: NodeData{Inline: []byte("red")}},
				{Key: []byte("cherry"), Data: NodeData{Inline: []byte("dark red")}},
			},
		}
		if err := WriteLeaf(w, leaf); err != nil {
			t.Fatalf("WriteLeaf(ws=%d): %v", ws, err)
		}

		r := NewReader(buf, ws)
		if _, err := r.Seek(int64(leaf.Pageno)*PageSize, 0); err != nil {
			t.Fatalf("Seek: %v", err)
		}
		got, err := ReadLeaf(r, leaf.Pageno)
		if err != nil {
			t.Fatalf("ReadLeaf(ws=%d): %v", ws, err)
		}
		if len(got.Nodes) != 3 {
			t.Fatalf("ReadLeaf(ws=%d) nodes = %d, want 3", ws, len(got.Nodes))
		}
		// Pointer table must yield nodes in ascending key order.
		wantKeys := []string{"apple", "banana", "cherry"}
		for i, k := range wantKeys {
			if !bytes.Equal(got.Nodes[i].Key, []byte(k)) {
				t.Fatalf("ReadLeaf(ws=%d) node[%d].Key = %q, want %q", ws, i, got.Nodes[i].Key, k)
			}
		}
	}
}

func TestWriteOverflowReadOverflowRoundTrip(t *testing.T) {
	buf := &seekBuffer{}
	w := NewWriter(buf, Word64)
	payload := bytes.Repeat([]byte("x"), 3000)
	if err := WriteOverflow(w, Overflow{Pageno: 2, Data: payload}); err != nil {
		t.Fatalf("WriteOverflow: %v", err)
	}
	r := NewReader(buf, Word64)
	got, err := ReadOverflow(r, 2, uint32(len(payload)))
	if err != nil {
		t.Fatalf("ReadOverflow: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("ReadOverflow returned %d bytes, want %d matching bytes", len(got), len(payload))
	}
}
