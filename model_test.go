package lmdb

import "testing"

func TestNodeSizeInline(t *testing.T) {
	n := Node{Key: []byte("abc"), Data: NodeData{Inline: []byte("hello")}}
	want := 4 + 2 + 2 + 3 + 5
	if got := n.Size(Word64); got != want {
		t.Fatalf("Size(Word64) = %d, want %d", got, want)
	}
	if got := n.Size(Word32); got != want {
		t.Fatalf("Size(Word32) = %d, want %d (inline size is word-size independent)", got, want)
	}
}

func TestNodeSizeOverflow(t *testing.T) {
	n := Node{Key: []byte("k"), Data: NodeData{IsOverflow: true, Overflow: 9, DataSize: 99999}}
	if got, want := n.Size(Word32), 4+2+2+1+4; got != want {
		t.Fatalf("Size(Word32) = %d, want %d", got, want)
	}
	if got, want := n.Size(Word64), 4+2+2+1+8; got != want {
		t.Fatalf("Size(Word64) = %d, want %d", got, want)
	}
}

func TestMetaCloneIsIndependent(t *testing.T) {
	m := Meta{Txnid: 1, Main: SubDatabase{Entries: 3}}
	clone := m.Clone()
	clone.Txnid = 2
	clone.Main.Entries = 7
	if m.Txnid != 1 || m.Main.Entries != 3 {
		t.Fatalf("mutating clone affected original: %+v", m)
	}
}
