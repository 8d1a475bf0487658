package lmdb

import (
	"bytes"
	"testing"
)

func TestConvertPreservesElementsAcrossWordSizes(t *testing.T) {
	srcPath := tempDBPath(t, "src.db")
	srcH, err := Create(srcPath, Word32)
	if err != nil {
		t.Fatalf("Create(src): %v", err)
	}
	wc, err := srcH.WriteCursor()
	if err != nil {
		t.Fatalf("WriteCursor: %v", err)
	}
	elems := []Element{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
	}
	for _, e := range elems {
		if err := wc.PushElement(e); err != nil {
			t.Fatalf("PushElement: %v", err)
		}
	}
	if err := wc.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	wc.Close()

	src, err := Open(srcPath)
	if err != nil {
		t.Fatalf("Open(src): %v", err)
	}
	dstPath := tempDBPath(t, "dst.db")
	dst, err := Create(dstPath, Word64)
	if err != nil {
		t.Fatalf("Create(dst): %v", err)
	}
	if err := Convert(src, dst, ConvertOptions{}); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	out, err := Open(dstPath)
	if err != nil {
		t.Fatalf("Open(dst): %v", err)
	}
	if out.WordSize() != Word64 {
		t.Fatalf("converted WordSize = %d, want Word64", out.WordSize())
	}
	cur, err := out.ReadCursor()
	if err != nil {
		t.Fatalf("ReadCursor: %v", err)
	}
	defer cur.Close()
	var got []Element
	for {
		e, ok, err := cur.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, e)
	}
	if len(got) != len(elems) {
		t.Fatalf("got %d elements, want %d", len(got), len(elems))
	}
	for i, e := range got {
		if !bytes.Equal(e.Key, elems[i].Key) || !bytes.Equal(e.Value, elems[i].Value) {
			t.Fatalf("element[%d] = %q/%q, want %q/%q", i, e.Key, e.Value, elems[i].Key, elems[i].Value)
		}
	}
}

func TestConvertRewritesNullValuesWhenOptedIn(t *testing.T) {
	srcPath := tempDBPath(t, "src-null.db")
	srcH, err := Create(srcPath, Word64)
	if err != nil {
		t.Fatalf("Create(src): %v", err)
	}
	wc, err := srcH.WriteCursor()
	if err != nil {
		t.Fatalf("WriteCursor: %v", err)
	}
	if err := wc.PushElement(Element{Key: []byte("k"), Value: []byte("null")}); err != nil {
		t.Fatalf("PushElement: %v", err)
	}
	if err := wc.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	wc.Close()

	src, err := Open(srcPath)
	if err != nil {
		t.Fatalf("Open(src): %v", err)
	}
	dstPath := tempDBPath(t, "dst-null.db")
	dst, err := Create(dstPath, Word64)
	if err != nil {
		t.Fatalf("Create(dst): %v", err)
	}
	if err := Convert(src, dst, ConvertOptions{RewriteNullValues: true}); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	out, err := Open(dstPath)
	if err != nil {
		t.Fatalf("Open(dst): %v", err)
	}
	cur, err := out.ReadCursor()
	if err != nil {
		t.Fatalf("ReadCursor: %v", err)
	}
	defer cur.Close()
	e, ok, err := cur.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if len(e.Value) != 0 {
		t.Fatalf("value = %q, want empty after null rewrite", e.Value)
	}
}

func TestConvertLeavesNullValuesAloneByDefault(t *testing.T) {
	srcPath := tempDBPath(t, "src-null2.db")
	srcH, err := Create(srcPath, Word64)
	if err != nil {
		t.Fatalf("Create(src): %v", err)
	}
	wc, err := srcH.WriteCursor()
	if err != nil {
		t.Fatalf("WriteCursor: %v", err)
	}
	if err := wc.PushElement(Element{Key: []byte("k"), Value: []byte("null")}); err != nil {
		t.Fatalf("PushElement: %v", err)
	}
	if err := wc.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	wc.Close()

	src, err := Open(srcPath)
	if err != nil {
		t.Fatalf("Open(src): %v", err)
	}
	dstPath := tempDBPath(t, "dst-null2.db")
	dst, err := Create(dstPath, Word64)
	if err != nil {
		t.Fatalf("Create(dst): %v", err)
	}
	if err := Convert(src, dst, ConvertOptions{}); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	out, err := Open(dstPath)
	if err != nil {
		t.Fatalf("Open(dst): %v", err)
	}
	cur, err := out.ReadCursor()
	if err != nil {
		t.Fatalf("ReadCursor: %v", err)
	}
	defer cur.Close()
	e, ok, err := cur.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if string(e.Value) != "null" {
		t.Fatalf("value = %q, want literal \"null\" preserved by default", e.Value)
	}
}
