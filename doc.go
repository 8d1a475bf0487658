// Package lmdb reads and writes the on-disk page format used by a class of
// memory-mapped key-value stores: fixed 4096-byte pages, a two-meta
// shadow-commit scheme, and leaf pages whose node pointer table grows from
// the header while node bodies grow from the page tail. It supports both
// 32-bit and 64-bit pointer-word variants of the format and can convert
// between them.
//
// This package only understands files whose main database is a run of leaf
// pages in ascending page order, possibly with overflow pages between them:
// no branch pages, no free-page reclamation list, no duplicate-key
// subtrees, no concurrent writers.
//
// Basic usage:
//
//	h, err := lmdb.Create("/path/to/db", lmdb.Word64)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cur, err := h.WriteCursor()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cur.PushElement(lmdb.Element{Key: []byte("k"), Value: []byte("v")}); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cur.Commit(); err != nil {
//	    log.Fatal(err)
//	}
//	cur.Close()
//
//	h2, err := lmdb.Open("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rc, err := h2.ReadCursor()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    elem, ok, err := rc.Next()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if !ok {
//	        break
//	    }
//	    fmt.Printf("%s = %s\n", elem.Key, elem.Value)
//	}
package lmdb
