package lmdb

import "testing"

func TestVerifyOnWellFormedDatabase(t *testing.T) {
	path := tempDBPath(t, "verify-ok.db")
	h, err := Create(path, Word64)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	wc, err := h.WriteCursor()
	if err != nil {
		t.Fatalf("WriteCursor: %v", err)
	}
	for _, e := range []Element{
		{Key: []byte("x"), Value: []byte("1")},
		{Key: []byte("y"), Value: []byte("2")},
	} {
		if err := wc.PushElement(e); err != nil {
			t.Fatalf("PushElement: %v", err)
		}
	}
	if err := wc.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	wc.Close()

	rh, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	report, err := Verify(rh)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Entries != 2 {
		t.Fatalf("report.Entries = %d, want 2", report.Entries)
	}
	if report.WordSize != Word64 {
		t.Fatalf("report.WordSize = %d, want Word64", report.WordSize)
	}
	if report.String() == "" {
		t.Fatalf("report.String() is empty")
	}
}

func TestVerifyOnEmptyDatabase(t *testing.T) {
	path := tempDBPath(t, "verify-empty.db")
	h, err := Create(path, Word64)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	wc, err := h.WriteCursor()
	if err != nil {
		t.Fatalf("WriteCursor: %v", err)
	}
	if err := wc.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	wc.Close()

	rh, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	report, err := Verify(rh)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Entries != 0 {
		t.Fatalf("report.Entries = %d, want 0", report.Entries)
	}
}
