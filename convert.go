package lmdb

import (
	"bytes"
)

// nullLiteral is the four-byte value convert can optionally rewrite to
// empty; see ConvertOptions.RewriteNullValues.
var nullLiteral = []byte("null")

// ConvertOptions configures Convert.
type ConvertOptions struct {
	// RewriteNullValues, when true, replaces any value exactly equal to
	// the literal bytes "null" with an empty value. This reproduces a
	// domain-specific cleanup from an upstream producer; it is opt-in
	// because it silently discards data that happens to look like the
	// text "null" (spec §9).
	RewriteNullValues bool
}

// Convert streams every element from a read cursor on src into a write
// cursor on dst, committing once at the end. src and dst may use different
// word sizes; Convert transforms no data other than the optional null
// rewrite, re-encoding widths as required by dst's handle.
func Convert(src *Handle, dst *Handle, opts ConvertOptions) error {
	rc, err := src.ReadCursor()
	if err != nil {
		return err
	}
	defer rc.Close()

	wc, err := dst.WriteCursor()
	if err != nil {
		return err
	}
	defer wc.Close()

	for {
		elem, ok, err := rc.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if opts.RewriteNullValues && bytes.Equal(elem.Value, nullLiteral) {
			elem.Value = []byte{}
		}
		if err := wc.PushElement(elem); err != nil {
			return err
		}
	}
	return wc.Commit()
}
