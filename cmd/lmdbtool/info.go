package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/sntns/lmdbtool"
)

// InfoCmd prints a database's word size and current metadata snapshot
// without walking any leaf pages.
type InfoCmd struct {
	Path string `arg:"" help:"Database path." type:"existingfile"`
	JSON bool   `name:"json" help:"Emit a JSON object instead of plain text."`
}

type infoOutput struct {
	WordSize      int    `json:"word_size"`
	Root          uint64 `json:"root,omitempty"`
	HasRoot       bool   `json:"has_root"`
	LastPgno      uint64 `json:"last_pgno"`
	Depth         uint16 `json:"depth"`
	Entries       uint64 `json:"entries"`
	LeafPages     uint64 `json:"leaf_pages"`
	BranchPages   uint64 `json:"branch_pages"`
	OverflowPages uint64 `json:"overflow_pages"`
}

func (c *InfoCmd) Run(rc *runContext) error {
	h, err := lmdb.Open(c.Path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	meta := h.Meta()

	out := infoOutput{
		WordSize:      int(h.WordSize()),
		Root:          meta.Root,
		HasRoot:       meta.HasRoot,
		LastPgno:      meta.LastPgno,
		Depth:         meta.Depth,
		Entries:       meta.Entries,
		LeafPages:     meta.LeafPages,
		BranchPages:   meta.BranchPages,
		OverflowPages: meta.OverflowPages,
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	approxSize := (meta.LeafPages + meta.BranchPages + meta.OverflowPages + 2) * lmdb.PageSize
	fmt.Printf("word size:       %d bytes\n", out.WordSize)
	fmt.Printf("root page:       %s\n", rootString(meta))
	fmt.Printf("last page:       %d\n", out.LastPgno)
	fmt.Printf("depth:           %d\n", out.Depth)
	fmt.Printf("entries:         %d\n", out.Entries)
	fmt.Printf("leaf pages:      %d\n", out.LeafPages)
	fmt.Printf("branch pages:    %d\n", out.BranchPages)
	fmt.Printf("overflow pages:  %d\n", out.OverflowPages)
	fmt.Printf("approx. size:    %s\n", humanize.Bytes(approxSize))
	return nil
}

func rootString(meta lmdb.MetaSnapshot) string {
	if !meta.HasRoot {
		return "(absent)"
	}
	return fmt.Sprintf("%d", meta.Root)
}
