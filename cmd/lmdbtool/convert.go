package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sntns/lmdbtool"
)

// ConvertCmd streams every element of a source database into a
// destination, optionally changing word size. If destination is omitted or
// equal to source, it rewrites in place via a temporary file and rename.
type ConvertCmd struct {
	Source      string `arg:"" help:"Source database path." type:"existingfile"`
	Destination string `arg:"" optional:"" help:"Destination database path. Defaults to Source (rewrite in place)."`
	Format      string `name:"format" help:"Destination word size: word32 or word64. Falls back to config/env default_format, then word64."`
	RewriteNull bool   `name:"rewrite-null-values" help:"Rewrite literal value \"null\" to empty (opt-in compatibility cleanup)."`
}

func (c *ConvertCmd) Run(rc *runContext) error {
	start := time.Now()
	dest := c.Destination
	inPlace := dest == "" || dest == c.Source
	if inPlace {
		dest = c.Source
	}
	format := firstNonEmpty(c.Format, rc.cfg.DefaultFormat, "word64")
	rc.logger.Info("convert start", "source", c.Source, "destination", dest, "format", format, "in_place", inPlace)

	ws, err := parseWordSize(format)
	if err != nil {
		return err
	}

	src, err := lmdb.Open(c.Source)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}

	outPath := dest
	var tmpPath string
	if inPlace {
		tmpPath = dest + "." + uuid.NewString() + ".tmp"
		outPath = tmpPath
	}

	dst, err := lmdb.Create(outPath, ws)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	opts := lmdb.ConvertOptions{RewriteNullValues: c.RewriteNull}
	if err := lmdb.Convert(src, dst, opts); err != nil {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
		return fmt.Errorf("convert: %w", err)
	}

	if tmpPath != "" {
		if err := os.Rename(tmpPath, dest); err != nil {
			return fmt.Errorf("rename temporary file into place: %w", err)
		}
	}

	rc.logger.Info("convert done", "destination", dest, "duration", time.Since(start))
	fmt.Printf("converted %s -> %s (%s)\n", c.Source, dest, format)
	return nil
}

func parseWordSize(s string) (lmdb.WordSize, error) {
	switch s {
	case "word32":
		return lmdb.Word32, nil
	case "word64":
		return lmdb.Word64, nil
	default:
		return 0, fmt.Errorf("unrecognized format %q (want word32 or word64)", s)
	}
}
