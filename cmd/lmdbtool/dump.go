package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/sntns/lmdbtool"
)

// DumpCmd enumerates every key/value element of a database in on-disk
// order via a read cursor.
type DumpCmd struct {
	Path        string `arg:"" help:"Database path." type:"existingfile"`
	StringKey   bool   `name:"string-key" help:"Render keys as UTF-8 text instead of base64. Defaults to the config file's string_keys setting."`
	StringValue bool   `name:"string-value" help:"Render values as UTF-8 text instead of base64. Defaults to the config file's string_values setting."`
	JSON        bool   `name:"json" help:"Emit one JSON object per element instead of a plain-text line."`
}

type dumpElement struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (c *DumpCmd) Run(rc *runContext) error {
	h, err := lmdb.Open(c.Path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	cur, err := h.ReadCursor()
	if err != nil {
		return fmt.Errorf("open read cursor: %w", err)
	}
	defer cur.Close()

	// kong gives us no way to tell "flag left unset" from "flag explicitly
	// set to false" on a plain bool, so the config file's setting can only
	// turn string rendering on; a flag cannot turn it back off.
	stringKey := c.StringKey || rc.cfg.StringKeys
	stringValue := c.StringValue || rc.cfg.StringValues

	enc := json.NewEncoder(os.Stdout)
	var count int
	for {
		elem, ok, err := cur.Next()
		if err != nil {
			return fmt.Errorf("dump: %w", err)
		}
		if !ok {
			break
		}
		count++
		k := renderBytes(elem.Key, stringKey)
		v := renderBytes(elem.Value, stringValue)
		if c.JSON {
			if err := enc.Encode(dumpElement{Key: k, Value: v}); err != nil {
				return err
			}
			continue
		}
		fmt.Printf("%s\t%s\n", k, v)
	}
	rc.logger.Debug("dump complete", "path", c.Path, "elements", count)
	return nil
}

// renderBytes returns b as UTF-8 text when asString is set and b is valid
// UTF-8, otherwise as standard base64 so binary payloads remain
// round-trippable through the dump output.
func renderBytes(b []byte, asString bool) string {
	if asString && utf8.Valid(b) {
		return string(b)
	}
	return base64.StdEncoding.EncodeToString(b)
}
