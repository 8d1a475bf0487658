package main

import (
	"encoding/json"
	"os"
)

// printJSON writes v to stdout as indented JSON; verify's --json output
// mode uses it.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
