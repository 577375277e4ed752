package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/odev-tools/addonctx"
)

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputBundle writes the bundle in the selected format. Text output uses the
// same "File: <path>" framing as the LLM prompt, so the bundle can be piped
// straight into other tools.
func outputBundle(b *addonctx.Bundle) error {
	if flagFormat == "json" {
		return outputJSON(b.Artifacts())
	}
	for _, a := range b.Artifacts() {
		fmt.Fprintf(os.Stdout, "File: %s\n", a.Path)
		fmt.Fprint(os.Stdout, a.Content)
		if !strings.HasSuffix(a.Content, "\n") {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
