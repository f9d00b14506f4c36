package io

import (
	"encoding/json"
	"io"
)

// WriteJSON writes value as JSON indented by two spaces.
func WriteJSON(w io.Writer, value any) (err error) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err = enc.Encode(value)
	return
}
