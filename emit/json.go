package emit

import (
	"encoding/json"
	"io"
)

// JSON writes the binding list as indented JSON.
type JSON struct{}

func (JSON) Emit(w io.Writer, file File) error {
	return encodeJSON(w, file)
}

// EmitAll writes files as a single JSON array.
func (JSON) EmitAll(w io.Writer, files []File) error {
	if files == nil {
		files = []File{}
	}
	return encodeJSON(w, files)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
