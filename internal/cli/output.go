package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Response is the JSON envelope for --format json.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type formatter struct {
	format string
	w      io.Writer
}

// emit writes data as JSON, or calls text for the human form.
func (f formatter) emit(data any, text func(io.Writer) error) error {
	if f.format == "json" {
		enc := json.NewEncoder(f.w)
		enc.SetIndent("", "  ")
		return enc.Encode(Response{Status: "ok", Data: data})
	}
	return text(f.w)
}

func (f formatter) line(format string, args ...any) {
	fmt.Fprintf(f.w, format+"\n", args...)
}
