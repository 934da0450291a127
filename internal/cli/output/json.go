package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes indented JSON. Config values are printed verbatim, so
// characters like <, > and & are not HTML-escaped.
type JSONFormatter struct {
	Indent string
}

func (f *JSONFormatter) Format(w io.Writer, data any) error {
	indent := f.Indent
	if indent == "" {
		indent = "  "
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	return enc.Encode(data)
}
