// Package decode provides lazyconfig decoders for common file formats.
//
//   - Document: YAML/JSON into an opaque value (maps, lists, scalars, nil)
//   - Koanf: YAML/JSON maps into a koanf instance with typed getters
//   - Raw: the file bytes unchanged
package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/devkit/pkg/lazyconfig"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles.
var ErrUnsupportedFormat = lazyconfig.NewError("CFG-DEC-4150", "unsupported config format")

// Format is a file format recognized by extension.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf returns the format for path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", ErrUnsupportedFormat.WithDetails(path)
	}
}

// Document returns a decoder producing any value a YAML or JSON document
// can hold. An empty document decodes to nil.
func Document() lazyconfig.Decoder[any] {
	return lazyconfig.DecoderFunc[any](decodeDocument)
}

func decodeDocument(path string, data []byte) (any, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	var v any
	switch format {
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
	default:
		if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
	}
	return v, nil
}

// Raw returns a decoder that yields the file bytes.
func Raw() lazyconfig.Decoder[[]byte] {
	return lazyconfig.DecoderFunc[[]byte](func(_ string, data []byte) ([]byte, error) {
		return data, nil
	})
}
