package decode

import (
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"

	"github.com/yndnr/devkit/pkg/lazyconfig"
)

var errReadNotSupported = errors.New("decode: Read not supported by bytes provider, use ReadBytes() instead")

// DefaultDelim is the koanf key path delimiter.
const DefaultDelim = "."

// Koanf returns a decoder that loads each file into its own koanf instance.
// The document root must be a map.
func Koanf(delim string) lazyconfig.Decoder[*koanf.Koanf] {
	if delim == "" {
		delim = DefaultDelim
	}
	return lazyconfig.DecoderFunc[*koanf.Koanf](func(path string, data []byte) (*koanf.Koanf, error) {
		format, err := FormatOf(path)
		if err != nil {
			return nil, err
		}

		var parser koanf.Parser
		switch format {
		case FormatJSON:
			parser = json.Parser()
		default:
			parser = yaml.Parser()
		}

		k := koanf.New(delim)
		if err := k.Load(bytesProvider(data), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", format, err)
		}
		return k, nil
	})
}

// bytesProvider is a koanf provider over an in-memory document.
type bytesProvider []byte

// ReadBytes returns the raw document for the parser.
func (b bytesProvider) ReadBytes() ([]byte, error) {
	return b, nil
}

// Read is not supported; koanf calls ReadBytes when a parser is given.
func (b bytesProvider) Read() (map[string]any, error) {
	return nil, errReadNotSupported
}
