package command

import (
	"fmt"

	"github.com/yndnr/devkit/pkg/construct"
	"github.com/yndnr/devkit/pkg/lazyconfig"
	"github.com/yndnr/devkit/pkg/lazyconfig/decode"
)

// decoders maps the settings "decoder" names to decoder constructors.
var decoders = newDecoderRegistry()

func newDecoderRegistry() *construct.Registry {
	r := construct.NewRegistry()
	mustRegister(r, "document", decode.Document)
	mustRegister(r, "koanf", koanfDecoder)
	mustRegister(r, "raw", rawDecoder)
	return r
}

func mustRegister(r *construct.Registry, name string, ctor any) {
	if err := r.Register(name, ctor); err != nil {
		panic(err)
	}
}

// koanfDecoder flattens each file through koanf so keys are reported by
// their full dotted path.
func koanfDecoder() lazyconfig.Decoder[any] {
	dec := decode.Koanf(decode.DefaultDelim)
	return lazyconfig.DecoderFunc[any](func(path string, data []byte) (any, error) {
		k, err := dec.Decode(path, data)
		if err != nil {
			return nil, err
		}
		return k.All(), nil
	})
}

func rawDecoder() lazyconfig.Decoder[any] {
	dec := decode.Raw()
	return lazyconfig.DecoderFunc[any](func(path string, data []byte) (any, error) {
		b, err := dec.Decode(path, data)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	})
}

func newDecoder(name string) (lazyconfig.Decoder[any], error) {
	v, err := decoders.Instantiate(name)
	if err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}
	dec, ok := v.(lazyconfig.Decoder[any])
	if !ok {
		return nil, fmt.Errorf("decoder %q: unexpected type %T", name, v)
	}
	return dec, nil
}

// Loader builds a loader over the configured groups.
func (e *Env) Loader() (*lazyconfig.Loader[any], error) {
	table, err := e.Config.Table()
	if err != nil {
		return nil, err
	}
	dec, err := newDecoder(e.Config.Decoder)
	if err != nil {
		return nil, err
	}
	return lazyconfig.New(table, dec,
		lazyconfig.WithLogger(e.Logger.Slog()),
		lazyconfig.WithObserver(e.Metrics),
	), nil
}

// collection resolves label, or every entry when label is empty.
func collection(l *lazyconfig.Loader[any], label string) (*lazyconfig.Collection[any], error) {
	if label == "" {
		return l.LoadAll(), nil
	}
	return l.Load(label)
}
