// Package construct instantiates registered types and zero-argument
// constructors by name, for wiring code that runs without a container.
package construct

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var (
	// ErrNotFound is returned for names that were never registered.
	ErrNotFound = errors.New("type not found")

	// ErrNotInstantiable is returned for interface, func, chan and
	// unsafe pointer types.
	ErrNotInstantiable = errors.New("type is not instantiable")

	// ErrRequiresArgs is returned for constructors with required parameters.
	ErrRequiresArgs = errors.New("constructor requires parameters")

	// ErrInvalidConstructor is returned by Register for funcs that return
	// nothing, or more than a value and an error.
	ErrInvalidConstructor = errors.New("invalid constructor signature")
)

var errorType = reflect.TypeFor[error]()

type target struct {
	typ  reflect.Type  // set for registered types
	ctor reflect.Value // set for registered constructors
}

// Registry maps names to types or constructors. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]target
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]target)}
}

// Register binds name to v. v may be a reflect.Type, a constructor func
// returning T or (T, error), or any other value whose dynamic type is
// registered. Registering a name again replaces it.
func (r *Registry) Register(name string, v any) error {
	if name == "" {
		return errors.New("register: empty name")
	}
	if v == nil {
		return fmt.Errorf("register %q: nil value", name)
	}

	var t target
	switch x := v.(type) {
	case reflect.Type:
		t.typ = x
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Func {
			if err := checkConstructor(rv.Type()); err != nil {
				return fmt.Errorf("register %q: %w", name, err)
			}
			t.ctor = rv
		} else {
			t.typ = rv.Type()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets[name] = t
	return nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate builds a new value for name. Types yield a pointer to a
// fresh zero value (a pointer type yields a pointer to a fresh element).
// Constructors are called.
func (r *Registry) Instantiate(name string) (any, error) {
	r.mu.RLock()
	t, ok := r.targets[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cannot instantiate %q: %w", name, ErrNotFound)
	}

	if t.ctor.IsValid() {
		return call(name, t.ctor)
	}
	return instantiate(name, t.typ)
}

// New returns a pointer to a fresh zero T.
func New[T any]() (*T, error) {
	typ := reflect.TypeFor[T]()
	if !instantiable(typ) {
		return nil, fmt.Errorf("cannot instantiate %s: %w", typ, ErrNotInstantiable)
	}
	return new(T), nil
}

func instantiable(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return false
	}
	return true
}

func instantiate(name string, typ reflect.Type) (any, error) {
	if !instantiable(typ) {
		return nil, fmt.Errorf("cannot instantiate %q (%s): %w", name, typ, ErrNotInstantiable)
	}
	if typ.Kind() == reflect.Pointer {
		elem := typ.Elem()
		if !instantiable(elem) {
			return nil, fmt.Errorf("cannot instantiate %q (%s): %w", name, typ, ErrNotInstantiable)
		}
		return reflect.New(elem).Interface(), nil
	}
	return reflect.New(typ).Interface(), nil
}

func checkConstructor(ft reflect.Type) error {
	switch ft.NumOut() {
	case 1:
		return nil
	case 2:
		if ft.Out(1) == errorType {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConstructor, ft)
}

func requiredParams(ft reflect.Type) int {
	n := ft.NumIn()
	if ft.IsVariadic() {
		n--
	}
	return n
}

func call(name string, ctor reflect.Value) (any, error) {
	ft := ctor.Type()
	if n := requiredParams(ft); n > 0 {
		return nil, fmt.Errorf("cannot instantiate %q: constructor defines %d required parameter(s): %w",
			name, n, ErrRequiresArgs)
	}

	out := ctor.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, fmt.Errorf("construct %q: %w", name, out[1].Interface().(error))
	}
	return out[0].Interface(), nil
}
