// Package deps provides the typed dependency registry handed down the node
// tree at load time.
//
// Entries are keyed by a type tag plus a context string. The generic helpers
// give compile-time typing on both sides:
//
//	store := deps.New()
//	deps.Store(store, logger)                 // *slog.Logger under "default"
//	deps.Store(store, theme, "dark")          // *Theme under "dark"
//
//	l, err := deps.Retrieve[*slog.Logger](store)
//
// A miss fails closed with errors.ErrNotFound. A key may be replaced until
// someone has retrieved it; after that it is fixed and Store returns
// errors.ErrConflict.
package deps

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/go-drift/stage/pkg/errors"
)

// DefaultContext is the context used when none is given.
const DefaultContext = "default"

// Key identifies a registry entry.
type Key struct {
	Type    reflect.Type
	Context string
}

// KeyOf returns the key for T under context, or under DefaultContext when
// context is empty.
func KeyOf[T any](context ...string) Key {
	c := DefaultContext
	if len(context) > 0 && context[0] != "" {
		c = context[0]
	}
	return Key{Type: reflect.TypeFor[T](), Context: c}
}

func (k Key) String() string {
	if k.Type == nil {
		return "<nil>/" + k.Context
	}
	return fmt.Sprintf("%s/%s", k.Type, k.Context)
}

// Registry is the store interface nodes receive from their container.
// Hosts may supply their own implementation.
type Registry interface {
	// Register stores v under key.
	Register(key Key, v any) error
	// Resolve returns the value stored under key.
	Resolve(key Key) (any, error)
}

type entry struct {
	value    any
	observed bool
}

// Container is the default Registry. It is not safe for concurrent use; the
// node tree touches it only from the frame loop.
type Container struct {
	entries map[Key]*entry
}

// New returns an empty Container.
func New() *Container {
	return &Container{entries: make(map[Key]*entry)}
}

// Register stores v under key. Replacing an entry that has already been
// resolved fails with errors.ErrConflict.
func (c *Container) Register(key Key, v any) error {
	if e, ok := c.entries[key]; ok {
		if e.observed {
			return errors.Conflict("deps.Register", key.String())
		}
		e.value = v
		return nil
	}
	c.entries[key] = &entry{value: v}
	return nil
}

// Resolve returns the value under key and marks it observed.
func (c *Container) Resolve(key Key) (any, error) {
	e, ok := c.entries[key]
	if !ok {
		return nil, errors.NotFound("deps.Resolve", key.String())
	}
	e.observed = true
	return e.value, nil
}

// Has reports whether key is registered without marking it observed.
func (c *Container) Has(key Key) bool {
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of registered entries.
func (c *Container) Len() int {
	return len(c.entries)
}

// Keys returns the registered keys sorted by their string form.
func (c *Container) Keys() []Key {
	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Store registers v under the key for T and the optional context.
func Store[T any](r Registry, v T, context ...string) error {
	if r == nil {
		return errors.InvalidOperation("deps.Store", "no registry")
	}
	return r.Register(KeyOf[T](context...), v)
}

// Retrieve resolves the entry for T and the optional context.
func Retrieve[T any](r Registry, context ...string) (T, error) {
	var zero T
	key := KeyOf[T](context...)
	if r == nil {
		return zero, errors.NotFound("deps.Retrieve", key.String())
	}
	v, err := r.Resolve(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		// A nil interface stored for an interface type T resolves to the zero value.
		if v == nil {
			return zero, nil
		}
		return zero, errors.InvalidOperation("deps.Retrieve", "entry %s holds %T", key, v)
	}
	return typed, nil
}

// MustRetrieve is like Retrieve but panics on a miss. Use it in Load hooks
// where a missing dependency is a wiring bug.
func MustRetrieve[T any](r Registry, context ...string) T {
	v, err := Retrieve[T](r, context...)
	if err != nil {
		panic(err)
	}
	return v
}
