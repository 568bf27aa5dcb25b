package meta

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/goccy/go-yaml"
)

// Descriptor is the identifier metadata of one type. An empty Identifier
// means the type has no identifier field.
type Descriptor struct {
	Type       string
	Identifier string
}

func (d Descriptor) HasIdentifier() bool {
	return d.Identifier != ""
}

func Key(typ, field string) Descriptor {
	return Descriptor{Type: typ, Identifier: field}
}

func NoKey(typ string) Descriptor {
	return Descriptor{Type: typ}
}

// Describer supplies descriptors. The boolean result is false for a type
// that was never described.
type Describer interface {
	DescribeType(typ string) (Descriptor, bool)
}

// DescriberFunc adapts a function to a Describer.
type DescriberFunc func(typ string) (Descriptor, bool)

func (f DescriberFunc) DescribeType(typ string) (Descriptor, bool) {
	return f(typ)
}

// Table is a Describer backed by an explicit, caller supplied set of
// descriptors. It is safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	types map[string]Descriptor
}

func NewTable(ds ...Descriptor) *Table {
	t := &Table{types: make(map[string]Descriptor, len(ds))}
	for _, d := range ds {
		t.types[d.Type] = d
	}
	return t
}

// Describe adds or replaces the descriptor for typ.
func (t *Table) Describe(typ, identifier string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.types[typ] = Descriptor{Type: typ, Identifier: identifier}
}

func (t *Table) DescribeType(typ string) (Descriptor, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.types[typ]
	return d, ok
}

// Types returns the described type names, sorted.
func (t *Table) Types() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.types))
}

type tableFile struct {
	Types map[string]string `yaml:"types"`
}

// LoadTable reads a descriptor table in YAML form:
//
//	types:
//	  Product: _key
//	  Settings: ""
//
// A type mapped to the empty string or to null is described without an
// identifier.
func LoadTable(r io.Reader) (*Table, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	tf := &tableFile{}
	if err := yaml.UnmarshalWithOptions(d, tf, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("error decoding descriptor table: %w", err)
	}
	t := NewTable()
	for typ, id := range tf.Types {
		t.types[typ] = Descriptor{Type: typ, Identifier: id}
	}
	return t, nil
}
