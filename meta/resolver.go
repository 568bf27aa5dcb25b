package meta

import (
	"sync"

	"github.com/signadot/doctrack/debug"
)

// Resolver resolves identifier fields through a Describer, caching each
// type's descriptor after its first successful resolution. Types which are
// not described are not cached, so describing them later takes effect.
type Resolver struct {
	src   Describer
	cache sync.Map // string -> Descriptor
}

func NewResolver(src Describer) *Resolver {
	return &Resolver{src: src}
}

// ResolveIdentifierField returns the identifier field of typ, or "" if typ
// is described without one. It fails with ErrMissingTypeMetadata when typ
// was never described.
func (r *Resolver) ResolveIdentifierField(typ string) (string, error) {
	d, err := r.Resolve(typ)
	if err != nil {
		return "", err
	}
	return d.Identifier, nil
}

func (r *Resolver) Resolve(typ string) (Descriptor, error) {
	if v, ok := r.cache.Load(typ); ok {
		return v.(Descriptor), nil
	}
	d, ok := r.src.DescribeType(typ)
	if !ok {
		if debug.Resolve() {
			debug.Logf("resolve %q: no descriptor\n", typ)
		}
		return Descriptor{}, &MissingTypeError{Type: typ}
	}
	d.Type = typ
	v, _ := r.cache.LoadOrStore(typ, d)
	if debug.Resolve() {
		debug.Logf("resolve %q: identifier %q\n", typ, v.(Descriptor).Identifier)
	}
	return v.(Descriptor), nil
}

// Forget drops the cached descriptor of typ.
func (r *Resolver) Forget(typ string) {
	r.cache.Delete(typ)
}
