package serial

import "reflect"

// Typed is implemented by entities which name their own document type.
type Typed interface {
	DocumentType() string
}

// TypeNamer names the document type of an entity.
type TypeNamer func(v any) string

// TypeName returns the document type of v: the result of DocumentType when
// v implements Typed, otherwise the name of v's type with pointers removed.
// A nil pointer is named by its type. It returns "" for nil and for
// unnamed types.
func TypeName(v any) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	nilPtr := rv.Kind() == reflect.Pointer && rv.IsNil()
	if t, ok := v.(Typed); ok && !nilPtr {
		return t.DocumentType()
	}
	typ := rv.Type()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ.Name()
}
