package serial

import (
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/signadot/doctrack/snap"
)

// Serializer produces snapshots of entities.
type Serializer interface {
	Serialize(v any) (*snap.Node, error)
}

// Func adapts a function to a Serializer.
type Func func(v any) (*snap.Node, error)

func (f Func) Serialize(v any) (*snap.Node, error) {
	return f(v)
}

// Default is the reflection based Serializer.
var Default Serializer = Func(Serialize)

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

// visitKey identifies a reference being converted. The type is part of the
// key since a struct and its first field share an address.
type visitKey struct {
	addr uintptr
	typ  reflect.Type
}

// enter records val as being converted at fieldPath, failing if it already
// is. The returned func must be called once val is done.
func enter(val reflect.Value, fieldPath string, visited map[visitKey]string) (func(), error) {
	key := visitKey{addr: val.Pointer(), typ: val.Type()}
	if prevPath, seen := visited[key]; seen {
		return nil, cycleError(fieldPath, prevPath)
	}
	visited[key] = fieldPath
	return func() { delete(visited, key) }, nil
}

// Serialize converts a Go value to a snapshot.
func Serialize(v any) (*snap.Node, error) {
	if v == nil {
		return snap.Null(), nil
	}
	visited := make(map[visitKey]string)
	return toNode(reflect.ValueOf(v), "", visited)
}

// toNode converts a reflect.Value to a node.
// fieldPath is used for error reporting (e.g., "Category.Seller").
// visited tracks reference addresses to detect circular references.
func toNode(val reflect.Value, fieldPath string, visited map[visitKey]string) (*snap.Node, error) {
	if !val.IsValid() {
		return snap.Null(), nil
	}
	typ := val.Type()
	kind := typ.Kind()

	if kind == reflect.Pointer {
		if val.IsNil() {
			return snap.Null(), nil
		}
		if typ.Implements(textMarshalerType) {
			return marshalText(val, fieldPath)
		}
		leave, err := enter(val, fieldPath, visited)
		if err != nil {
			return nil, err
		}
		// the same pointer may appear in different branches
		defer leave()
		return toNode(val.Elem(), fieldPath, visited)
	}

	if kind == reflect.Interface {
		if val.IsNil() {
			return snap.Null(), nil
		}
		return toNode(val.Elem(), fieldPath, visited)
	}

	if typ.Implements(textMarshalerType) {
		return marshalText(val, fieldPath)
	}
	if val.CanAddr() && reflect.PointerTo(typ).Implements(textMarshalerType) {
		return marshalText(val.Addr(), fieldPath)
	}

	switch kind {
	case reflect.String:
		return snap.FromString(val.String()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return snap.FromInt(val.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := val.Uint()
		if u > 1<<63-1 {
			return snap.FromNumber(fmt.Sprint(u)), nil
		}
		return snap.FromInt(int64(u)), nil

	case reflect.Float32, reflect.Float64:
		return snap.FromFloat(val.Float()), nil

	case reflect.Bool:
		return snap.FromBool(val.Bool()), nil

	case reflect.Slice, reflect.Array:
		return sliceToNode(val, fieldPath, visited)

	case reflect.Map:
		return mapToNode(val, fieldPath, visited)

	case reflect.Struct:
		return structToNode(val, fieldPath, visited)
	}
	return nil, &MarshalError{
		FieldPath: fieldPath,
		Message:   fmt.Sprintf("unsupported type: %s", typ),
	}
}

func marshalText(val reflect.Value, fieldPath string) (*snap.Node, error) {
	if !val.CanInterface() {
		return nil, &MarshalError{FieldPath: fieldPath, Message: "text marshaler reached through an unexported field"}
	}
	text, err := val.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return nil, &MarshalError{FieldPath: fieldPath, Message: "MarshalText failed", Err: err}
	}
	return snap.FromString(string(text)), nil
}

func cycleError(fieldPath, prevPath string) error {
	return &MarshalError{
		FieldPath: fieldPath,
		Message:   fmt.Sprintf("circular reference detected: %s -> %s (previously seen at %s)", prevPath, fieldPath, prevPath),
	}
}

func sliceToNode(val reflect.Value, fieldPath string, visited map[visitKey]string) (*snap.Node, error) {
	if val.Kind() == reflect.Slice {
		if val.IsNil() {
			return snap.Null(), nil
		}
		if val.Len() > 0 {
			leave, err := enter(val, fieldPath, visited)
			if err != nil {
				return nil, err
			}
			defer leave()
		}
	}
	length := val.Len()
	elements := make([]*snap.Node, 0, length)
	for i := 0; i < length; i++ {
		elemNode, err := toNode(val.Index(i), fmt.Sprintf("%s[%d]", fieldPath, i), visited)
		if err != nil {
			return nil, err
		}
		elements = append(elements, elemNode)
	}
	return snap.FromSlice(elements), nil
}

// mapToNode converts a string keyed map to a map node with sorted keys.
func mapToNode(val reflect.Value, fieldPath string, visited map[visitKey]string) (*snap.Node, error) {
	if val.IsNil() {
		return snap.Null(), nil
	}
	if val.Type().Key().Kind() != reflect.String {
		return nil, &MarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("map keys must be strings, got %s", val.Type().Key()),
		}
	}
	leave, err := enter(val, fieldPath, visited)
	if err != nil {
		return nil, err
	}
	defer leave()

	keys := make([]string, 0, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	slices.Sort(keys)
	kvs := make([]snap.KeyVal, len(keys))
	for i, key := range keys {
		valueNode, err := toNode(val.MapIndex(reflect.ValueOf(key).Convert(val.Type().Key())), joinPath(fieldPath, key), visited)
		if err != nil {
			return nil, err
		}
		kvs[i] = snap.KeyVal{Key: key, Val: valueNode}
	}
	return snap.MapFromKeyVals(kvs), nil
}

// structToNode converts a struct to an object node. Embedded structs are
// flattened, their fields promoted to the parent object.
// Struct values themselves are not tracked for cycle detection, only
// reference types can create cycles.
func structToNode(val reflect.Value, fieldPath string, visited map[visitKey]string) (*snap.Node, error) {
	res := &snap.Node{Type: snap.ObjectType, Fields: []string{}, Values: []*snap.Node{}}
	if err := appendStructFields(res, val, fieldPath, visited); err != nil {
		return nil, err
	}
	return res, nil
}

func appendStructFields(res *snap.Node, val reflect.Value, fieldPath string, visited map[visitKey]string) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		name, skip := fieldName(field)
		if skip {
			continue
		}
		fieldVal := val.Field(i)

		if field.Anonymous && name == "" {
			ok, err := appendEmbedded(res, fieldVal, fieldPath, visited)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
			name = field.Name
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		if res.Index(name) >= 0 {
			return &MarshalError{
				FieldPath: fieldPath,
				Message:   fmt.Sprintf("field name conflict: %q appears more than once", name),
			}
		}
		fieldNode, err := toNode(fieldVal, joinPath(fieldPath, name), visited)
		if err != nil {
			return err
		}
		res.Fields = append(res.Fields, name)
		res.Values = append(res.Values, fieldNode)
	}
	return nil
}

// appendEmbedded promotes the fields of an embedded struct or struct
// pointer into res. It reports false if val is neither.
func appendEmbedded(res *snap.Node, val reflect.Value, fieldPath string, visited map[visitKey]string) (bool, error) {
	if val.Kind() == reflect.Pointer {
		if val.Type().Elem().Kind() != reflect.Struct {
			return false, nil
		}
		if val.IsNil() {
			return true, nil
		}
		leave, err := enter(val, fieldPath, visited)
		if err != nil {
			return false, err
		}
		defer leave()
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return false, nil
	}
	return true, appendStructFields(res, val, fieldPath, visited)
}

// fieldName returns the json tag name of field, if any, and whether the
// field is skipped.
func fieldName(field reflect.StructField) (string, bool) {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" && tag == "-" {
		return "", true
	}
	return name, false
}

func joinPath(fieldPath, name string) string {
	if fieldPath == "" {
		return name
	}
	return fieldPath + "." + name
}
