package snap

import "fmt"

type Type int

const (
	NullType Type = iota
	BoolType
	NumberType
	StringType
	ListType
	ObjectType
	MapType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		NullType:   "Null",
		BoolType:   "Bool",
		NumberType: "Number",
		StringType: "String",
		ListType:   "List",
		ObjectType: "Object",
		MapType:    "Map",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Null":   NullType,
		"Bool":   BoolType,
		"Number": NumberType,
		"String": StringType,
		"List":   ListType,
		"Object": ObjectType,
		"Map":    MapType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

// IsScalar reports whether t is a leaf value type other than null.
func (t Type) IsScalar() bool {
	switch t {
	case BoolType, NumberType, StringType:
		return true
	}
	return false
}

// IsKeyed reports whether nodes of type t carry Fields.
func (t Type) IsKeyed() bool {
	return t == ObjectType || t == MapType
}
