package snap

import "slices"

type Node struct {
	Type   Type
	Fields []string
	Values []*Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
}

func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	dst := &Node{
		Type:   y.Type,
		String: y.String,
		Bool:   y.Bool,
		Number: y.Number,
	}
	if y.Fields != nil {
		dst.Fields = slices.Clone(y.Fields)
	}
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			dst.Values[i] = v.Clone()
		}
	}
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	return dst
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromString(v string) *Node {
	return &Node{
		Type:   StringType,
		String: v,
	}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

// FromNumber returns a number node holding a textual number, used for values
// which fit neither int64 nor float64 without loss.
func FromNumber(text string) *Node {
	return &Node{
		Type:   NumberType,
		Number: text,
	}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type: ListType,
	}
	res.Values = make([]*Node, len(ySlice))
	copy(res.Values, ySlice)
	return res
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals returns an object node with the fields of kvs, in order.
func FromKeyVals(kvs []KeyVal) *Node {
	return fromKeyValsAt(&Node{Type: ObjectType}, kvs)
}

// MapFromKeyVals returns a map node with the entries of kvs, in order.
func MapFromKeyVals(kvs []KeyVal) *Node {
	return fromKeyValsAt(&Node{Type: MapType}, kvs)
}

func fromKeyValsAt(res *Node, kvs []KeyVal) *Node {
	res.Fields = make([]string, len(kvs))
	res.Values = make([]*Node, len(kvs))
	for i := range kvs {
		kv := &kvs[i]
		if kv.Val == nil {
			kv.Val = Null()
		}
		res.Fields[i] = kv.Key
		res.Values[i] = kv.Val
	}
	return res
}

// Get returns the value of field in an object or map node, or nil.
func Get(y *Node, field string) *Node {
	i := y.Index(field)
	if i < 0 {
		return nil
	}
	return y.Values[i]
}

// Index returns the position of field in y.Fields, or -1.
func (y *Node) Index(field string) int {
	if !y.Type.IsKeyed() {
		return -1
	}
	return slices.Index(y.Fields, field)
}

// Len returns the number of fields, entries or elements of y.
func (y *Node) Len() int {
	if y == nil {
		return 0
	}
	return len(y.Values)
}

// IsEmpty reports whether y is nil or a container without children.
func (y *Node) IsEmpty() bool {
	if y == nil {
		return true
	}
	switch y.Type {
	case ObjectType, MapType, ListType:
		return len(y.Values) == 0
	}
	return false
}
