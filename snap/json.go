package snap

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// MarshalJSON encodes y as a plain JSON value, objects and maps keeping
// their field order. A patch encoded this way is a partial update body.
func (y *Node) MarshalJSON() ([]byte, error) {
	return AppendJSON(nil, y)
}

// JSON returns the compact JSON encoding of y, or an error description.
func (y *Node) JSON() string {
	d, err := AppendJSON(nil, y)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(d)
}

// AppendJSON appends the compact JSON encoding of y to dst.
func AppendJSON(dst []byte, y *Node) ([]byte, error) {
	if y == nil {
		return append(dst, "null"...), nil
	}
	switch y.Type {
	case NullType:
		return append(dst, "null"...), nil
	case BoolType:
		return strconv.AppendBool(dst, y.Bool), nil
	case NumberType:
		return AppendNumber(dst, y)
	case StringType:
		return AppendString(dst, y.String)
	case ListType:
		dst = append(dst, '[')
		for i, v := range y.Values {
			if i != 0 {
				dst = append(dst, ',')
			}
			var err error
			dst, err = AppendJSON(dst, v)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case ObjectType, MapType:
		dst = append(dst, '{')
		for i, f := range y.Fields {
			if i != 0 {
				dst = append(dst, ',')
			}
			var err error
			dst, err = AppendString(dst, f)
			if err != nil {
				return nil, err
			}
			dst = append(dst, ':')
			dst, err = AppendJSON(dst, y.Values[i])
			if err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	}
	return nil, &MalformedError{Message: fmt.Sprintf("cannot encode node type %s", y.Type)}
}

// AppendNumber appends the JSON text of a number node.
func AppendNumber(dst []byte, y *Node) ([]byte, error) {
	switch {
	case y.Int64 != nil:
		return strconv.AppendInt(dst, *y.Int64, 10), nil
	case y.Float64 != nil:
		f := *y.Float64
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("unsupported number %v", f)
		}
		return strconv.AppendFloat(dst, f, 'g', -1, 64), nil
	case y.Number != "":
		return append(dst, y.Number...), nil
	}
	return nil, &MalformedError{Message: "number node without a value"}
}

func AppendString(dst []byte, s string) ([]byte, error) {
	d, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append(dst, d...), nil
}
