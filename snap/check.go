package snap

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrMalformed = errors.New("malformed snapshot")

// MalformedError describes where a snapshot violates its structure
// constraints.
type MalformedError struct {
	Path    string
	Message string
}

func (e *MalformedError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: %s", ErrMalformed, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", ErrMalformed, e.Message)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

// Check verifies that y satisfies the structure constraints described in
// the package documentation.
func Check(y *Node) error {
	return check(y, "$")
}

func check(y *Node, path string) error {
	if y == nil {
		return &MalformedError{Path: path, Message: "nil node"}
	}
	switch y.Type {
	case NullType, BoolType, StringType:
		if len(y.Fields) != 0 || len(y.Values) != 0 {
			return &MalformedError{Path: path, Message: fmt.Sprintf("%s node with children", y.Type)}
		}
	case NumberType:
		if len(y.Fields) != 0 || len(y.Values) != 0 {
			return &MalformedError{Path: path, Message: "number node with children"}
		}
		if y.Int64 == nil && y.Float64 == nil && y.Number == "" {
			return &MalformedError{Path: path, Message: "number node without a value"}
		}
	case ListType:
		if len(y.Fields) != 0 {
			return &MalformedError{Path: path, Message: "list node with fields"}
		}
		for i, v := range y.Values {
			if err := check(v, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	case ObjectType, MapType:
		if len(y.Fields) != len(y.Values) {
			return &MalformedError{
				Path:    path,
				Message: fmt.Sprintf("%d fields for %d values", len(y.Fields), len(y.Values)),
			}
		}
		seen := make(map[string]struct{}, len(y.Fields))
		for i, f := range y.Fields {
			if _, dup := seen[f]; dup {
				return &MalformedError{Path: path, Message: fmt.Sprintf("duplicate key %q", f)}
			}
			seen[f] = struct{}{}
			if err := check(y.Values[i], path+"."+f); err != nil {
				return err
			}
		}
	default:
		return &MalformedError{Path: path, Message: fmt.Sprintf("unknown node type %s", y.Type)}
	}
	return nil
}
