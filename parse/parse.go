package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/doctrack/format"
	"github.com/signadot/doctrack/snap"
)

func Parse(d []byte, opts ...ParseOption) (*snap.Node, error) {
	pOpts := &parseOpts{}
	for _, opt := range opts {
		opt(pOpts)
	}
	var (
		node *snap.Node
		err  error
	)
	switch pOpts.format {
	case format.JSONFormat:
		node, err = parseJSON(d)
	case format.YAMLFormat:
		node, err = parseYAML(d)
	default:
		return nil, fmt.Errorf("%w: %s", format.ErrBadFormat, pOpts.format)
	}
	if err != nil {
		return nil, err
	}
	for _, p := range pOpts.maps {
		if err := markMap(node, p); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func ParseString(s string, opts ...ParseOption) (*snap.Node, error) {
	return Parse([]byte(s), opts...)
}

// markMap retypes the object found at the dotted path p. Missing or null
// values are skipped since a document may legitimately not carry the map.
func markMap(node *snap.Node, p string) error {
	cur := node
	for _, seg := range strings.Split(p, ".") {
		if cur.Type != snap.ObjectType && cur.Type != snap.MapType {
			return nil
		}
		next := snap.Get(cur, seg)
		if next == nil {
			return nil
		}
		cur = next
	}
	switch cur.Type {
	case snap.ObjectType, snap.MapType:
		cur.Type = snap.MapType
	case snap.NullType:
	default:
		return fmt.Errorf("%w: %s is a %s, not a mapping", ErrParse, p, cur.Type)
	}
	return nil
}

func numberNode(raw string) *snap.Node {
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return snap.FromInt(i)
		}
		return snap.FromNumber(raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return snap.FromNumber(raw)
	}
	return snap.FromFloat(f)
}

// setField appends or, for a repeated key, replaces a field.
func setField(n *snap.Node, key string, val *snap.Node) {
	if i := n.Index(key); i >= 0 {
		n.Values[i] = val
		return
	}
	n.Fields = append(n.Fields, key)
	n.Values = append(n.Values, val)
}
