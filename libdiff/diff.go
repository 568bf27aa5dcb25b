package libdiff

import (
	"fmt"

	"github.com/signadot/doctrack/debug"
	"github.com/signadot/doctrack/snap"
)

// DiffFunc computes the patch taking from to to. A nil result means the two
// values are unchanged.
type DiffFunc func(from, to *snap.Node) *snap.Node

// Compute returns the patch taking baseline to current. identifier names the
// field to exclude from the root object or map; the empty string excludes
// nothing.
//
// When both roots are objects, or both are maps, the result has the same
// type and is empty when nothing changed. For any other pair of roots the
// result is an empty object if they are equal and a copy of current
// otherwise.
//
// Compute panics if either tree violates the constraints checked by
// [snap.Check].
func Compute(baseline, current *snap.Node, identifier string) *snap.Node {
	if baseline == nil || current == nil {
		panic("libdiff: nil snapshot")
	}
	var res *snap.Node
	switch {
	case baseline.Type == snap.ObjectType && current.Type == snap.ObjectType:
		res = orEmpty(DiffObject(baseline, current, identifier, DiffValue), snap.ObjectType)
	case baseline.Type == snap.MapType && current.Type == snap.MapType:
		res = orEmpty(DiffMap(baseline, current, identifier, DiffValue), snap.MapType)
	case snap.Equal(baseline, current):
		res = empty(snap.ObjectType)
	default:
		res = current.Clone()
	}
	if debug.Diff() {
		debug.Logf("diff %s -> %s (id %q) = %s\n", baseline.JSON(), current.JSON(), identifier, res.JSON())
	}
	return res
}

// DiffValue is the DiffFunc applied to the value of a field present in both
// the baseline and the current object.
func DiffValue(from, to *snap.Node) *snap.Node {
	switch {
	case from.Type == snap.NullType && to.Type == snap.NullType:
		return nil
	case from.Type == snap.NullType:
		return to.Clone()
	case to.Type == snap.NullType:
		return snap.Null()
	case from.Type != to.Type:
		return to.Clone()
	}
	if from.Type.IsScalar() {
		if snap.Equal(from, to) {
			return nil
		}
		return to.Clone()
	}
	switch from.Type {
	case snap.ObjectType:
		return DiffObject(from, to, "", DiffValue)
	case snap.ListType:
		return DiffList(from, to)
	case snap.MapType:
		return DiffMap(from, to, "", DiffValue)
	}
	panic(fmt.Sprintf("libdiff: unexpected node type %s", from.Type))
}

// DiffList returns a copy of to if the lists differ in length or in any
// element, and nil otherwise.
func DiffList(from, to *snap.Node) *snap.Node {
	if snap.Equal(from, to) {
		return nil
	}
	return to.Clone()
}

func empty(t snap.Type) *snap.Node {
	return &snap.Node{Type: t, Fields: []string{}, Values: []*snap.Node{}}
}

func orEmpty(n *snap.Node, t snap.Type) *snap.Node {
	if n == nil {
		return empty(t)
	}
	return n
}
