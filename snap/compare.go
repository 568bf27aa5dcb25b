package snap

import (
	"cmp"
	"math/big"
	"strings"
)

// Compare returns an integer comparing two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
//
// Compare is positional: objects and maps with the same entries in a
// different order compare unequal. Use [Equal] for change detection.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	rankA := rank(a.Type)
	rankB := rank(b.Type)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch a.Type {
	case NumberType:
		return compareNumbers(a, b)
	case StringType:
		return strings.Compare(a.String, b.String)
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case ListType:
		return compareLists(a, b)
	case ObjectType, MapType:
		return compareKeyed(a, b)
	case NullType:
		return 0
	}
	return 0
}

// rank returns the sorting rank of a type.
// Order: Null < Bool < Number < String < List < Object < Map
func rank(t Type) int {
	switch t {
	case NullType:
		return 1
	case BoolType:
		return 2
	case NumberType:
		return 3
	case StringType:
		return 4
	case ListType:
		return 5
	case ObjectType:
		return 6
	case MapType:
		return 7
	}
	return 100
}

func compareNumbers(a, b *Node) int {
	ra, okA := numberRat(a)
	rb, okB := numberRat(b)
	if okA && okB {
		return ra.Cmp(rb)
	}
	// unparseable textual numbers sort after everything else
	if okA != okB {
		if okA {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Number, b.Number)
}

func numberRat(n *Node) (*big.Rat, bool) {
	switch {
	case n.Int64 != nil:
		return new(big.Rat).SetInt64(*n.Int64), true
	case n.Float64 != nil:
		r := new(big.Rat)
		if r.SetFloat64(*n.Float64) == nil {
			return nil, false
		}
		return r, true
	}
	return new(big.Rat).SetString(n.Number)
}

func compareLists(a, b *Node) int {
	lenA := len(a.Values)
	lenB := len(b.Values)
	minLen := min(lenA, lenB)

	for i := 0; i < minLen; i++ {
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

func compareKeyed(a, b *Node) int {
	lenA := len(a.Fields)
	lenB := len(b.Fields)
	minLen := min(lenA, lenB)

	for i := 0; i < minLen; i++ {
		if c := strings.Compare(a.Fields[i], b.Fields[i]); c != 0 {
			return c
		}
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

// Equal reports whether a and b hold the same value.
//
// Lists are compared element-wise, including length. Objects and maps are
// compared by key set, so field order does not matter. Numbers compare by
// value regardless of representation, so 5 and 5.0 are equal.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case StringType:
		return a.String == b.String
	case NumberType:
		return compareNumbers(a, b) == 0
	case ListType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case ObjectType, MapType:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i, f := range a.Fields {
			j := i
			if j >= len(b.Fields) || b.Fields[j] != f {
				j = b.Index(f)
				if j < 0 {
					return false
				}
			}
			if !Equal(a.Values[i], b.Values[j]) {
				return false
			}
		}
		return true
	}
	return false
}
