package libdiff

import (
	"fmt"

	"github.com/signadot/doctrack/snap"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// DiffObject diffs two object nodes field by field, skipping the field
// named skip. Fields present in both are diffed with df. It returns nil if
// no field changed.
func DiffObject(from, to *snap.Node, skip string, df DiffFunc) *snap.Node {
	return diffKeyed(from, to, skip, snap.ObjectType, df)
}

// DiffMap diffs two map nodes key by key, skipping the key named skip.
// Object valued entries present in both maps are diffed with df; any other
// entry which differs is replaced in full. It returns nil if no entry
// changed.
func DiffMap(from, to *snap.Node, skip string, df DiffFunc) *snap.Node {
	return diffKeyed(from, to, skip, snap.MapType, func(f, t *snap.Node) *snap.Node {
		if f.Type == snap.ObjectType && t.Type == snap.ObjectType {
			return df(f, t)
		}
		if snap.Equal(f, t) {
			return nil
		}
		return t.Clone()
	})
}

func diffKeyed(from, to *snap.Node, skip string, t snap.Type, df DiffFunc) *snap.Node {
	mustKeyed(from)
	mustKeyed(to)
	fromIdx := indexFields(from)
	toIdx := indexFields(to)
	res := &snap.Node{Type: t}
	for _, field := range UnionFields(from.Fields, to.Fields) {
		if skip != "" && field == skip {
			continue
		}
		fi, inFrom := fromIdx[field]
		ti, inTo := toIdx[field]
		var d *snap.Node
		switch {
		case !inTo:
			d = snap.Null()
		case !inFrom:
			d = to.Values[ti].Clone()
		default:
			d = df(from.Values[fi], to.Values[ti])
		}
		if d == nil {
			continue
		}
		res.Fields = append(res.Fields, field)
		res.Values = append(res.Values, d)
	}
	if len(res.Fields) == 0 {
		return nil
	}
	return res
}

// UnionFields returns every field of from and to exactly once. Fields of to
// keep their order; fields only in from are placed where they were in from
// relative to the fields the two have in common.
func UnionFields(from, to []string) []string {
	fieldMap := map[string]rune{}
	runeMap := map[rune]string{}
	fromRunes := mapFieldsTo(fieldMap, runeMap, from)
	toRunes := mapFieldsTo(fieldMap, runeMap, to)
	inTo := make(map[string]bool, len(to))
	for _, f := range to {
		inTo[f] = true
	}
	diffCfg := diffpatch.New()
	// no deadline, so the alignment depends only on the inputs
	diffCfg.DiffTimeout = 0
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)
	res := make([]string, 0, len(fieldMap))
	seen := make(map[string]bool, len(fieldMap))
	emit := func(f string) {
		if seen[f] {
			return
		}
		seen[f] = true
		res = append(res, f)
	}
	for i := range diffs {
		diff := &diffs[i]
		for _, r := range diff.Text {
			f, ok := runeMap[r]
			if !ok {
				continue
			}
			// a field deleted here but present in to has moved; it is
			// emitted at its insertion point
			if diff.Type == diffpatch.DiffDelete && inTo[f] {
				continue
			}
			emit(f)
		}
	}
	for _, f := range to {
		emit(f)
	}
	for _, f := range from {
		emit(f)
	}
	return res
}

func mapFieldsTo(m map[string]rune, im map[rune]string, fields []string) []rune {
	rs := make([]rune, len(fields))
	for i, f := range fields {
		r, ok := m[f]
		if !ok {
			r = rune(len(m))
			if r >= 0xD800 {
				// skip the surrogate range, which does not survive the
				// round trip through a string
				r += 0x800
			}
			m[f] = r
			im[r] = f
		}
		rs[i] = r
	}
	return rs
}

func indexFields(n *snap.Node) map[string]int {
	res := make(map[string]int, len(n.Fields))
	for i, f := range n.Fields {
		res[f] = i
	}
	return res
}

func mustKeyed(n *snap.Node) {
	if len(n.Fields) != len(n.Values) {
		panic(fmt.Sprintf("libdiff: %s node with %d fields and %d values", n.Type, len(n.Fields), len(n.Values)))
	}
}
