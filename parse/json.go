package parse

import (
	"fmt"

	"github.com/signadot/doctrack/snap"

	"github.com/tidwall/gjson"
)

func parseJSON(d []byte) (*snap.Node, error) {
	if !gjson.ValidBytes(d) {
		return nil, fmt.Errorf("%w: invalid json", ErrParse)
	}
	return fromGJSON(gjson.ParseBytes(d)), nil
}

func fromGJSON(r gjson.Result) *snap.Node {
	switch r.Type {
	case gjson.Null:
		return snap.Null()
	case gjson.False:
		return snap.FromBool(false)
	case gjson.True:
		return snap.FromBool(true)
	case gjson.Number:
		return numberNode(r.Raw)
	case gjson.String:
		return snap.FromString(r.Str)
	}
	if r.IsArray() {
		res := &snap.Node{Type: snap.ListType, Values: []*snap.Node{}}
		r.ForEach(func(_, v gjson.Result) bool {
			res.Values = append(res.Values, fromGJSON(v))
			return true
		})
		return res
	}
	res := &snap.Node{Type: snap.ObjectType, Fields: []string{}, Values: []*snap.Node{}}
	r.ForEach(func(k, v gjson.Result) bool {
		setField(res, k.Str, fromGJSON(v))
		return true
	})
	return res
}
