package parse

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/signadot/doctrack/snap"

	"github.com/goccy/go-yaml"
)

func parseYAML(d []byte) (*snap.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return fromYAML(v, "$")
}

func fromYAML(v any, path string) (*snap.Node, error) {
	switch x := v.(type) {
	case nil:
		return snap.Null(), nil
	case bool:
		return snap.FromBool(x), nil
	case string:
		return snap.FromString(x), nil
	case int:
		return snap.FromInt(int64(x)), nil
	case int64:
		return snap.FromInt(x), nil
	case uint64:
		if x > 1<<63-1 {
			return snap.FromNumber(fmt.Sprint(x)), nil
		}
		return snap.FromInt(int64(x)), nil
	case float64:
		return snap.FromFloat(x), nil
	case time.Time:
		return snap.FromString(x.Format(time.RFC3339Nano)), nil
	case []any:
		res := &snap.Node{Type: snap.ListType, Values: make([]*snap.Node, 0, len(x))}
		for i, e := range x {
			n, err := fromYAML(e, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			res.Values = append(res.Values, n)
		}
		return res, nil
	case yaml.MapSlice:
		res := &snap.Node{Type: snap.ObjectType, Fields: []string{}, Values: []*snap.Node{}}
		for _, item := range x {
			key, ok := item.Key.(string)
			if !ok {
				key = fmt.Sprint(item.Key)
			}
			n, err := fromYAML(item.Value, path+"."+key)
			if err != nil {
				return nil, err
			}
			setField(res, key, n)
		}
		return res, nil
	case map[string]any:
		res := &snap.Node{Type: snap.ObjectType, Fields: []string{}, Values: []*snap.Node{}}
		for _, key := range slices.Sorted(maps.Keys(x)) {
			n, err := fromYAML(x[key], path+"."+key)
			if err != nil {
				return nil, err
			}
			setField(res, key, n)
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w at %s: %T", ErrUnsupported, path, v)
}
