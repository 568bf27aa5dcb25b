package encode

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/doctrack/format"
	"github.com/signadot/doctrack/snap"

	"github.com/goccy/go-yaml"
)

type EncState struct {
	depth, indent int

	format format.Format
	wire   bool

	Color func(snap.Type, ColorAttr, string) string
}

func Encode(node *snap.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	if es.format.IsYAML() {
		return encodeYAML(node, w)
	}
	if !es.format.IsJSON() {
		return fmt.Errorf("%w: %s", format.ErrBadFormat, es.format)
	}
	buf := bytes.NewBuffer(nil)
	if err := encodeJSON(node, buf, es); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// MustString encodes node and panics on error. Intended for tests and
// debugging output.
func MustString(node *snap.Node, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, opts...); err != nil {
		panic(err)
	}
	return buf.String()
}

func encodeJSON(node *snap.Node, buf *bytes.Buffer, es *EncState) error {
	if node == nil {
		node = snap.Null()
	}
	switch node.Type {
	case snap.ListType:
		if len(node.Values) == 0 {
			buf.WriteString(es.color(node.Type, SepColor, "[]"))
			return nil
		}
		buf.WriteString(es.color(node.Type, SepColor, "["))
		es.depth++
		for i, v := range node.Values {
			if i != 0 {
				buf.WriteString(es.color(node.Type, SepColor, ","))
			}
			es.newline(buf)
			if err := encodeJSON(v, buf, es); err != nil {
				return err
			}
		}
		es.depth--
		es.newline(buf)
		buf.WriteString(es.color(node.Type, SepColor, "]"))
		return nil

	case snap.ObjectType, snap.MapType:
		if len(node.Fields) == 0 {
			buf.WriteString(es.color(node.Type, SepColor, "{}"))
			return nil
		}
		buf.WriteString(es.color(node.Type, SepColor, "{"))
		es.depth++
		for i, f := range node.Fields {
			if i != 0 {
				buf.WriteString(es.color(node.Type, SepColor, ","))
			}
			es.newline(buf)
			key, err := snap.AppendString(nil, f)
			if err != nil {
				return err
			}
			buf.WriteString(es.color(node.Type, FieldColor, string(key)))
			buf.WriteString(es.color(node.Type, SepColor, ":"))
			if !es.wire {
				buf.WriteByte(' ')
			}
			if err := encodeJSON(node.Values[i], buf, es); err != nil {
				return err
			}
		}
		es.depth--
		es.newline(buf)
		buf.WriteString(es.color(node.Type, SepColor, "}"))
		return nil
	}
	d, err := snap.AppendJSON(nil, node)
	if err != nil {
		return err
	}
	buf.WriteString(es.color(node.Type, ValueColor, string(d)))
	return nil
}

func (es *EncState) newline(buf *bytes.Buffer) {
	if es.wire {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", es.depth*es.indent))
}

func (es *EncState) color(t snap.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}

func encodeYAML(node *snap.Node, w io.Writer) error {
	d, err := yaml.Marshal(toYAML(node))
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

func toYAML(node *snap.Node) any {
	if node == nil {
		return nil
	}
	switch node.Type {
	case snap.BoolType:
		return node.Bool
	case snap.StringType:
		return node.String
	case snap.NumberType:
		switch {
		case node.Int64 != nil:
			return *node.Int64
		case node.Float64 != nil:
			return *node.Float64
		}
		if u, err := strconv.ParseUint(node.Number, 10, 64); err == nil {
			return u
		}
		if f, err := strconv.ParseFloat(node.Number, 64); err == nil {
			return f
		}
		return node.Number
	case snap.ListType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			res[i] = toYAML(v)
		}
		return res
	case snap.ObjectType, snap.MapType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i, f := range node.Fields {
			res[i] = yaml.MapItem{Key: f, Value: toYAML(node.Values[i])}
		}
		return res
	}
	return nil
}
