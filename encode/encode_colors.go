package encode

import (
	"github.com/signadot/doctrack/snap"

	"github.com/fatih/color"
)

// Colorable selects the colour of one kind of output token.
type Colorable struct {
	Type snap.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
)

// Colors maps tokens to colouring functions. Tokens without an entry
// are passed through Default.
type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

var palette = map[Colorable]*color.Color{
	{snap.NullType, ValueColor}:   color.RGB(168, 0, 196),
	{snap.BoolType, ValueColor}:   color.New(color.FgCyan),
	{snap.NumberType, ValueColor}: color.RGB(128, 216, 236),
	{snap.StringType, ValueColor}: color.RGB(8, 196, 16),
	{snap.ListType, SepColor}:     color.RGB(255, 0, 196),
	{snap.ObjectType, FieldColor}: color.RGB(128, 168, 196),
	{snap.ObjectType, SepColor}:   color.RGB(196, 128, 128),
	{snap.MapType, FieldColor}:    color.RGB(196, 168, 128),
	{snap.MapType, SepColor}:      color.RGB(196, 128, 128),
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     make(map[Colorable]func(string, ...any) string, len(palette)),
	}
	for able, c := range palette {
		sprint := c.SprintFunc()
		// tokens are printed verbatim, never used as format strings
		colors.Map[able] = func(v string, _ ...any) string {
			return sprint(v)
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t snap.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t snap.Type, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
