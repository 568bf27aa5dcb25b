package encode

import "github.com/signadot/doctrack/format"

type EncodeOption func(*EncState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}

// EncodeWire selects compact single line JSON output.
func EncodeWire(v bool) EncodeOption {
	return func(es *EncState) { es.wire = v }
}

// EncodeIndent sets the number of spaces per indentation level of
// multi line JSON output.
func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}
