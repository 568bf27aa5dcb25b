package parse

import (
	"github.com/signadot/doctrack/format"
)

type parseOpts struct {
	format format.Format
	maps   []string
}

type ParseOption func(*parseOpts)

func ParseYAML() ParseOption {
	return ParseFormat(format.YAMLFormat)
}
func ParseJSON() ParseOption {
	return ParseFormat(format.JSONFormat)
}
func ParseFormat(f format.Format) ParseOption {
	return func(o *parseOpts) { o.format = f }
}

// MapsAt marks the mappings at the given dotted paths, such as
// "Category.Seller.ProductSells", as maps rather than objects.
func MapsAt(paths ...string) ParseOption {
	return func(o *parseOpts) { o.maps = append(o.maps, paths...) }
}
