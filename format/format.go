// Package format names the document encodings doctrack reads and writes.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Format is a document encoding. The zero value is JSON.
type Format int

const (
	JSONFormat Format = iota
	YAMLFormat
)

var ErrBadFormat = errors.New("bad format")

type info struct {
	names    []string
	suffixes []string
}

var formats = map[Format]info{
	JSONFormat: {names: []string{"json", "j"}, suffixes: []string{".json"}},
	YAMLFormat: {names: []string{"yaml", "y", "yml"}, suffixes: []string{".yaml", ".yml"}},
}

// ParseFormat accepts a format name or its abbreviation.
func ParseFormat(v string) (Format, error) {
	for f, in := range formats {
		if slices.Contains(in.names, v) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// FromPath guesses a format from a file name suffix, defaulting to JSON.
func FromPath(p string) Format {
	ext := strings.ToLower(filepath.Ext(p))
	if slices.Contains(formats[YAMLFormat].suffixes, ext) {
		return YAMLFormat
	}
	return JSONFormat
}

func (f Format) String() string {
	in, ok := formats[f]
	if !ok {
		return fmt.Sprintf("<format %d>", int(f))
	}
	return in.names[0]
}

func (f Format) MarshalText() ([]byte, error) {
	in, ok := formats[f]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, int(f))
	}
	return []byte(in.names[0]), nil
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJSON() bool { return f == JSONFormat }
func (f Format) IsYAML() bool { return f == YAMLFormat }

// Suffix returns the preferred file extension of f, including the dot.
func (f Format) Suffix() string {
	in, ok := formats[f]
	if !ok {
		return ""
	}
	return in.suffixes[0]
}
