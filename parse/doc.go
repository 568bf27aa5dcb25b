// Package parse decodes JSON and YAML documents into snapshot nodes.
//
// # Usage
//
//	node, err := parse.Parse([]byte(`{"Title": "Pen", "Quantity": 5}`))
//
//	// YAML, with one field treated as a dictionary
//	node, err := parse.Parse(data, parse.ParseYAML(), parse.MapsAt("TypeQuantities"))
//
// Field order is preserved for both formats so that a document decoded twice
// yields the same snapshot. Integers which fit in 64 bits are kept as int64,
// other numbers as float64, and numbers which fit neither keep their text.
//
// Both formats represent dictionaries and structured values alike, so every
// mapping decodes as an object node unless [MapsAt] says otherwise.
//
// # Related Packages
//
//   - github.com/signadot/doctrack/snap - snapshot representation
//   - github.com/signadot/doctrack/encode - encode snapshots to text
package parse
