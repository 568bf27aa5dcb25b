// Package serial converts Go values into snapshots.
//
// # Usage
//
//	type Product struct {
//	    Key            string         `json:"_key"`
//	    Title          *string
//	    Quantity       int
//	    Tags           []string
//	    TypeQuantities map[string]int
//	}
//	node, err := serial.Serialize(&Product{Quantity: 5})
//
// Structs become objects with their exported fields in declaration order,
// named by their json tag when present. Maps with string keys become map
// nodes with sorted keys. Slices and arrays become lists. Nil pointers,
// slices, maps and interfaces become null. Values implementing
// encoding.TextMarshaler become strings.
//
// The same value always serializes to the same snapshot, which is what
// change tracking relies upon.
package serial
