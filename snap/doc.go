// Package snap provides the snapshot representation used for change tracking.
//
// # Overview
//
// A snapshot is an immutable tree of nodes capturing the serialized shape of
// an object at a point in time. Baselines captured when tracking begins and
// the current state of an object are both snapshots, and so are the patches
// computed between them.
//
// The representation works as a recursive tagged union, where values are
// placed in fields depending on the node type.
//
// # Node Types
//
// The Type field indicates the node's type:
//
//   - NullType: null value
//   - BoolType, NumberType, StringType: scalar leaves
//   - ListType: ordered sequence of nodes
//   - ObjectType: named fields of a structured value, in declaration order
//   - MapType: string keyed dictionary, in insertion order
//
// Objects and maps share their layout but not their diff policy: objects are
// diffed field by field with null expansion, maps are diffed key by key.
//
// # Creating Nodes
//
//	obj := snap.FromKeyVals([]snap.KeyVal{
//	    {Key: "Title", Val: snap.FromString("Pen")},
//	    {Key: "Quantity", Val: snap.FromInt(5)},
//	    {Key: "Tags", Val: snap.FromSlice([]*snap.Node{snap.FromString("Soft")})},
//	})
//
// # Structure Constraints
//
// For ObjectType and MapType nodes, Fields[i] is the key for the value at
// Values[i], so there are always the same number of fields as values, and
// keys occur at most once. ListType nodes have Values only. Scalars and nulls
// have neither. [Check] reports violations of these constraints; the diff
// engine treats them as programming errors.
//
// # Immutability
//
// Nodes are plain structs and nothing stops a caller from mutating one.
// Components which need a stable value, such as the tracking store, keep a
// [Node.Clone].
package snap
