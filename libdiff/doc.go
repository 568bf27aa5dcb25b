// Package libdiff computes partial-update patches between snapshots.
//
// # Usage
//
//	patch := libdiff.Compute(baseline, current, "_key")
//	if patch.Len() == 0 {
//	    // nothing to send
//	}
//
// A patch mirrors the shape of the snapshots it was computed from but is
// partial at every object and map level: an absent field is unchanged, a
// null field was changed to null, any other value is the new value.
//
// Containers follow different policies:
//
//   - objects are diffed field by field, recursively; an object which
//     changes from null is emitted in full, one which changes to null is
//     emitted as a bare null
//   - lists are never diffed partially; a list which differs in any
//     element or in length is emitted in full
//   - maps are diffed key by key; object valued entries are diffed like
//     object fields, other entries are emitted in full when they differ
//   - values whose types differ are emitted in full
//
// The identifier field given to [Compute] is dropped from the root object of
// the patch whether or not it changed.
//
// Compute is a pure function of its inputs and may be called concurrently.
// The patch never shares nodes with its inputs.
//
// # Related Packages
//
//   - github.com/signadot/doctrack/snap - snapshot representation
//   - github.com/signadot/doctrack/track - tracking entities over time
package libdiff
