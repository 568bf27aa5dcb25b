// Package meta resolves per-type identifier metadata.
//
// Every document type whose changes are computed must be described: a
// [Descriptor] names the field holding the document's unique key, or none.
// A type that was never described is an error when resolved, which is
// different from a type described without an identifier.
//
//	table := meta.NewTable(
//	    meta.Key("Product", "_key"),
//	    meta.NoKey("Settings"),
//	)
//	r := meta.NewResolver(table)
//	field, err := r.ResolveIdentifierField("Product") // "_key", nil
//	field, err = r.ResolveIdentifierField("Settings") // "", nil
//	_, err = r.ResolveIdentifierField("Person")        // ErrMissingTypeMetadata
package meta
