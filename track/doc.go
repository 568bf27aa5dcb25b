// Package track keeps baselines of entities and computes the patches
// describing how they changed since.
//
// A Tracker pairs a [store.Store] of baselines with a resolver of
// identifier metadata and a [serial.Serializer]:
//
//	tr := track.New(meta.NewResolver(meta.NewTable(meta.Key("Product", "_key"))))
//	h, err := tr.Track(product)
//	...
//	product.Quantity = 7
//	patch, err := tr.GetChanges(h) // {"Quantity":7}
//
// Tracking never consults the resolver, so entities of undescribed types
// track fine, but computing their changes fails with
// meta.ErrMissingTypeMetadata.
package track
