package track

import (
	"log/slog"

	"github.com/signadot/doctrack/serial"
)

type Option func(*Tracker)

// WithSerializer sets the serializer used by Track, Refresh and
// GetChanges. The default is serial.Default.
func WithSerializer(s serial.Serializer) Option {
	return func(t *Tracker) { t.ser = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// WithShards sets the number of store shards.
func WithShards(n int) Option {
	return func(t *Tracker) { t.shards = n }
}

// WithTypeNamer sets how entity types are named for metadata resolution.
// The default is serial.TypeName.
func WithTypeNamer(f serial.TypeNamer) Option {
	return func(t *Tracker) { t.typeName = f }
}

// WithConcurrency bounds the number of patches GetChangesMany computes at
// once. A non positive n means GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(t *Tracker) { t.limit = n }
}
