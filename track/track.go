package track

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/signadot/doctrack/debug"
	"github.com/signadot/doctrack/libdiff"
	"github.com/signadot/doctrack/serial"
	"github.com/signadot/doctrack/snap"
	"github.com/signadot/doctrack/store"

	"golang.org/x/sync/errgroup"
)

var ErrNilEntity = errors.New("nil entity")

// IdentifierResolver supplies the identifier field of a document type.
// It returns "" for types described without one, and an error wrapping
// meta.ErrMissingTypeMetadata for types never described.
type IdentifierResolver interface {
	ResolveIdentifierField(typ string) (string, error)
}

// Tracker is safe for concurrent use.
type Tracker struct {
	store    *store.Store
	resolver IdentifierResolver
	ser      serial.Serializer
	typeName serial.TypeNamer
	log      *slog.Logger
	shards   int
	limit    int
}

func New(resolver IdentifierResolver, opts ...Option) *Tracker {
	t := &Tracker{
		resolver: resolver,
		ser:      serial.Default,
		typeName: serial.TypeName,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if t.limit <= 0 {
		t.limit = runtime.GOMAXPROCS(0)
	}
	t.store = store.New(t.shards)
	return t
}

// TrackChanges registers baseline as the state of entity and returns the
// handle under which it is kept. The tracker keeps its own copy of
// baseline.
func (t *Tracker) TrackChanges(entity any, baseline *snap.Node) (store.Handle, error) {
	if entity == nil {
		return store.Handle{}, ErrNilEntity
	}
	if err := snap.Check(baseline); err != nil {
		return store.Handle{}, err
	}
	h := store.NewHandle()
	typ := t.typeName(entity)
	t.store.Put(h, store.Entry{
		Entity:   entity,
		Type:     typ,
		Baseline: baseline.Clone(),
		Tracked:  time.Now(),
	})
	t.log.Debug("tracking", "handle", h, "type", typ)
	return h, nil
}

// Track serializes entity and tracks it with the result as baseline.
func (t *Tracker) Track(entity any) (store.Handle, error) {
	if entity == nil {
		return store.Handle{}, ErrNilEntity
	}
	baseline, err := t.serialize(entity)
	if err != nil {
		return store.Handle{}, err
	}
	return t.TrackChanges(entity, baseline)
}

// Retrack replaces the baseline of h.
func (t *Tracker) Retrack(h store.Handle, baseline *snap.Node) error {
	if err := snap.Check(baseline); err != nil {
		return err
	}
	if err := t.store.Update(h, baseline.Clone()); err != nil {
		return err
	}
	t.log.Debug("retracked", "handle", h)
	return nil
}

// Refresh makes the current state of the entity of h its baseline, as
// after the changes have been saved.
func (t *Tracker) Refresh(h store.Handle) error {
	e, err := t.store.Get(h)
	if err != nil {
		return err
	}
	current, err := t.serialize(e.Entity)
	if err != nil {
		return err
	}
	if err := t.store.Update(h, current); err != nil {
		return err
	}
	t.log.Debug("refreshed", "handle", h, "type", e.Type)
	return nil
}

// Baseline returns a copy of the baseline of h.
func (t *Tracker) Baseline(h store.Handle) (*snap.Node, error) {
	e, err := t.store.Get(h)
	if err != nil {
		return nil, err
	}
	return e.Baseline.Clone(), nil
}

// GetChanges serializes the entity of h and returns the patch from its
// baseline to that state. The patch is empty when nothing changed.
func (t *Tracker) GetChanges(h store.Handle) (*snap.Node, error) {
	e, id, err := t.lookup(h)
	if err != nil {
		return nil, err
	}
	current, err := t.serialize(e.Entity)
	if err != nil {
		return nil, err
	}
	return t.compute(h, e, id, current), nil
}

// ChangesAgainst is like GetChanges with current as the state of the
// entity.
func (t *Tracker) ChangesAgainst(h store.Handle, current *snap.Node) (*snap.Node, error) {
	e, id, err := t.lookup(h)
	if err != nil {
		return nil, err
	}
	if err := snap.Check(current); err != nil {
		return nil, err
	}
	return t.compute(h, e, id, current), nil
}

// GetChangesMany computes the patches of hs concurrently. The result is
// indexed like hs. On error no patches are returned.
func (t *Tracker) GetChangesMany(ctx context.Context, hs []store.Handle) ([]*snap.Node, error) {
	res := make([]*snap.Node, len(hs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.limit)
	for i, h := range hs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := t.GetChanges(h)
			if err != nil {
				return err
			}
			res[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// Untrack forgets h, reporting whether it was tracked.
func (t *Tracker) Untrack(h store.Handle) bool {
	ok := t.store.Delete(h)
	if ok {
		t.log.Debug("untracked", "handle", h)
	}
	return ok
}

func (t *Tracker) Len() int {
	return t.store.Len()
}

func (t *Tracker) Clear() {
	t.store.Clear()
	t.log.Debug("cleared")
}

func (t *Tracker) lookup(h store.Handle) (store.Entry, string, error) {
	e, err := t.store.Get(h)
	if err != nil {
		return store.Entry{}, "", err
	}
	id, err := t.resolver.ResolveIdentifierField(e.Type)
	if err != nil {
		return store.Entry{}, "", err
	}
	return e, id, nil
}

func (t *Tracker) compute(h store.Handle, e store.Entry, id string, current *snap.Node) *snap.Node {
	patch := libdiff.Compute(e.Baseline, current, id)
	if debug.Track() {
		debug.Logf("changes %s (%s): %s\n", h.String(), e.Type, patch.JSON())
	}
	t.log.Debug("computed changes", "handle", h, "type", e.Type, "fields", len(patch.Fields))
	return patch
}

func (t *Tracker) serialize(entity any) (*snap.Node, error) {
	n, err := t.ser.Serialize(entity)
	if err != nil {
		return nil, fmt.Errorf("error serializing %s: %w", t.typeName(entity), err)
	}
	if err := snap.Check(n); err != nil {
		return nil, fmt.Errorf("serializer produced a bad snapshot: %w", err)
	}
	return n, nil
}
