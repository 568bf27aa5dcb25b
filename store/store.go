// Package store holds tracked baselines keyed by opaque handles.
//
// The store is sharded: each handle hashes to one shard with its own lock,
// so operations on handles in different shards never contend.
package store

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"
	"time"

	"github.com/signadot/doctrack/debug"
	"github.com/signadot/doctrack/snap"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

const DefaultShards = 64

var ErrNotTracked = errors.New("not tracked")

// NotTrackedError reports a handle with no registered baseline.
type NotTrackedError struct {
	Handle Handle
}

func (e *NotTrackedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotTracked, e.Handle)
}

func (e *NotTrackedError) Unwrap() error {
	return ErrNotTracked
}

// Handle identifies a tracked entity. The zero Handle identifies nothing.
type Handle struct {
	id uuid.UUID
}

// NewHandle returns a new, time ordered handle.
func NewHandle() Handle {
	return Handle{id: uuid.Must(uuid.NewV7())}
}

func ParseHandle(s string) (Handle, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Handle{}, err
	}
	return Handle{id: id}, nil
}

func (h Handle) IsZero() bool {
	return h.id == uuid.Nil
}

func (h Handle) String() string {
	return h.id.String()
}

// Entry is what the store keeps for a tracked entity.
type Entry struct {
	// Entity is the caller's opaque reference to the tracked object.
	Entity   any
	Type     string
	Baseline *snap.Node
	Tracked  time.Time
}

type shard struct {
	mu      sync.RWMutex
	entries map[Handle]Entry
}

type Store struct {
	shards []shard
	mask   uint64
}

// New returns a store with n shards, rounded up to a power of two. A non
// positive n selects DefaultShards.
func New(n int) *Store {
	if n <= 0 {
		n = DefaultShards
	}
	n = 1 << bits.Len(uint(n-1))
	s := &Store{
		shards: make([]shard, n),
		mask:   uint64(n - 1),
	}
	for i := range s.shards {
		s.shards[i].entries = map[Handle]Entry{}
	}
	return s
}

func (s *Store) shardFor(h Handle) *shard {
	return &s.shards[xxhash.Sum64(h.id[:])&s.mask]
}

// Put registers e under h, replacing any previous entry.
func (s *Store) Put(h Handle, e Entry) {
	sh := s.shardFor(h)
	sh.mu.Lock()
	sh.entries[h] = e
	sh.mu.Unlock()
	if debug.Store() {
		debug.Logf("store put %s (%s)\n", h.String(), e.Type)
	}
}

func (s *Store) Get(h Handle) (Entry, error) {
	sh := s.shardFor(h)
	sh.mu.RLock()
	e, ok := sh.entries[h]
	sh.mu.RUnlock()
	if !ok {
		return Entry{}, &NotTrackedError{Handle: h}
	}
	return e, nil
}

// Update replaces the baseline of an existing entry. It fails with
// ErrNotTracked if h has no entry.
func (s *Store) Update(h Handle, baseline *snap.Node) error {
	sh := s.shardFor(h)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, ok := sh.entries[h]
	if !ok {
		return &NotTrackedError{Handle: h}
	}
	e.Baseline = baseline
	e.Tracked = time.Now()
	sh.entries[h] = e
	return nil
}

// Delete removes the entry of h, reporting whether there was one.
func (s *Store) Delete(h Handle) bool {
	sh := s.shardFor(h)
	sh.mu.Lock()
	_, ok := sh.entries[h]
	delete(sh.entries, h)
	sh.mu.Unlock()
	if debug.Store() {
		debug.Logf("store delete %s: %t\n", h.String(), ok)
	}
	return ok
}

func (s *Store) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.entries)
		sh.mu.RUnlock()
	}
	return n
}

func (s *Store) Clear() {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		clear(sh.entries)
		sh.mu.Unlock()
	}
}

// Range calls f for each entry until f returns false. Each shard is read
// locked while its entries are visited, so f must not modify the store.
func (s *Store) Range(f func(Handle, Entry) bool) {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		for h, e := range sh.entries {
			if !f(h, e) {
				sh.mu.RUnlock()
				return
			}
		}
		sh.mu.RUnlock()
	}
}
