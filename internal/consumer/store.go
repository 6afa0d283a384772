package consumer

import (
	"sync"
	"time"

	"github.com/mgreco/oddsedge/pkg/models"
)

// SnapshotStore holds the latest snapshot per (source, sport). Each new
// snapshot replaces the previous one wholesale; the engine reads a
// consistent pair at tick time.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[storeKey]models.Snapshot
}

type storeKey struct {
	source models.Source
	sport  string
}

// NewSnapshotStore creates an empty store
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[storeKey]models.Snapshot),
	}
}

// Put replaces the stored snapshot for its source and sport, unless a
// newer capture is already stored (streams can deliver out of order
// across reconnects)
func (s *SnapshotStore) Put(snap models.Snapshot) {
	key := storeKey{source: snap.Source, sport: snap.Sport}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.snapshots[key]; ok && existing.CapturedAt.After(snap.CapturedAt) {
		return
	}
	s.snapshots[key] = snap
}

// Pair returns the current reference and comparison snapshots for a sport,
// both no older than maxAge. ok is false when either side is missing or
// stale.
func (s *SnapshotStore) Pair(sport string, maxAge time.Duration) (ref, cmp models.Snapshot, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, refOK := s.snapshots[storeKey{source: models.SourceReference, sport: sport}]
	cmp, cmpOK := s.snapshots[storeKey{source: models.SourceComparison, sport: sport}]
	if !refOK || !cmpOK {
		return models.Snapshot{}, models.Snapshot{}, false
	}

	cutoff := time.Now().Add(-maxAge)
	if ref.CapturedAt.Before(cutoff) || cmp.CapturedAt.Before(cutoff) {
		return models.Snapshot{}, models.Snapshot{}, false
	}

	return ref, cmp, true
}
