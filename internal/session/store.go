package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"dataviz/domain/core"
	"dataviz/domain/dataset"
	"dataviz/internal"
	"dataviz/internal/config"
)

// MemoryStore implements ports.SessionStore on a map guarded by an RWMutex.
// Entries idle for longer than the TTL are treated as gone and are removed by
// Get or by the background sweeper.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[core.SessionID]*dataset.Dataset
	byHash map[core.ContentHash]core.SessionID

	ttl    time.Duration
	max    int
	now    func() time.Time
	logger *internal.Logger
}

// NewMemoryStore creates an empty store bounded by cfg
func NewMemoryStore(cfg config.SessionConfig, logger *internal.Logger) *MemoryStore {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	limit := cfg.MaxSessions
	if limit < 1 {
		limit = 1
	}
	return &MemoryStore{
		items:  make(map[core.SessionID]*dataset.Dataset),
		byHash: make(map[core.ContentHash]core.SessionID),
		ttl:    cfg.TTL,
		max:    limit,
		now:    time.Now,
		logger: logger,
	}
}

// Put stores ds. A dataset with the same content hash as a live entry keeps
// that entry's ID and takes over its upload metadata and table. When the store is full the least recently
// used entry is evicted.
func (s *MemoryStore) Put(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ds == nil || ds.Table == nil {
		return nil, fmt.Errorf("dataset has no table")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !ds.ContentHash.IsEmpty() {
		if id, ok := s.byHash[ds.ContentHash]; ok {
			if existing, ok := s.items[id]; ok && !s.expired(existing, now) {
				if existing.Name != ds.Name {
					s.logger.Debug("[SessionStore] renaming %s from %q to %q", id, existing.Name, ds.Name)
				}
				existing.Name = ds.Name
				existing.MimeType = ds.MimeType
				existing.FileSize = ds.FileSize
				existing.Table = ds.Table
				existing.RecordCount = ds.RecordCount
				existing.FieldCount = ds.FieldCount
				existing.LastUsedAt = now
				s.logger.Debug("[SessionStore] reusing %s for identical upload %q", id, ds.Name)
				return copyOf(existing), nil
			}
		}
	}

	if ds.ID.IsEmpty() {
		ds.ID = core.NewSessionID()
	}
	for len(s.items) >= s.max {
		s.evictOldest()
	}

	stored := copyOf(ds)
	stored.LastUsedAt = now
	if stored.LoadedAt.IsZero() {
		stored.LoadedAt = now
	}
	s.items[stored.ID] = stored
	if !stored.ContentHash.IsEmpty() {
		s.byHash[stored.ContentHash] = stored.ID
	}

	s.logger.Info("[SessionStore] stored %s (%q, %d rows, %d columns)",
		stored.ID, stored.Name, stored.RecordCount, stored.FieldCount)
	return copyOf(stored), nil
}

// Get returns the dataset for id and marks it used
func (s *MemoryStore) Get(ctx context.Context, id core.SessionID) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	now := s.now()
	if s.expired(ds, now) {
		s.remove(id)
		s.logger.Debug("[SessionStore] %s expired", id)
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	ds.LastUsedAt = now
	return copyOf(ds), nil
}

// Delete removes id from the store
func (s *MemoryStore) Delete(ctx context.Context, id core.SessionID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	s.remove(id)
	s.logger.Info("[SessionStore] deleted %s", id)
	return nil
}

// List returns the live datasets ordered by load time
func (s *MemoryStore) List(ctx context.Context) ([]*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]*dataset.Dataset, 0, len(s.items))
	for _, ds := range s.items {
		if s.expired(ds, now) {
			continue
		}
		out = append(out, copyOf(ds))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LoadedAt.Equal(out[j].LoadedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].LoadedAt.Before(out[j].LoadedAt)
	})
	return out, nil
}

// Len reports the number of entries, expired or not
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// CleanupExpired removes entries idle for longer than the TTL and returns
// how many were dropped
func (s *MemoryStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, ds := range s.items {
		if s.expired(ds, now) {
			s.remove(id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("[SessionStore] swept %d expired session(s), %d remaining", removed, len(s.items))
	}
	return removed
}

// StartSweeper runs CleanupExpired every interval until ctx is cancelled.
// The returned channel is closed once the sweeper has stopped.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = time.Minute
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Debug("[SessionStore] sweeper stopped")
				return
			case <-ticker.C:
				s.CleanupExpired()
			}
		}
	}()
	return done
}

func (s *MemoryStore) expired(ds *dataset.Dataset, now time.Time) bool {
	return s.ttl > 0 && now.Sub(ds.LastUsedAt) > s.ttl
}

// evictOldest drops the least recently used entry; callers hold mu
func (s *MemoryStore) evictOldest() {
	var oldest *dataset.Dataset
	for _, ds := range s.items {
		if oldest == nil || ds.LastUsedAt.Before(oldest.LastUsedAt) {
			oldest = ds
		}
	}
	if oldest == nil {
		return
	}
	s.remove(oldest.ID)
	s.logger.Warn("[SessionStore] capacity %d reached, evicted %s", s.max, oldest.ID)
}

func (s *MemoryStore) remove(id core.SessionID) {
	ds, ok := s.items[id]
	if !ok {
		return
	}
	delete(s.items, id)
	if s.byHash[ds.ContentHash] == id {
		delete(s.byHash, ds.ContentHash)
	}
}

// copyOf returns a shallow copy so callers never race on LastUsedAt. The
// table itself is shared; nothing mutates it after load.
func copyOf(ds *dataset.Dataset) *dataset.Dataset {
	cp := *ds
	return &cp
}
