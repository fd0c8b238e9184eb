package availability

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/churchflow/churchflow-backend/utils"
)

// Sequencer hands out monotonically increasing sequence numbers per key and
// tracks the newest one applied, so a slow refresh that finishes after a
// newer one cannot overwrite it (last-request-wins)
type Sequencer struct {
	mu      sync.Mutex
	next    map[string]uint64
	applied map[string]uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{
		next:    make(map[string]uint64),
		applied: make(map[string]uint64),
	}
}

// Begin reserves the next sequence number for key
func (s *Sequencer) Begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next[key]++
	return s.next[key]
}

// Commit reports whether a result tagged with seq may be applied. A stale
// result (older than the newest applied seq) returns false and is dropped.
func (s *Sequencer) Commit(key string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied[key] {
		return false
	}
	s.applied[key] = seq
	return true
}

// SnapshotStore caches per-day availability answers in Redis. Mutating a
// blockout invalidates the affected days; reads recompute on miss.
type SnapshotStore struct {
	seq *Sequencer
	ttl time.Duration
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		seq: NewSequencer(),
		ttl: 10 * time.Minute,
	}
}

func snapshotKey(date time.Time) string {
	return "availability:day:" + Day(date).Format("2006-01-02")
}

// Get returns the cached answer for a day, utils.ErrCacheMiss when absent
func (s *SnapshotStore) Get(ctx context.Context, date time.Time) (DateAvailability, error) {
	var out DateAvailability
	raw, err := utils.CacheGet(ctx, snapshotKey(date))
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, err
	}
	return out, nil
}

// Refresh recomputes the day's answer and stores it unless a newer refresh
// for the same day already landed
func (s *SnapshotStore) Refresh(ctx context.Context, date time.Time, compute func() (DateAvailability, error)) (DateAvailability, error) {
	key := snapshotKey(date)
	seq := s.seq.Begin(key)

	result, err := compute()
	if err != nil {
		return DateAvailability{}, err
	}

	if !s.seq.Commit(key, seq) {
		// a newer refresh already applied; return our result without caching
		return result, nil
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return result, err
	}
	if err := utils.CacheSet(ctx, key, string(raw), s.ttl); err != nil {
		return result, err
	}
	return result, nil
}

// Invalidate drops the cached answers for every day in [start, end]
func (s *SnapshotStore) Invalidate(ctx context.Context, start, end time.Time) error {
	first, last := Day(start), Day(end)
	if first.After(last) {
		first, last = last, first
	}
	var keys []string
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		keys = append(keys, snapshotKey(d))
	}
	if len(keys) == 0 {
		return nil
	}
	return utils.CacheDel(ctx, keys...)
}
