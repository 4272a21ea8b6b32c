package runlog

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps records in memory for tests or throwaway runs.
type MemoryStore struct {
	mu   sync.Mutex
	recs []RunRecord
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Append(_ context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *MemoryStore) Query(_ context.Context, q RunQuery) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []RunRecord
	for _, r := range s.recs {
		if q.Match(r) {
			res = append(res, r)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Timestamp.Before(res[j].Timestamp) })
	return q.apply(res), nil
}

func (s *MemoryStore) Close() error { return nil }
