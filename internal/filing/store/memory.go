package store

import (
	"context"
	"fmt"
	"sync"

	"pscfiling/internal/filing/models"
	"pscfiling/pkg/platform/sentinel"
	psync "pscfiling/pkg/platform/sync"
)

// InMemoryStore keeps encoded filings in one map per variant. Documents are
// stored encoded so callers never share memory with the store. mu guards the
// maps; keys serializes the etag compare-and-set of one filing so decoding
// happens outside mu.
type InMemoryStore struct {
	mu          sync.RWMutex
	keys        *psync.ShardedMutex
	collections map[models.Variant]map[string][]byte
}

// NewInMemory constructs an empty in-memory filing store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		keys: psync.NewShardedMutex(0),
		collections: map[models.Variant]map[string][]byte{
			models.VariantIndividual:         {},
			models.VariantWithIdentification: {},
		},
	}
}

func (s *InMemoryStore) Create(_ context.Context, f models.Filing) error {
	data, err := models.Encode(f)
	if err != nil {
		return fmt.Errorf("encode filing: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.collections[f.Variant()]
	if _, exists := coll[f.Common().ID]; exists {
		return fmt.Errorf("filing %s already exists: %w", f.Common().ID, sentinel.ErrConflict)
	}
	coll[f.Common().ID] = data
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, variant models.Variant, id string) (models.Filing, error) {
	s.mu.RLock()
	data, ok := s.collections[variant][id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("filing not found: %w", sentinel.ErrNotFound)
	}
	return decode(variant, data)
}

func (s *InMemoryStore) Update(_ context.Context, f models.Filing, expectedEtag string) error {
	data, err := models.Encode(f)
	if err != nil {
		return fmt.Errorf("encode filing: %w", err)
	}
	id := f.Common().ID
	return s.keys.With(string(f.Variant())+"/"+id, func() error {
		s.mu.RLock()
		current, ok := s.collections[f.Variant()][id]
		s.mu.RUnlock()
		if !ok {
			return fmt.Errorf("filing not found: %w", sentinel.ErrNotFound)
		}
		stored, err := decode(f.Variant(), current)
		if err != nil {
			return err
		}
		if stored.Common().Etag != expectedEtag {
			return fmt.Errorf("filing %s etag changed: %w", id, sentinel.ErrConflict)
		}
		s.mu.Lock()
		s.collections[f.Variant()][id] = data
		s.mu.Unlock()
		return nil
	})
}
