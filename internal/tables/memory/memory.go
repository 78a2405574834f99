// Package memory implements tables.Repository with an in-process store.
// Suitable for development and demos; the sqlite repository backs real
// deployments.
package memory

import (
	"context"
	"sync"

	"doctab/internal/core"
	"doctab/internal/tables"
)

type Store struct {
	mu        sync.Mutex
	seed      bool
	byDoc     map[string][]string   // document id -> table ids, registration order
	byID      map[string]core.Table // flat id index
	docsSeen  map[string]struct{}
}

var _ tables.Repository = (*Store)(nil)

// New creates an empty store. When seed is true, listing an unseen
// document materializes the fixed sample set for that id first.
func New(seed bool) *Store {
	return &Store{
		seed:     seed,
		byDoc:    make(map[string][]string),
		byID:     make(map[string]core.Table),
		docsSeen: make(map[string]struct{}),
	}
}

func (s *Store) SaveTable(_ context.Context, t core.Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(t)
	s.docsSeen[t.DocumentID] = struct{}{}
	return nil
}

// save assumes s.mu is held. Re-saving an id replaces the table in place
// without duplicating it in the document's ordering.
func (s *Store) save(t core.Table) {
	if _, exists := s.byID[t.ID]; !exists {
		s.byDoc[t.DocumentID] = append(s.byDoc[t.DocumentID], t.ID)
	}
	s.byID[t.ID] = t
}

func (s *Store) ListTables(_ context.Context, documentID string, page int) ([]core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bootstrap(documentID)

	ids := s.byDoc[documentID]
	out := make([]core.Table, 0, len(ids))
	for _, id := range ids {
		t := s.byID[id]
		if page > 0 && t.Page != page {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) GetTableByID(_ context.Context, tableID string) (core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[tableID]
	if !ok {
		return core.Table{}, core.ErrTableNotFound
	}
	return t, nil
}

// bootstrap seeds the demo sample set for a document id seen for the
// first time. Assumes s.mu is held. Idempotent: the sample content is
// deterministic per document id and seeding is recorded.
func (s *Store) bootstrap(documentID string) {
	if !s.seed {
		return
	}
	if _, seen := s.docsSeen[documentID]; seen {
		return
	}
	s.docsSeen[documentID] = struct{}{}
	for _, t := range tables.SampleTables(documentID) {
		s.save(t)
	}
}

// Size returns the number of stored tables.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
