// Package memory is an in-process sheets.TableWriter used for
// development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"doctab/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Table
}

func New() *Store {
	return &Store{}
}

// AppendTable stores the table and returns a synthetic range reference.
func (s *Store) AppendTable(_ context.Context, t core.Table) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, t)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Tables returns a copy of everything appended so far.
func (s *Store) Tables() []core.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Table, len(s.items))
	copy(out, s.items)
	return out
}
