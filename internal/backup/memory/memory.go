// Package memory is an in-process mirror used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fullbalance/internal/backup"
)

type Store struct {
	mu   sync.Mutex
	rows []backup.Row
}

var _ backup.Mirror = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendRow stores the row and returns a synthetic row reference.
func (s *Store) AppendRow(_ context.Context, row backup.Row) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []backup.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]backup.Row(nil), s.rows...)
}
