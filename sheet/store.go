// ABOUTME: In-memory row store with last-synced snapshot and pending-write tracking
// ABOUTME: Sole owner of the working set; dirty detection compares against the snapshot map
package sheet

import (
	"sync"

	"github.com/koochoy97/sheet-app/models"
)

// CellKey addresses one field of one row.
type CellKey struct {
	Row   models.RowID
	Field models.Field
}

// Store holds the working set of rows for the current client-filter
// scope plus the snapshot map of last-synced normalized values. Commits
// to different cells may complete concurrently, so mutations are guarded
// by a mutex; each completion touches only its own snapshot entry and
// pending token.
type Store struct {
	mu       sync.Mutex
	rows     []models.Row
	snapshot map[CellKey]string
	pending  map[CellKey]struct{}
	loaded   bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		snapshot: make(map[CellKey]string),
		pending:  make(map[CellKey]struct{}),
	}
}

// ReplaceAll swaps in a freshly fetched row set. The snapshot map is
// rebuilt wholesale only on the first load after Reset, so a stale
// re-render cannot clobber an in-progress snapshot.
func (s *Store) ReplaceAll(rows []models.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]models.Row(nil), rows...)
	if s.loaded {
		return
	}
	s.loaded = true
	s.snapshot = make(map[CellKey]string, len(rows)*len(models.Columns))
	for i := range s.rows {
		s.seedSnapshotLocked(&s.rows[i])
	}
}

// Reset clears the loaded guard and the working set, ahead of a fetch
// for a new client-filter scope.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	s.loaded = false
	s.snapshot = make(map[CellKey]string)
	s.pending = make(map[CellKey]struct{})
}

// Loaded reports whether the initial fetch for this scope completed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Rows returns a copy of the current working set.
func (s *Store) Rows() []models.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Row(nil), s.rows...)
}

// Row returns the row with the given id.
func (s *Store) Row(id models.RowID) (models.Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			return s.rows[i], true
		}
	}
	return models.Row{}, false
}

// ApplyLocalEdit replaces the field value in memory immediately, with no
// network call. This is the only path by which visible state changes
// while the user types.
func (s *Store) ApplyLocalEdit(id models.RowID, field models.Field, raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].SetField(field, raw)
			return true
		}
	}
	return false
}

// Dirty reports whether the candidate value differs from the last-synced
// snapshot for the cell. A write is issued only when this is true.
func (s *Store) Dirty(key CellKey, raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved, ok := s.snapshot[key]
	if !ok {
		return true
	}
	return models.Normalize(key.Field, raw) != saved
}

// RecordSyncSuccess updates the snapshot entry after a successful
// per-field write.
func (s *Store) RecordSyncSuccess(key CellKey, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot[key] = models.Normalize(key.Field, raw)
}

// SnapshotValue exposes the stored snapshot entry, mainly for tests and
// diagnostics.
func (s *Store) SnapshotValue(key CellKey) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.snapshot[key]
	return v, ok
}

// PrependRow inserts a freshly created row at the top and seeds snapshot
// entries for every column so the new row is not immediately dirty.
func (s *Store) PrependRow(row models.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]models.Row{row}, s.rows...)
	s.seedSnapshotLocked(&s.rows[0])
}

// RemoveRows drops rows from the visible set after a successful archive,
// clearing their snapshot entries and pending tokens.
func (s *Store) RemoveRows(ids []models.RowID) {
	drop := make(map[models.RowID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, row := range s.rows {
		if !drop[row.ID] {
			kept = append(kept, row)
		}
	}
	s.rows = kept
	for key := range s.snapshot {
		if drop[key.Row] {
			delete(s.snapshot, key)
		}
	}
	for key := range s.pending {
		if drop[key.Row] {
			delete(s.pending, key)
		}
	}
}

// MarkPending records an in-flight write for UI feedback.
func (s *Store) MarkPending(key CellKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[key] = struct{}{}
}

// ClearPending removes the in-flight marker, on completion or failure.
func (s *Store) ClearPending(key CellKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, key)
}

// Pending reports whether a write for the cell is in flight.
func (s *Store) Pending(key CellKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

// PendingCount returns the number of in-flight writes.
func (s *Store) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Store) seedSnapshotLocked(row *models.Row) {
	for _, col := range models.Columns {
		key := CellKey{Row: row.ID, Field: col.Key}
		s.snapshot[key] = models.Normalize(col.Key, row.FieldValue(col.Key))
	}
}
