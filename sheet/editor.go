// ABOUTME: Per-cell commit controller: focus baseline, dirty check, pending write
// ABOUTME: Optimistic edits stay local; only changed cells reach the remote store
package sheet

import (
	"context"
	"fmt"
	"sync"

	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/rest"
)

// RecordWriter is the slice of the remote store client a cell commit
// needs.
type RecordWriter interface {
	UpdateField(ctx context.Context, recordID int64, payload map[string]any) (map[string]any, error)
}

// CommitResult describes the outcome of one commit attempt.
type CommitResult struct {
	Key   CellKey
	Saved bool // false when the value was clean and no write was issued
}

// CellEditor drives the edit lifecycle of individual cells. Keystrokes
// apply to the store immediately; the remote write happens on commit
// (blur for text inputs, change for pickers, close for the line
// multi-select) and only when the normalized value is dirty.
type CellEditor struct {
	store  *Store
	writer RecordWriter

	mu        sync.Mutex
	baselines map[CellKey]string
}

// NewCellEditor creates an editor over the store.
func NewCellEditor(store *Store, writer RecordWriter) *CellEditor {
	return &CellEditor{
		store:     store,
		writer:    writer,
		baselines: make(map[CellKey]string),
	}
}

// Focus captures the cell's current normalized value as the comparison
// baseline for this edit session.
func (e *CellEditor) Focus(id models.RowID, field models.Field) {
	row, ok := e.store.Row(id)
	if !ok {
		return
	}
	key := CellKey{Row: id, Field: field}
	e.mu.Lock()
	e.baselines[key] = models.Normalize(field, row.FieldValue(field))
	e.mu.Unlock()
}

// Input applies one keystroke's worth of edit to the store, no network
// call.
func (e *CellEditor) Input(id models.RowID, field models.Field, raw string) {
	e.store.ApplyLocalEdit(id, field, raw)
}

// Commit finishes an edit session. The edit is applied locally first and
// retained even when the write fails; the caller surfaces the error and
// the snapshot stays unchanged so a later commit retries naturally.
func (e *CellEditor) Commit(ctx context.Context, id models.RowID, field models.Field, raw string) (CommitResult, error) {
	key := CellKey{Row: id, Field: field}
	result := CommitResult{Key: key}

	normalized := models.Normalize(field, raw)
	e.mu.Lock()
	baseline, hadBaseline := e.baselines[key]
	delete(e.baselines, key)
	e.mu.Unlock()
	if hadBaseline && baseline == normalized {
		return result, nil
	}
	if !e.store.Dirty(key, raw) {
		return result, nil
	}

	if !e.store.ApplyLocalEdit(id, field, raw) {
		return result, fmt.Errorf("row %s not found", id)
	}
	row, _ := e.store.Row(id)
	if !row.Synced() {
		return result, &rest.ValidationError{Field: string(field), Message: "row has no remote record yet"}
	}

	e.store.MarkPending(key)
	defer e.store.ClearPending(key)

	if _, err := e.writer.UpdateField(ctx, *row.RecordID, rest.BuildPayload(row)); err != nil {
		return result, err
	}
	e.store.RecordSyncSuccess(key, raw)
	result.Saved = true
	return result, nil
}
