// ABOUTME: Tests for the cell edit controller
// ABOUTME: Validates baseline short-circuit, full payloads, failure retention, and concurrent commits
package sheet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/rest"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

type fakeWriter struct {
	mu       sync.Mutex
	calls    int
	payloads []map[string]any
	ids      []int64
	err      error
	block    chan struct{} // when set, UpdateField waits until closed
}

func (w *fakeWriter) UpdateField(ctx context.Context, recordID int64, payload map[string]any) (map[string]any, error) {
	if w.block != nil {
		<-w.block
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	w.ids = append(w.ids, recordID)
	w.payloads = append(w.payloads, payload)
	return nil, w.err
}

func (w *fakeWriter) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

func editorFixture(rows ...models.Row) (*Store, *fakeWriter, *CellEditor) {
	store := NewStore()
	store.ReplaceAll(rows)
	writer := &fakeWriter{}
	return store, writer, NewCellEditor(store, writer)
}

func TestCommitCleanValueNoWrite(t *testing.T) {
	_, writer, editor := editorFixture(syncedRow(1, "Acme"))

	editor.Focus("1", models.FieldCompany)
	result, err := editor.Commit(context.Background(), "1", models.FieldCompany, "Acme")
	require.NoError(t, err)
	assert.False(t, result.Saved)
	assert.Equal(t, 0, writer.callCount())
}

func TestCommitWhitespaceOnlyChangeNoWrite(t *testing.T) {
	_, writer, editor := editorFixture(syncedRow(1, "Acme"))

	editor.Focus("1", models.FieldCompany)
	_, err := editor.Commit(context.Background(), "1", models.FieldCompany, "  Acme  ")
	require.NoError(t, err)
	assert.Equal(t, 0, writer.callCount())
}

func TestCommitDirtySendsFullPayload(t *testing.T) {
	row := syncedRow(1, "Acme")
	row.Status = "Agendada"
	row.Score = "7"
	store, writer, editor := editorFixture(row)

	editor.Focus("1", models.FieldCompany)
	result, err := editor.Commit(context.Background(), "1", models.FieldCompany, "Acme Labs")
	require.NoError(t, err)
	assert.True(t, result.Saved)

	require.Equal(t, 1, writer.callCount())
	assert.Equal(t, int64(1), writer.ids[0])
	payload := writer.payloads[0]
	assert.Equal(t, "Acme Labs", payload["company"], "changed field already applied")
	assert.Equal(t, "Agendada", payload["status"], "unchanged fields travel too")
	assert.Equal(t, 7.0, payload["score"])

	// Snapshot advanced: the same value is clean now.
	assert.False(t, store.Dirty(CellKey{Row: "1", Field: models.FieldCompany}, "Acme Labs"))
}

func TestCommitFailureKeepsLocalValueAndSnapshot(t *testing.T) {
	store, writer, editor := editorFixture(syncedRow(1, "Acme"))
	writer.err = errors.New("boom")

	editor.Focus("1", models.FieldCompany)
	result, err := editor.Commit(context.Background(), "1", models.FieldCompany, "Acme Labs")
	require.Error(t, err)
	assert.False(t, result.Saved)

	// No rollback: the optimistic value stays visible.
	row, _ := store.Row("1")
	assert.Equal(t, "Acme Labs", row.Company)

	// Snapshot unchanged, so a later commit retries the write.
	key := CellKey{Row: "1", Field: models.FieldCompany}
	assert.True(t, store.Dirty(key, "Acme Labs"))

	writer.err = nil
	result, err = editor.Commit(context.Background(), "1", models.FieldCompany, "Acme Labs")
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Equal(t, 2, writer.callCount())
}

func TestCommitUnsyncedRowRejected(t *testing.T) {
	local := models.Row{ID: models.NewLocalRowID(), Company: "Draft"}
	_, writer, editor := editorFixture(local)

	editor.Focus(local.ID, models.FieldCompany)
	_, err := editor.Commit(context.Background(), local.ID, models.FieldCompany, "Edited")
	var vErr *rest.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, writer.callCount())
}

func TestCommitMissingRow(t *testing.T) {
	_, _, editor := editorFixture()
	_, err := editor.Commit(context.Background(), "ghost", models.FieldCompany, "x")
	require.Error(t, err)
}

func TestCommitRevertAfterEarlierSave(t *testing.T) {
	store, writer, editor := editorFixture(syncedRow(1, "Acme"))

	editor.Focus("1", models.FieldCompany)
	_, err := editor.Commit(context.Background(), "1", models.FieldCompany, "Acme Labs")
	require.NoError(t, err)

	// Typing the original value back is a change relative to the new
	// snapshot and must be written.
	editor.Focus("1", models.FieldCompany)
	result, err := editor.Commit(context.Background(), "1", models.FieldCompany, "Acme")
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Equal(t, 2, writer.callCount())
	assert.False(t, store.Dirty(CellKey{Row: "1", Field: models.FieldCompany}, "Acme"))
}

func TestCommitCarriesOtherFieldsCommittedValues(t *testing.T) {
	_, writer, editor := editorFixture(syncedRow(1, "Acme"))

	editor.Focus("1", models.FieldFeedback)
	_, err := editor.Commit(context.Background(), "1", models.FieldFeedback, "gran reunión")
	require.NoError(t, err)

	editor.Focus("1", models.FieldScore)
	_, err = editor.Commit(context.Background(), "1", models.FieldScore, "9")
	require.NoError(t, err)

	require.Equal(t, 2, writer.callCount())
	second := writer.payloads[1]
	assert.Equal(t, "gran reunión", second["feedback"], "payload never omits another field's committed value")
	assert.Equal(t, 9.0, second["score"])
}

func TestConcurrentCommitsDistinctCells(t *testing.T) {
	store, writer, editor := editorFixture(syncedRow(1, "Acme"))
	writer.block = make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = editor.Commit(context.Background(), "1", models.FieldCompany, "Acme Labs")
	}()
	go func() {
		defer wg.Done()
		_, _ = editor.Commit(context.Background(), "1", models.FieldScore, "5")
	}()

	// Both writes are in flight together; completions in either order
	// touch only their own snapshot entry.
	close(writer.block)
	wg.Wait()

	assert.Equal(t, 2, writer.callCount())
	assert.False(t, store.Dirty(CellKey{Row: "1", Field: models.FieldCompany}, "Acme Labs"))
	assert.False(t, store.Dirty(CellKey{Row: "1", Field: models.FieldScore}, "5"))
	assert.Equal(t, 0, store.PendingCount(), "pending markers cleared after completion")
}

func TestCommitMarksPendingWhileInFlight(t *testing.T) {
	store, writer, editor := editorFixture(syncedRow(1, "Acme"))
	writer.block = make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = editor.Commit(context.Background(), "1", models.FieldCompany, "Acme Labs")
	}()

	key := CellKey{Row: "1", Field: models.FieldCompany}
	waitFor(t, func() bool { return store.Pending(key) })
	close(writer.block)
	<-done
	assert.False(t, store.Pending(key))
}
