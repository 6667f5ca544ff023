// ABOUTME: Tests for the create/duplicate form controller
// ABOUTME: Validates required fields, client resolution, and submit side effects
package sheet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/rest"
)

type fakeCreator struct {
	payloads []map[string]any
	row      models.Row
	err      error
}

func (c *fakeCreator) CreateRow(ctx context.Context, payload map[string]any) (models.Row, error) {
	c.payloads = append(c.payloads, payload)
	return c.row, c.err
}

var testClients = []models.Client{
	{ID: int64Ptr(46), Value: "46", Label: "Siete"},
	{ID: int64Ptr(99), Value: "99", Label: "Acme Corp"},
}

func int64Ptr(n int64) *int64 { return &n }

func validForm() *CreateForm {
	f := NewCreateForm("")
	f.Set(models.FieldCompany, "Beta")
	f.Set(models.FieldFecha, "2026-09-01")
	f.Set(models.FieldStatus, "Agendada")
	f.Set(models.FieldCliente, "46")
	return f
}

func TestNewCreateFormAppliesClientFilter(t *testing.T) {
	f := NewCreateForm("46")
	assert.Equal(t, "46", f.Values[models.FieldCliente])

	f = NewCreateForm(models.AllClients)
	assert.Empty(t, f.Values[models.FieldCliente])
}

func TestValidateRequiredFields(t *testing.T) {
	f := NewCreateForm("")
	assert.False(t, f.Validate())
	for _, field := range RequiredFields {
		assert.Contains(t, f.Errors, field)
	}

	f = validForm()
	assert.True(t, f.Validate())
	assert.Empty(t, f.Errors)
}

func TestValidateWhitespaceOnlyFails(t *testing.T) {
	f := validForm()
	f.Set(models.FieldCompany, "   ")
	assert.False(t, f.Validate())
	assert.Contains(t, f.Errors, models.FieldCompany)
}

func TestSetClearsFieldError(t *testing.T) {
	f := NewCreateForm("")
	f.Validate()
	require.Contains(t, f.Errors, models.FieldCompany)
	f.Set(models.FieldCompany, "Beta")
	assert.NotContains(t, f.Errors, models.FieldCompany)
}

func TestResolveClient(t *testing.T) {
	f := validForm()

	cl, ok := f.ResolveClient(testClients)
	require.True(t, ok)
	assert.Equal(t, "Siete", cl.Label)

	f.Set(models.FieldCliente, "acme corp")
	cl, ok = f.ResolveClient(testClients)
	require.True(t, ok, "labels resolve case-insensitively")
	assert.Equal(t, "99", cl.Value)

	f.Set(models.FieldCliente, "desconocido")
	_, ok = f.ResolveClient(testClients)
	assert.False(t, ok)
}

func TestPrepareBuildsPayloadWithoutWriting(t *testing.T) {
	payload, err := validForm().Prepare(testClients)
	require.NoError(t, err)
	assert.Equal(t, "Beta", payload["company"])
	assert.Equal(t, "Siete", payload["client"])
	assert.Equal(t, int64(46), payload["client_id"])
	assert.Equal(t, false, payload["archived"])

	f := NewCreateForm("")
	_, err = f.Prepare(testClients)
	var vErr *rest.ValidationError
	require.ErrorAs(t, err, &vErr)
	for _, field := range RequiredFields {
		assert.Contains(t, f.Errors, field)
	}
}

func TestSubmitSuccessPrependsRow(t *testing.T) {
	store := NewStore()
	store.ReplaceAll([]models.Row{syncedRow(1, "Existing")})

	created := syncedRow(500, "Beta")
	creator := &fakeCreator{row: created}

	row, err := validForm().Submit(context.Background(), creator, testClients, store)
	require.NoError(t, err)
	assert.Equal(t, models.RowID("500"), row.ID)

	require.Len(t, creator.payloads, 1)
	payload := creator.payloads[0]
	assert.Equal(t, "Beta", payload["company"])
	assert.Equal(t, "Siete", payload["client"], "client label resolved from id")
	assert.Equal(t, int64(46), payload["client_id"])
	assert.Equal(t, false, payload["archived"])

	rows := store.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, models.RowID("500"), rows[0].ID)
	assert.False(t, store.Dirty(CellKey{Row: "500", Field: models.FieldCompany}, "Beta"), "new row snapshot seeded")
}

func TestSubmitValidationFailureNoWrite(t *testing.T) {
	store := NewStore()
	creator := &fakeCreator{}

	_, err := NewCreateForm("").Submit(context.Background(), creator, testClients, store)
	var vErr *rest.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, creator.payloads, "no partial submission")
	assert.Empty(t, store.Rows())
}

func TestSubmitUnknownClientRejected(t *testing.T) {
	f := validForm()
	f.Set(models.FieldCliente, "nadie")
	creator := &fakeCreator{}

	_, err := f.Submit(context.Background(), creator, testClients, NewStore())
	var vErr *rest.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, f.Errors, models.FieldCliente)
	assert.Empty(t, creator.payloads)
}

func TestSubmitRemoteFailureKeepsDraft(t *testing.T) {
	f := validForm()
	store := NewStore()
	creator := &fakeCreator{err: errors.New("boom")}

	_, err := f.Submit(context.Background(), creator, testClients, store)
	require.Error(t, err)
	assert.Empty(t, store.Rows(), "nothing reaches the store on failure")
	assert.Equal(t, "Beta", f.Values[models.FieldCompany], "draft survives for retry")
}

func TestNewDuplicateForm(t *testing.T) {
	source := syncedRow(120, "Acme")
	source.Status = "Realizada"
	source.Cliente = "Siete"
	source.AEMails = []string{"ae@siete.com"}
	source.LineaNegocio = []int{1, 3}

	f := NewDuplicateForm(source, "")
	assert.Equal(t, "Acme", f.Values[models.FieldCompany])
	assert.Equal(t, "Realizada", f.Values[models.FieldStatus])
	assert.Equal(t, "Siete", f.Values[models.FieldCliente])
	assert.Equal(t, "ae@siete.com", f.Values[models.FieldAEMails])
	assert.Equal(t, "1,3", f.Values[models.FieldLineaNegocio])

	// An active client filter wins over the source row's client.
	f = NewDuplicateForm(source, "99")
	assert.Equal(t, "99", f.Values[models.FieldCliente])
}

func TestResetForAnotherKeepsClient(t *testing.T) {
	f := validForm()
	f.ResetForAnother()
	assert.Equal(t, "46", f.Values[models.FieldCliente])
	assert.Empty(t, f.Values[models.FieldCompany])
	assert.Empty(t, f.Errors)
}
