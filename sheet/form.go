// ABOUTME: Create/duplicate form controller with required-field validation
// ABOUTME: Draft state disjoint from the row store; no partial submissions
package sheet

import (
	"context"
	"strings"

	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/rest"
)

// RecordCreator is the slice of the remote store client a create needs.
type RecordCreator interface {
	CreateRow(ctx context.Context, payload map[string]any) (models.Row, error)
}

// RequiredFields must be non-empty after trimming before a create is
// submitted.
var RequiredFields = []models.Field{
	models.FieldCompany,
	models.FieldFecha,
	models.FieldStatus,
	models.FieldCliente,
}

// CreateForm holds a draft record for creation or duplication. The draft
// never touches the row store until the remote create succeeds.
type CreateForm struct {
	Values map[models.Field]string
	Errors map[models.Field]string
}

// NewCreateForm returns an empty draft. An active client filter is
// pre-applied as the draft's client.
func NewCreateForm(clientFilter string) *CreateForm {
	f := &CreateForm{
		Values: make(map[models.Field]string),
		Errors: make(map[models.Field]string),
	}
	if clientFilter != "" && clientFilter != models.AllClients {
		f.Values[models.FieldCliente] = clientFilter
	}
	return f
}

// NewDuplicateForm pre-seeds a draft from an existing row. When a client
// filter is active it wins over the row's own client label.
func NewDuplicateForm(row models.Row, clientFilter string) *CreateForm {
	f := NewCreateForm(clientFilter)
	for _, col := range models.Columns {
		if col.Key == models.FieldCliente {
			continue
		}
		f.Values[col.Key] = row.FieldValue(col.Key)
	}
	if _, ok := f.Values[models.FieldCliente]; !ok {
		f.Values[models.FieldCliente] = row.Cliente
	}
	return f
}

// Set updates one draft field and clears its error.
func (f *CreateForm) Set(field models.Field, value string) {
	f.Values[field] = value
	delete(f.Errors, field)
}

// Validate checks the required fields, filling the field-to-message map.
// Any violation aborts submission; there is no partial submit.
func (f *CreateForm) Validate() bool {
	f.Errors = make(map[models.Field]string)
	for _, field := range RequiredFields {
		if strings.TrimSpace(f.Values[field]) == "" {
			f.Errors[field] = "campo obligatorio"
		}
	}
	return len(f.Errors) == 0
}

// ResolveClient maps the draft's client value (an id string or a human
// label) to a known client. Creation is rejected client-side when no
// client resolves, so no orphaned record is ever written.
func (f *CreateForm) ResolveClient(clients []models.Client) (models.Client, bool) {
	needle := strings.TrimSpace(f.Values[models.FieldCliente])
	if needle == "" {
		return models.Client{}, false
	}
	for _, cl := range clients {
		if cl.Value == needle {
			return cl, true
		}
	}
	for _, cl := range clients {
		if strings.EqualFold(cl.Label, needle) {
			return cl, true
		}
	}
	return models.Client{}, false
}

// Prepare validates the draft, resolves its client, and builds the
// create payload. All form map access happens here, so a caller that
// issues the write on another goroutine hands it the returned payload
// and never touches the form off-thread.
func (f *CreateForm) Prepare(clients []models.Client) (map[string]any, error) {
	if !f.Validate() {
		return nil, &rest.ValidationError{Message: "faltan campos obligatorios"}
	}
	client, ok := f.ResolveClient(clients)
	if !ok {
		f.Errors[models.FieldCliente] = "cliente desconocido"
		return nil, &rest.ValidationError{Field: string(models.FieldCliente), Message: "cliente desconocido"}
	}

	draft := models.Row{}
	for _, col := range models.Columns {
		draft.SetField(col.Key, f.Values[col.Key])
	}
	draft.Cliente = client.Label

	payload := rest.BuildPayload(draft)
	payload["client"] = client.Label
	if client.ID != nil {
		payload["client_id"] = *client.ID
	}
	payload["archived"] = false
	return payload, nil
}

// Submit validates the draft, resolves its client, and issues the create
// write. On success the mapped row is prepended to the store with its
// snapshot entries seeded; on failure the draft is retained unchanged.
func (f *CreateForm) Submit(ctx context.Context, creator RecordCreator, clients []models.Client, store *Store) (models.Row, error) {
	payload, err := f.Prepare(clients)
	if err != nil {
		return models.Row{}, err
	}
	row, err := creator.CreateRow(ctx, payload)
	if err != nil {
		return models.Row{}, err
	}
	store.PrependRow(row)
	return row, nil
}

// ResetForAnother clears the draft for "save and create another",
// preserving the client.
func (f *CreateForm) ResetForAnother() {
	cliente := f.Values[models.FieldCliente]
	f.Values = make(map[models.Field]string)
	f.Errors = make(map[models.Field]string)
	f.Values[models.FieldCliente] = cliente
}
