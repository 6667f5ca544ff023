// ABOUTME: Boundary parser between wire-format records and the Row model
// ABOUTME: Normalizes every key-name and encoding variant into one canonical shape
package rest

import (
	"strconv"
	"strings"

	"github.com/koochoy97/sheet-app/models"
)

// MapRecord converts one wire record into a Row. It is total: absent or
// malformed fields become empty strings or empty collections, never an
// error. Key-name fallbacks live here and nowhere else.
func MapRecord(rec map[string]any) models.Row {
	recordID := pickInt64(rec, "Id", "id")
	row := models.Row{
		RecordID:        recordID,
		ClientID:        pickInt64(rec, "client_id"),
		Company:         pickString(rec, "company"),
		Fecha:           pickString(rec, "celebration_date"),
		Status:          pickString(rec, "status"),
		KDM:             pickString(rec, "kdm"),
		TituloKDM:       pickString(rec, "kdm_title"),
		KDMMail:         pickString(rec, "kdm_mail"),
		TelefonoCliente: pickString(rec, "telefono_cliente", "client_phone"),
		Industria:       pickString(rec, "industry"),
		Empleados:       pickString(rec, "employers_quantity"),
		Score:           pickScore(rec, "score"),
		Feedback:        pickString(rec, "feedback"),
		Cliente:         pickString(rec, "client"),
		CompanyLinkedIn: pickString(rec, "company_linkedin"),
		PersonLinkedIn:  pickString(rec, "person_linkedin"),
		WebURL:          pickString(rec, "web_url"),
		Comments:        pickString(rec, "comments"),
		AEMails:         models.ParseMails(pickAny(rec, "ae_mails", "AE_mails")),
		LineaNegocio:    models.ParseLineIDs(pickAny(rec, "lineas_negocio_ids", "lineas_negocio", "linea_negocio")),
		Archived:        pickBool(rec, "archived"),
		CreatedAt:       pickString(rec, "created_at", "createdAt"),
	}
	if recordID != nil {
		row.ID = models.RowID(strconv.FormatInt(*recordID, 10))
	} else {
		row.ID = models.NewLocalRowID()
	}
	return row
}

// BuildPayload renders the entire editable state of a row as a wire
// payload. Single-field updates send the full payload with the changed
// field already applied; remote-side validation expects a complete
// record.
func BuildPayload(row models.Row) map[string]any {
	var score any
	if v, ok := row.ScoreValue(); ok {
		score = v
	}
	mails := row.AEMails
	if mails == nil {
		mails = []string{}
	}
	lines := row.LineaNegocio
	if lines == nil {
		lines = []int{}
	}
	return map[string]any{
		"company":            row.Company,
		"celebration_date":   row.Fecha,
		"status":             row.Status,
		"kdm":                row.KDM,
		"kdm_title":          row.TituloKDM,
		"kdm_mail":           row.KDMMail,
		"telefono_cliente":   row.TelefonoCliente,
		"industry":           row.Industria,
		"employers_quantity": row.Empleados,
		"score":              score,
		"feedback":           row.Feedback,
		"client":             row.Cliente,
		"company_linkedin":   row.CompanyLinkedIn,
		"person_linkedin":    row.PersonLinkedIn,
		"web_url":            row.WebURL,
		"comments":           row.Comments,
		"ae_mails":           mails,
		"lineas_negocio_ids": lines,
	}
}

// MapClient converts one wire client entity, tolerating the label and id
// key variants the core schema has used over time. Returns false when no
// usable value can be derived.
func MapClient(rec map[string]any) (models.Client, bool) {
	label := pickString(rec, "cliente", "nombre", "name")
	id := pickInt64(rec, "id", "Id", "client_id")
	value := label
	if id != nil {
		value = strconv.FormatInt(*id, 10)
	}
	if value == "" {
		return models.Client{}, false
	}
	if label == "" {
		label = value
	}
	return models.Client{ID: id, Value: value, Label: label}, true
}

// MapBusinessLine converts one wire business-line tuple. Entries missing
// a client id, line id, or label are dropped.
func MapBusinessLine(rec map[string]any) (models.BusinessLine, bool) {
	clientID := pickInt64(rec, "client_id", "cliente_id", "clientId", "clienteId")
	lineID := pickInt64(rec, "linea_negocio_id", "linea_id", "line_id", "lineId", "id", "Id")
	label := pickString(rec, "linea_negocio", "nombre", "name", "label")
	if clientID == nil || lineID == nil || label == "" {
		return models.BusinessLine{}, false
	}
	return models.BusinessLine{ClientID: *clientID, LineID: int(*lineID), Label: label}, true
}

func pickAny(rec map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := rec[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func pickString(rec map[string]any, keys ...string) string {
	switch v := pickAny(rec, keys...).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return ""
	}
}

func pickScore(rec map[string]any, keys ...string) string {
	switch v := pickAny(rec, keys...).(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return models.NormalizeScore(v)
	default:
		return ""
	}
}

func pickInt64(rec map[string]any, keys ...string) *int64 {
	switch v := pickAny(rec, keys...).(type) {
	case float64:
		n := int64(v)
		if float64(n) == v {
			return &n
		}
		return nil
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return &n
		}
		return nil
	default:
		return nil
	}
}

func pickBool(rec map[string]any, keys ...string) bool {
	switch v := pickAny(rec, keys...).(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}
