// ABOUTME: Field key vocabulary, column declarations, and normalization rules
// ABOUTME: Canonical per-field value handling shared by the mapper, store, and editors
package models

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Field identifies one editable column of a row.
type Field string

const (
	FieldCompany         Field = "company"
	FieldFecha           Field = "fecha"
	FieldStatus          Field = "status"
	FieldKDM             Field = "kdm"
	FieldTituloKDM       Field = "tituloKdm"
	FieldKDMMail         Field = "kdm_mail"
	FieldTelefono        Field = "telefono_cliente"
	FieldIndustria       Field = "industria"
	FieldEmpleados       Field = "empleados"
	FieldScore           Field = "score"
	FieldFeedback        Field = "feedback"
	FieldCliente         Field = "cliente"
	FieldAEMails         Field = "AE_mails"
	FieldLineaNegocio    Field = "lineaNegocio"
	FieldCompanyLinkedIn Field = "company_linkedin"
	FieldPersonLinkedIn  Field = "person_linkedin"
	FieldWebURL          Field = "web_url"
	FieldComments        Field = "comments"
)

// Column declares one displayed column of the sheet.
type Column struct {
	Key      Field
	Label    string
	Editable bool
}

// Columns is the display order of the sheet. CSV export and snapshot
// seeding follow this order.
var Columns = []Column{
	{Key: FieldCompany, Label: "Company", Editable: true},
	{Key: FieldFecha, Label: "Fecha de celebración", Editable: true},
	{Key: FieldStatus, Label: "Status", Editable: true},
	{Key: FieldKDM, Label: "KDM", Editable: true},
	{Key: FieldTituloKDM, Label: "Título del KDM", Editable: true},
	{Key: FieldKDMMail, Label: "Mail del KDM", Editable: true},
	{Key: FieldTelefono, Label: "Teléfono", Editable: true},
	{Key: FieldIndustria, Label: "Industria", Editable: true},
	{Key: FieldEmpleados, Label: "# Empleados", Editable: true},
	{Key: FieldScore, Label: "Score", Editable: true},
	{Key: FieldFeedback, Label: "Feedback", Editable: true},
	{Key: FieldAEMails, Label: "AE mails", Editable: true},
	{Key: FieldLineaNegocio, Label: "Línea de negocio", Editable: true},
	{Key: FieldCompanyLinkedIn, Label: "LinkedIn empresa", Editable: true},
	{Key: FieldPersonLinkedIn, Label: "LinkedIn persona", Editable: true},
	{Key: FieldWebURL, Label: "Web", Editable: true},
	{Key: FieldComments, Label: "Comentarios", Editable: true},
	{Key: FieldCliente, Label: "Cliente", Editable: false},
}

// Normalize reduces a raw candidate value for field f to the canonical
// string used for dirty-checking. Numeric fields normalize numerically
// (empty stays empty and is distinct from zero), collection fields
// normalize to their canonical JSON form, everything else is trimmed.
func Normalize(f Field, raw string) string {
	switch f {
	case FieldScore:
		return NormalizeScore(raw)
	case FieldAEMails:
		b, _ := json.Marshal(ParseMails(raw))
		return string(b)
	case FieldLineaNegocio:
		b, _ := json.Marshal(ParseLineIDs(raw))
		return string(b)
	default:
		return strings.TrimSpace(raw)
	}
}

// NormalizeScore keeps the empty string empty and renders any numeric
// input in canonical decimal form. Non-numeric input is passed through
// trimmed so a bad value still shows up as dirty.
func NormalizeScore(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return ""
	}
	if n, err := strconv.Atoi(t); err == nil {
		return strconv.Itoa(n)
	}
	if fl, err := strconv.ParseFloat(t, 64); err == nil {
		return strconv.FormatFloat(fl, 'f', -1, 64)
	}
	return t
}

// ParseMails normalizes any wire or user representation of the AE mail
// list into an ordered, trimmed, deduplicated sequence. Accepts native
// arrays, a JSON-encoded array string, or comma/semicolon/newline
// delimited text. Unknown shapes degrade to an empty list.
func ParseMails(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []string:
		return dedupeMails(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
		return dedupeMails(items)
	case string:
		t := strings.TrimSpace(v)
		if t == "" {
			return []string{}
		}
		if strings.HasPrefix(t, "[") {
			var parsed []any
			if err := json.Unmarshal([]byte(t), &parsed); err == nil {
				return ParseMails(parsed)
			}
		}
		return dedupeMails(strings.FieldsFunc(t, func(r rune) bool {
			return r == ',' || r == ';' || r == '\n'
		}))
	default:
		return []string{}
	}
}

func dedupeMails(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		m := strings.TrimSpace(item)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// ParseLineIDs normalizes any wire or user representation of the
// business line set into sorted unique integers. Accepts native arrays,
// a JSON-encoded array string, or delimiter-separated text. Unparseable
// values degrade to an empty set.
func ParseLineIDs(value any) []int {
	switch v := value.(type) {
	case nil:
		return []int{}
	case []int:
		return dedupeLineIDs(v)
	case []any:
		nums := make([]int, 0, len(v))
		for _, item := range v {
			if n, ok := toInt(item); ok {
				nums = append(nums, n)
			}
		}
		return dedupeLineIDs(nums)
	case string:
		t := strings.TrimSpace(v)
		if t == "" {
			return []int{}
		}
		if strings.HasPrefix(t, "[") {
			var parsed []any
			if err := json.Unmarshal([]byte(t), &parsed); err == nil {
				return ParseLineIDs(parsed)
			}
		}
		nums := make([]int, 0, 4)
		for _, part := range strings.FieldsFunc(t, func(r rune) bool {
			return r == ',' || r == ';' || r == '\n'
		}) {
			if n, ok := toInt(strings.TrimSpace(part)); ok {
				nums = append(nums, n)
			}
		}
		return dedupeLineIDs(nums)
	default:
		return []int{}
	}
}

func dedupeLineIDs(nums []int) []int {
	seen := make(map[int]bool, len(nums))
	out := make([]int, 0, len(nums))
	for _, n := range nums {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		n := int(v)
		if float64(n) == v {
			return n, true
		}
		return 0, false
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// FieldValue renders the row's current value for field f as the string a
// cell editor works with (mails one per line, line ids comma separated).
func (r *Row) FieldValue(f Field) string {
	switch f {
	case FieldCompany:
		return r.Company
	case FieldFecha:
		return r.Fecha
	case FieldStatus:
		return r.Status
	case FieldKDM:
		return r.KDM
	case FieldTituloKDM:
		return r.TituloKDM
	case FieldKDMMail:
		return r.KDMMail
	case FieldTelefono:
		return r.TelefonoCliente
	case FieldIndustria:
		return r.Industria
	case FieldEmpleados:
		return r.Empleados
	case FieldScore:
		return r.Score
	case FieldFeedback:
		return r.Feedback
	case FieldCliente:
		return r.Cliente
	case FieldAEMails:
		return strings.Join(r.AEMails, "\n")
	case FieldLineaNegocio:
		parts := make([]string, len(r.LineaNegocio))
		for i, n := range r.LineaNegocio {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ",")
	case FieldCompanyLinkedIn:
		return r.CompanyLinkedIn
	case FieldPersonLinkedIn:
		return r.PersonLinkedIn
	case FieldWebURL:
		return r.WebURL
	case FieldComments:
		return r.Comments
	default:
		return ""
	}
}

// SetField stores a raw candidate value into the row. Collection fields
// are normalized on the way in so the row never holds raw typed text at
// rest; transient drafts belong to the editing widget, not the row.
func (r *Row) SetField(f Field, raw string) {
	switch f {
	case FieldCompany:
		r.Company = raw
	case FieldFecha:
		r.Fecha = raw
	case FieldStatus:
		r.Status = raw
	case FieldKDM:
		r.KDM = raw
	case FieldTituloKDM:
		r.TituloKDM = raw
	case FieldKDMMail:
		r.KDMMail = raw
	case FieldTelefono:
		r.TelefonoCliente = raw
	case FieldIndustria:
		r.Industria = raw
	case FieldEmpleados:
		r.Empleados = raw
	case FieldScore:
		r.Score = NormalizeScore(raw)
	case FieldFeedback:
		r.Feedback = raw
	case FieldCliente:
		r.Cliente = raw
	case FieldAEMails:
		r.AEMails = ParseMails(raw)
	case FieldLineaNegocio:
		r.LineaNegocio = ParseLineIDs(raw)
	case FieldCompanyLinkedIn:
		r.CompanyLinkedIn = raw
	case FieldPersonLinkedIn:
		r.PersonLinkedIn = raw
	case FieldWebURL:
		r.WebURL = raw
	case FieldComments:
		r.Comments = raw
	}
}

// ScoreValue returns the numeric score and whether the row has one.
func (r *Row) ScoreValue() (float64, bool) {
	if strings.TrimSpace(r.Score) == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(r.Score), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
