// ABOUTME: Data models for prospection sheet entities
// ABOUTME: Defines Row, Client, BusinessLine, and BriefLink structs
package models

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RowID identifies a row inside the local store. It mirrors the remote
// record id when one is known and is a synthetic token otherwise.
type RowID string

// Row is one meeting record as held in client memory. Collection-valued
// fields are stored normalized at rest (trimmed, deduplicated, and for
// LineaNegocio numerically sorted).
type Row struct {
	ID       RowID  `json:"id"`
	RecordID *int64 `json:"record_id,omitempty"`
	ClientID *int64 `json:"client_id,omitempty"`

	Company         string `json:"company"`
	Fecha           string `json:"fecha"` // ISO date YYYY-MM-DD
	Status          string `json:"status"`
	KDM             string `json:"kdm"`
	TituloKDM       string `json:"titulo_kdm"`
	KDMMail         string `json:"kdm_mail"`
	TelefonoCliente string `json:"telefono_cliente"`
	Industria       string `json:"industria"`
	Empleados       string `json:"empleados"`
	Score           string `json:"score"` // decimal digits or empty
	Feedback        string `json:"feedback"`
	Cliente         string `json:"cliente"`
	CompanyLinkedIn string `json:"company_linkedin"`
	PersonLinkedIn  string `json:"person_linkedin"`
	WebURL          string `json:"web_url"`
	Comments        string `json:"comments"`

	AEMails      []string `json:"ae_mails"`
	LineaNegocio []int    `json:"linea_negocio"`

	Archived  bool   `json:"archived"`
	CreatedAt string `json:"created_at"`
}

// Synced reports whether the row exists remotely. Rows without a record
// id cannot be patched and must be created first.
func (r *Row) Synced() bool {
	return r.RecordID != nil
}

var (
	ulidMu      sync.Mutex
	ulidEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // not used for crypto
)

// NewLocalRowID mints a synthetic id for a row that has no remote record
// yet. The monotonic entropy source keeps ids unique even within one
// millisecond.
func NewLocalRowID() RowID {
	ulidMu.Lock()
	defer ulidMu.Unlock()
	return RowID("local_" + ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String())
}

// Client is an external client entity used to scope the visible rows and
// to resolve a human-entered label back to a numeric id for writes.
type Client struct {
	ID    *int64 `json:"id"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// BusinessLine is a tag entity associated with a client, multi-selectable
// per row.
type BusinessLine struct {
	ClientID int64  `json:"client_id"`
	LineID   int    `json:"line_id"`
	Label    string `json:"label"`
}

// BriefLink is one structured entry of a brief webhook response.
type BriefLink struct {
	Heading string `json:"Heading"`
	Link    string `json:"Link del Brief"`
}

// StatusOptions is the canonical status vocabulary.
var StatusOptions = []string{
	"Completada",
	"No show",
	"Pactada",
	"Concluida",
	"Reprogramada",
}

// AllClients is the sentinel client filter meaning "no client scope".
const AllClients = "__ALL__"
