// ABOUTME: Remote store client for the prospection REST endpoint
// ABOUTME: Stateless request builders and response decoders, no retries
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/koochoy97/sheet-app/models"
)

const (
	profileProspection = "prospection"
	profileCore        = "core"
)

// Client issues requests against the record store. Every operation is
// independent and stateless; failures never retry automatically.
type Client struct {
	BaseURL    string
	ClientsURL string
	LinesURL   string
	Token      string

	// HTTP carries no timeout; cancellation is the caller's context.
	HTTP *http.Client
}

// New creates a remote store client.
func New(baseURL, clientsURL, linesURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		ClientsURL: clientsURL,
		LinesURL:   linesURL,
		Token:      token,
		HTTP:       &http.Client{},
	}
}

// FetchRows reads the non-archived records scoped by the client filter,
// newest first. A failed or non-2xx read yields a NetworkError and no
// rows; there is no partial result.
func (c *Client) FetchRows(ctx context.Context, clientFilter string) ([]models.Row, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, &NetworkError{URL: c.BaseURL, Err: err}
	}
	q := u.Query()
	q.Set("order", "id.desc")
	q.Set("archived", "eq.false")
	if clientFilter != "" && clientFilter != models.AllClients {
		if id, err := strconv.ParseInt(clientFilter, 10, 64); err == nil {
			q.Set("client_id", fmt.Sprintf("eq.%d", id))
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &NetworkError{URL: u.String(), Err: err}
	}
	req.Header.Set("Accept-Profile", profileProspection)
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: u.String(), Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: u.String(), Status: resp.StatusCode}
	}

	var records []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &NetworkError{URL: u.String(), Err: err}
	}
	rows := make([]models.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, MapRecord(rec))
	}
	return rows, nil
}

// CreateRow inserts one record and maps the representation back into a
// Row. The response record (array-wrapped or bare) is merged over the
// submitted payload so fields the server echoes sparsely stay filled.
func (c *Client) CreateRow(ctx context.Context, payload map[string]any) (models.Row, error) {
	body, err := c.write(ctx, http.MethodPost, c.BaseURL, payload, "create")
	if err != nil {
		return models.Row{}, err
	}

	merged := make(map[string]any, len(payload))
	for k, v := range payload {
		merged[k] = v
	}
	if rec := decodeRecord(body); rec != nil {
		for k, v := range rec {
			merged[k] = v
		}
	}
	return MapRecord(merged), nil
}

// UpdateField patches the record addressed by its remote id. The payload
// carries the entire current editable state with the changed field
// already applied. Returns the representation record when the server
// sends one.
func (c *Client) UpdateField(ctx context.Context, recordID int64, payload map[string]any) (map[string]any, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, &RemoteWriteError{Op: "update", Body: err.Error()}
	}
	q := u.Query()
	q.Set("id", fmt.Sprintf("eq.%d", recordID))
	u.RawQuery = q.Encode()

	body, err := c.write(ctx, http.MethodPatch, u.String(), payload, "update")
	if err != nil {
		return nil, err
	}
	return decodeRecord(body), nil
}

// ArchiveRows flips the archived flag for a set of remote ids in one
// request. Records are never physically deleted.
func (c *Client) ArchiveRows(ctx context.Context, recordIDs []int64) (int, error) {
	if len(recordIDs) == 0 {
		return 0, nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return 0, &RemoteWriteError{Op: "archive", Body: err.Error()}
	}
	ids := make([]string, len(recordIDs))
	for i, id := range recordIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	q := u.Query()
	q.Set("id", fmt.Sprintf("in.(%s)", strings.Join(ids, ",")))
	u.RawQuery = q.Encode()

	if _, err := c.write(ctx, http.MethodPatch, u.String(), map[string]any{"archived": true}, "archive"); err != nil {
		return 0, err
	}
	return len(recordIDs), nil
}

// FetchClients reads the client list, deduplicated by id/label and
// sorted by label. Read failures degrade to an empty list upstream; here
// they are reported.
func (c *Client) FetchClients(ctx context.Context) ([]models.Client, error) {
	records, err := c.readCore(ctx, c.ClientsURL)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(records))
	clients := make([]models.Client, 0, len(records))
	for _, rec := range records {
		cl, ok := MapClient(rec)
		if !ok || seen[cl.Value] {
			continue
		}
		seen[cl.Value] = true
		clients = append(clients, cl)
	}
	sortClientsByLabel(clients)
	return clients, nil
}

// FetchBusinessLines reads the business-line tuples for one client.
func (c *Client) FetchBusinessLines(ctx context.Context, clientID int64) ([]models.BusinessLine, error) {
	u, err := url.Parse(c.LinesURL)
	if err != nil {
		return nil, &NetworkError{URL: c.LinesURL, Err: err}
	}
	q := u.Query()
	q.Set("client_id", fmt.Sprintf("eq.%d", clientID))
	u.RawQuery = q.Encode()
	return c.readLines(ctx, u.String())
}

// FetchAllBusinessLines reads the tuples for every client, feeding the
// cross-client union catalog when no single client is selected.
func (c *Client) FetchAllBusinessLines(ctx context.Context) ([]models.BusinessLine, error) {
	return c.readLines(ctx, c.LinesURL)
}

func (c *Client) readLines(ctx context.Context, rawURL string) ([]models.BusinessLine, error) {
	records, err := c.readCore(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	lines := make([]models.BusinessLine, 0, len(records))
	for _, rec := range records {
		if line, ok := MapBusinessLine(rec); ok {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (c *Client) readCore(ctx context.Context, rawURL string) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	req.Header.Set("Accept-Profile", profileCore)
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: rawURL, Status: resp.StatusCode}
	}

	var records []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	return records, nil
}

func (c *Client) write(ctx context.Context, method, rawURL string, payload any, op string) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, &RemoteWriteError{Op: op, Body: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, &RemoteWriteError{Op: op, Body: err.Error()}
	}
	req.Header.Set("Content-Profile", profileProspection)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &RemoteWriteError{Op: op, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteWriteError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

// decodeRecord decodes a representation body that may be an array of
// records or a bare object. Returns nil when the body holds neither.
func decodeRecord(body []byte) map[string]any {
	var asList []map[string]any
	if err := json.Unmarshal(body, &asList); err == nil && len(asList) > 0 {
		return asList[0]
	}
	var asObject map[string]any
	if err := json.Unmarshal(body, &asObject); err == nil && len(asObject) > 0 {
		return asObject
	}
	return nil
}

// labelCollator orders client labels the way a Spanish speaker expects,
// so accented and ñ-bearing names land next to their base letters.
var labelCollator = collate.New(language.Spanish, collate.IgnoreCase)

func sortClientsByLabel(clients []models.Client) {
	sort.SliceStable(clients, func(i, j int) bool {
		return labelCollator.CompareString(clients[i].Label, clients[j].Label) < 0
	})
}
