// ABOUTME: One-shot brief webhook dispatch for a single selected row
// ABOUTME: Side channel outside the CRUD sync cycle; response treated as opaque
package brief

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/rest"
)

// Response is the webhook reply: structured heading/link entries when
// the body is shaped that way, the raw text otherwise.
type Response struct {
	Raw   string
	Links []models.BriefLink
}

// Dispatcher posts brief generation requests to the fixed webhook
// endpoint. Failures surface to the caller; re-invoking is the retry.
type Dispatcher struct {
	URL  string
	HTTP *http.Client
}

// New creates a dispatcher for the webhook URL.
func New(url string) *Dispatcher {
	return &Dispatcher{URL: url, HTTP: &http.Client{}}
}

// Send assembles the payload for one row and posts it. The mail list
// must be non-empty; that precondition is checked here, not by the
// server.
func (d *Dispatcher) Send(ctx context.Context, row models.Row, now time.Time) (*Response, error) {
	if len(row.AEMails) == 0 {
		return nil, &rest.ValidationError{Field: string(models.FieldAEMails), Message: "sin destinatarios"}
	}

	payload := rest.BuildPayload(row)
	if row.RecordID != nil {
		payload["id"] = *row.RecordID
	}
	if row.ClientID != nil {
		payload["client_id"] = *row.ClientID
	}
	payload["timestamp"] = now.UTC().Format(time.RFC3339)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, &rest.RemoteWriteError{Op: "brief", Body: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(encoded))
	if err != nil {
		return nil, &rest.RemoteWriteError{Op: "brief", Body: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.HTTP.Do(req)
	if err != nil {
		return nil, &rest.RemoteWriteError{Op: "brief", Body: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &rest.RemoteWriteError{Op: "brief", Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return &Response{Raw: string(body), Links: parseLinks(body)}, nil
}

// parseLinks extracts heading/link entries from a JSON body shaped as an
// array (or single object) of {Heading, "Link del Brief"} records, with
// the historical key fallbacks. Anything else yields nil and the raw
// body is shown instead.
func parseLinks(body []byte) []models.BriefLink {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}
	items, ok := parsed.([]any)
	if !ok {
		items = []any{parsed}
	}
	var links []models.BriefLink
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		heading := strings.TrimSpace(stringAt(obj, "Heading", "heading", "title"))
		link := strings.TrimSpace(stringAt(obj, "Link del Brief", "link", "url"))
		if heading == "" && link == "" {
			continue
		}
		links = append(links, models.BriefLink{Heading: heading, Link: link})
	}
	return links
}

func stringAt(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
