// ABOUTME: Tests for the remote store client request/response contract
// ABOUTME: Uses httptest servers to assert query params, headers, and bodies
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koochoy97/sheet-app/models"
)

func testClient(srv *httptest.Server) *Client {
	return New(srv.URL+"/meetings", srv.URL+"/clientes", srv.URL+"/clientes_lineas_negocio", "tok-123")
}

func TestFetchRowsQueryAndHeaders(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		_, _ = w.Write([]byte(`[{"id": 2, "company": "B"}, {"id": 1, "company": "A"}]`))
	}))
	defer srv.Close()

	rows, err := testClient(srv).FetchRows(context.Background(), "46")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	q := gotReq.URL.Query()
	assert.Equal(t, "id.desc", q.Get("order"))
	assert.Equal(t, "eq.false", q.Get("archived"))
	assert.Equal(t, "eq.46", q.Get("client_id"))
	assert.Equal(t, "prospection", gotReq.Header.Get("Accept-Profile"))
	assert.Equal(t, "Bearer tok-123", gotReq.Header.Get("Authorization"))
	assert.Equal(t, "B", rows[0].Company)
}

func TestFetchRowsAllClientsOmitsFilter(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := testClient(srv).FetchRows(context.Background(), models.AllClients)
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "client_id")
}

func TestFetchRowsServerErrorIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rows, err := testClient(srv).FetchRows(context.Background(), "46")
	assert.Nil(t, rows, "a failed read yields no rows, never a partial result")
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusInternalServerError, netErr.Status)
}

func TestUpdateFieldRequestContract(t *testing.T) {
	var gotReq *http.Request
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`[{"id": 120, "company": "Acme", "score": 9}]`))
	}))
	defer srv.Close()

	payload := BuildPayload(models.Row{Company: "Acme", Score: "9"})
	rec, err := testClient(srv).UpdateField(context.Background(), 120, payload)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotReq.Method)
	assert.Equal(t, "eq.120", gotReq.URL.Query().Get("id"))
	assert.Equal(t, "prospection", gotReq.Header.Get("Content-Profile"))
	assert.Equal(t, "return=representation", gotReq.Header.Get("Prefer"))
	assert.Equal(t, "Acme", gotBody["company"])
	assert.Equal(t, float64(9), gotBody["score"])
	require.NotNil(t, rec)
	assert.Equal(t, float64(120), rec["id"])
}

func TestUpdateFieldFailureCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"duplicate"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).UpdateField(context.Background(), 120, map[string]any{})
	var writeErr *RemoteWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, http.StatusConflict, writeErr.Status)
	assert.Contains(t, writeErr.Body, "duplicate")
}

func TestCreateRowMergesRepresentation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		// Sparse echo: only id and created_at come back.
		_, _ = w.Write([]byte(`[{"id": 500, "created_at": "2026-08-30T09:00:00Z"}]`))
	}))
	defer srv.Close()

	payload := BuildPayload(models.Row{Company: "Acme", Fecha: "2026-08-30", Status: "Agendada"})
	row, err := testClient(srv).CreateRow(context.Background(), payload)
	require.NoError(t, err)

	require.NotNil(t, row.RecordID)
	assert.Equal(t, int64(500), *row.RecordID)
	assert.Equal(t, "Acme", row.Company, "payload fields survive a sparse echo")
	assert.Equal(t, "2026-08-30T09:00:00Z", row.CreatedAt)
}

func TestCreateRowBareObjectResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 501}`))
	}))
	defer srv.Close()

	row, err := testClient(srv).CreateRow(context.Background(), map[string]any{"company": "Acme"})
	require.NoError(t, err)
	require.NotNil(t, row.RecordID)
	assert.Equal(t, int64(501), *row.RecordID)
}

func TestArchiveRowsBatch(t *testing.T) {
	var gotReq *http.Request
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	count, err := testClient(srv).ArchiveRows(context.Background(), []int64{1201, 1202})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, http.MethodPatch, gotReq.Method)
	assert.Equal(t, "in.(1201,1202)", gotReq.URL.Query().Get("id"))
	assert.Equal(t, map[string]any{"archived": true}, gotBody)
}

func TestArchiveRowsEmptyIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty id set")
	}))
	defer srv.Close()

	count, err := testClient(srv).ArchiveRows(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestFetchClientsDedupeAndSort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "core", r.Header.Get("Accept-Profile"))
		_, _ = w.Write([]byte(`[
			{"id": 2, "cliente": "Zeta"},
			{"id": 1, "cliente": "Acme"},
			{"id": 2, "cliente": "Zeta"},
			{}
		]`))
	}))
	defer srv.Close()

	clients, err := testClient(srv).FetchClients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Acme", clients[0].Label)
	assert.Equal(t, "Zeta", clients[1].Label)
}

func TestFetchBusinessLinesScopedByClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.46", r.URL.Query().Get("client_id"))
		assert.Equal(t, "core", r.Header.Get("Accept-Profile"))
		_, _ = w.Write([]byte(`[
			{"client_id": 46, "linea_negocio_id": 1, "linea_negocio": "Ventas"},
			{"client_id": 46, "linea_negocio": "sin id"}
		]`))
	}))
	defer srv.Close()

	lines, err := testClient(srv).FetchBusinessLines(context.Background(), 46)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Ventas", lines[0].Label)
}

func TestFetchAllBusinessLinesIsUnscoped(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "core", r.Header.Get("Accept-Profile"))
		_, _ = w.Write([]byte(`[
			{"client_id": 46, "linea_negocio_id": 1, "linea_negocio": "Ventas"},
			{"client_id": 51, "linea_negocio_id": 2, "linea_negocio": "Marketing"}
		]`))
	}))
	defer srv.Close()

	lines, err := testClient(srv).FetchAllBusinessLines(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.NotContains(t, gotQuery, "client_id", "no per-client scope on the union read")
	assert.Equal(t, int64(51), lines[1].ClientID)
}

func TestFetchClientsSortsWithSpanishCollation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": 1, "cliente": "Zeta"},
			{"id": 2, "cliente": "Ñandú"},
			{"id": 3, "cliente": "nube"},
			{"id": 4, "cliente": "Ómicron"},
			{"id": 5, "cliente": "Osa"}
		]`))
	}))
	defer srv.Close()

	clients, err := testClient(srv).FetchClients(context.Background())
	require.NoError(t, err)
	labels := make([]string, len(clients))
	for i, cl := range clients {
		labels[i] = cl.Label
	}
	assert.Equal(t, []string{"nube", "Ñandú", "Ómicron", "Osa", "Zeta"}, labels)
}

func TestFetchRowsCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testClient(srv).FetchRows(ctx, "46")
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, errors.Is(err, context.Canceled))
}
