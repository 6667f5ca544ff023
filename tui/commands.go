// ABOUTME: Async messages and commands for remote operations
// ABOUTME: Fetches are cancellable and generation-tagged so stale responses are dropped
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/koochoy97/sheet-app/brief"
	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/sheet"
)

type initMsg struct{}

type rowsLoadedMsg struct {
	gen  int
	rows []models.Row
	err  error
}

type clientsLoadedMsg struct {
	clients []models.Client
	err     error
}

type linesLoadedMsg struct {
	lines []models.BusinessLine
	err   error
}

type commitDoneMsg struct {
	result sheet.CommitResult
	err    error
}

type createDoneMsg struct {
	row     models.Row
	another bool
	err     error
}

type archiveDoneMsg struct {
	ids   []models.RowID
	count int
	err   error
}

type briefDoneMsg struct {
	resp *brief.Response
	err  error
}

type toast struct {
	id  string
	msg string
}

type toastExpiredMsg struct {
	id string
}

// fetchRowsCmd starts the bulk fetch for the current client filter. The
// previous fetch's context is cancelled by the caller before invoking
// this, and the generation tag drops any stale completion that still
// arrives.
func (m *Model) fetchRowsCmd() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.fetchCancel = cancel
	m.fetchGen++
	gen := m.fetchGen
	client := m.client
	filter := m.clientFilter
	return func() tea.Msg {
		rows, err := client.FetchRows(ctx, filter)
		return rowsLoadedMsg{gen: gen, rows: rows, err: err}
	}
}

func (m *Model) fetchClientsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		clients, err := client.FetchClients(context.Background())
		return clientsLoadedMsg{clients: clients, err: err}
	}
}

// fetchLinesCmd reads the business-line tuples for the current filter.
// Under the all-clients filter the fetch is unscoped so the line picker
// can fall back to the union catalog.
func (m *Model) fetchLinesCmd() tea.Cmd {
	client := m.client
	filter := m.clientFilter
	return func() tea.Msg {
		var lines []models.BusinessLine
		var err error
		if id, ok := clientFilterID(filter); ok {
			lines, err = client.FetchBusinessLines(context.Background(), id)
		} else {
			lines, err = client.FetchAllBusinessLines(context.Background())
		}
		return linesLoadedMsg{lines: lines, err: err}
	}
}

// commitCellCmd runs one cell commit off the update loop. Pending state
// is visible while it runs.
func (m *Model) commitCellCmd(key sheet.CellKey, raw string) tea.Cmd {
	editor := m.editor
	return func() tea.Msg {
		result, err := editor.Commit(context.Background(), key.Row, key.Field, raw)
		return commitDoneMsg{result: result, err: err}
	}
}

// submitFormCmd issues the create write for an already-validated
// payload. The form itself stays on the update loop; only the payload
// crosses into the command goroutine.
func (m *Model) submitFormCmd(payload map[string]any, another bool) tea.Cmd {
	client := m.client
	store := m.store
	return func() tea.Msg {
		row, err := client.CreateRow(context.Background(), payload)
		if err == nil {
			store.PrependRow(row)
		}
		return createDoneMsg{row: row, another: another, err: err}
	}
}

func (m *Model) archiveCmd(ids []models.RowID, recordIDs []int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		count, err := client.ArchiveRows(context.Background(), recordIDs)
		return archiveDoneMsg{ids: ids, count: count, err: err}
	}
}

func (m *Model) sendBriefCmd(row models.Row) tea.Cmd {
	dispatcher := m.dispatcher
	return func() tea.Msg {
		resp, err := dispatcher.Send(context.Background(), row, time.Now())
		if err != nil {
			return briefDoneMsg{err: err}
		}
		return briefDoneMsg{resp: resp}
	}
}

// pushToast queues a short-lived notification line.
func (m *Model) pushToast(msg string) tea.Cmd {
	id := uuid.NewString()
	m.toasts = append(m.toasts, toast{id: id, msg: msg})
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func removeToast(toasts []toast, id string) []toast {
	out := toasts[:0]
	for _, t := range toasts {
		if t.id != id {
			out = append(out, t)
		}
	}
	return out
}
