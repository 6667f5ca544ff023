// ABOUTME: Sheet view: grid rendering, navigation, filters, and selection
// ABOUTME: Drives fetch lifecycle, sort toggles, and archive confirmation
package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/koochoy97/sheet-app/config"
	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/sheet"
)

// visibleColumns keeps the grid readable in a terminal; the remaining
// fields are edited through the cell editor and the create form.
var visibleColumns = []models.Field{
	models.FieldCompany,
	models.FieldFecha,
	models.FieldStatus,
	models.FieldKDM,
	models.FieldIndustria,
	models.FieldScore,
	models.FieldFeedback,
	models.FieldAEMails,
	models.FieldLineaNegocio,
	models.FieldCliente,
}

var timeNow = time.Now

func clientFilterID(filter string) (int64, bool) {
	if filter == "" || filter == models.AllClients {
		return 0, false
	}
	id, err := strconv.ParseInt(filter, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (m Model) handleRowsLoaded(msg rowsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.fetchGen {
		// Stale completion from a cancelled fetch; a newer filter owns
		// the store now.
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.loadErr = msg.err
		m.store.Reset()
		return m, nil
	}
	m.loadErr = nil
	m.store.ReplaceAll(msg.rows)
	if m.cursorR >= len(msg.rows) {
		m.cursorR = 0
	}
	return m, nil
}

func (m Model) handleCommitDone(msg commitDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.pushToast(errorStyle.Render(fmt.Sprintf("Error (%s): %v", msg.result.Key.Field, msg.err)))
	}
	if msg.result.Saved {
		return m, m.pushToast(fmt.Sprintf("Guardado OK (%s)", msg.result.Key.Field))
	}
	return m, nil
}

func (m Model) handleArchiveDone(msg archiveDoneMsg) (tea.Model, tea.Cmd) {
	m.viewMode = ViewSheet
	if msg.err != nil {
		return m, m.pushToast(errorStyle.Render(fmt.Sprintf("Error al archivar: %v", msg.err)))
	}
	m.store.RemoveRows(msg.ids)
	m.selected = make(map[models.RowID]bool)
	return m, m.pushToast(fmt.Sprintf("Archivados %d registros", msg.count))
}

func (m Model) handleSheetKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.queryActive {
		switch msg.String() {
		case "enter", "esc":
			m.queryActive = false
			m.queryInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.queryInput, cmd = m.queryInput.Update(msg)
			m.filters.CompanyQuery = m.queryInput.Value()
			return m, cmd
		}
	}

	rows := m.visibleRows()
	switch msg.String() {
	case "q":
		if m.fetchCancel != nil {
			m.fetchCancel()
		}
		return m, tea.Quit
	case "up", "k":
		if m.cursorR > 0 {
			m.cursorR--
		}
	case "down", "j":
		if m.cursorR < len(rows)-1 {
			m.cursorR++
		}
	case "left", "h":
		if m.cursorC > 0 {
			m.cursorC--
		}
	case "right", "l":
		if m.cursorC < len(visibleColumns)-1 {
			m.cursorC++
		}
	case "enter":
		return m.beginCellEdit()
	case "s":
		m.sortState = m.sortState.Toggle(visibleColumns[m.cursorC])
	case "/":
		m.queryActive = true
		m.queryInput.Focus()
		return m, nil
	case "t":
		m.filters.Status = cycleString(m.filters.Status, sheet.StatusesPresent(m.store.Rows()))
	case "o":
		m.filters.Score = cycleScore(m.filters.Score, m.store.Rows())
	case "d":
		return m.cycleDatePreset()
	case "c":
		return m.cycleClientFilter()
	case " ":
		if !m.selectionLock {
			if row, ok := m.currentRow(); ok {
				if m.selected[row.ID] {
					delete(m.selected, row.ID)
				} else {
					m.selected[row.ID] = true
				}
			}
		}
	case "a":
		if !m.selectionLock {
			m.toggleSelectAll(rows)
		}
	case "n":
		return m.openCreateForm(sheet.NewCreateForm(m.clientFilter))
	case "D":
		return m.openDuplicate()
	case "x":
		return m.confirmArchive()
	case "b":
		return m.openBrief()
	case "e":
		return m.exportCSV(rows)
	case "r":
		if m.fetchCancel != nil {
			m.fetchCancel()
		}
		m.store.Reset()
		m.loading = true
		return m, m.fetchRowsCmd()
	}
	return m, nil
}

func (m Model) toggleSelectAll(rows []models.Row) {
	all := len(rows) > 0
	for _, row := range rows {
		if !m.selected[row.ID] {
			all = false
			break
		}
	}
	if all {
		for id := range m.selected {
			delete(m.selected, id)
		}
		return
	}
	for _, row := range rows {
		m.selected[row.ID] = true
	}
}

func (m Model) cycleClientFilter() (tea.Model, tea.Cmd) {
	options := []string{models.AllClients}
	for _, cl := range m.clients {
		options = append(options, cl.Value)
	}
	m.clientFilter = cycleValue(m.clientFilter, options)
	m.persistClientFilter()

	if m.fetchCancel != nil {
		m.fetchCancel()
	}
	m.store.Reset()
	m.loading = true
	m.selected = make(map[models.RowID]bool)
	return m, tea.Batch(m.fetchRowsCmd(), m.fetchLinesCmd())
}

// persistClientFilter is the URL-query-param analog: the active filter
// is rewritten on every change and read back on startup.
func (m Model) persistClientFilter() {
	st, err := config.LoadState()
	if err != nil {
		st = &config.State{}
	}
	if m.clientFilter == models.AllClients {
		st.ClientFilter = ""
	} else {
		st.ClientFilter = m.clientFilter
	}
	_ = config.SaveState(st)
}

func (m Model) cycleDatePreset() (tea.Model, tea.Cmd) {
	if len(m.presets) == 0 {
		m.presets = sheet.DatePresets(timeNow())
	}
	m.presetIdx = (m.presetIdx + 1) % len(m.presets)
	m.filters.Dates = m.presets[m.presetIdx]
	return m, nil
}

func (m Model) confirmArchive() (tea.Model, tea.Cmd) {
	ids := make([]models.RowID, 0, len(m.selected))
	for _, row := range m.store.Rows() {
		if m.selected[row.ID] && row.Synced() {
			ids = append(ids, row.ID)
		}
	}
	if len(ids) == 0 {
		return m, m.pushToast("Nada seleccionado para archivar")
	}
	m.pendingArchive = ids
	m.viewMode = ViewConfirmArchive
	return m, nil
}

func (m Model) handleConfirmArchiveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		recordIDs := make([]int64, 0, len(m.pendingArchive))
		for _, id := range m.pendingArchive {
			if row, ok := m.store.Row(id); ok && row.RecordID != nil {
				recordIDs = append(recordIDs, *row.RecordID)
			}
		}
		return m, m.archiveCmd(m.pendingArchive, recordIDs)
	case "n", "N", "esc":
		m.viewMode = ViewSheet
		m.pendingArchive = nil
	}
	return m, nil
}

func (m Model) openDuplicate() (tea.Model, tea.Cmd) {
	if len(m.selected) != 1 {
		return m, m.pushToast("Duplicar requiere exactamente una fila seleccionada")
	}
	var source models.Row
	for id := range m.selected {
		row, ok := m.store.Row(id)
		if !ok {
			return m, nil
		}
		source = row
	}
	return m.openCreateForm(sheet.NewDuplicateForm(source, m.clientFilter))
}

func (m Model) exportCSV(rows []models.Row) (tea.Model, tea.Cmd) {
	f, err := os.Create(sheet.ExportFilename)
	if err != nil {
		return m, m.pushToast(errorStyle.Render(fmt.Sprintf("Error al exportar: %v", err)))
	}
	defer f.Close()
	if err := sheet.WriteCSV(f, rows); err != nil {
		return m, m.pushToast(errorStyle.Render(fmt.Sprintf("Error al exportar: %v", err)))
	}
	return m, m.pushToast(fmt.Sprintf("Exportado %s (%d filas)", sheet.ExportFilename, len(rows)))
}

func (m Model) renderSheetView() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("PROSPECTION SHEET"))
	s.WriteString("\n")
	s.WriteString(m.renderFilterBar())
	s.WriteString("\n\n")

	if m.loading {
		s.WriteString("Cargando…\n")
	} else if m.loadErr != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error al cargar: %v", m.loadErr)))
		s.WriteString("\n")
	} else {
		s.WriteString(m.renderGrid())
	}

	for _, t := range m.toasts {
		s.WriteString("\n")
		s.WriteString(toastStyle.Render(t.msg))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑↓←→ mover · enter editar · s ordenar · / buscar · t status · o score · d fechas · c cliente · espacio marcar · n nuevo · D duplicar · x archivar · b brief · e exportar · r recargar · q salir"))
	return s.String()
}

func (m Model) renderFilterBar() string {
	parts := []string{}
	label := "Todos"
	for _, cl := range m.clients {
		if cl.Value == m.clientFilter {
			label = cl.Label
		}
	}
	if m.clientFilter == models.AllClients {
		label = "Todos"
	} else if label == "Todos" && m.clientFilter != "" {
		label = m.clientFilter
	}
	parts = append(parts, "Cliente: "+label)
	if m.filters.Status != "" {
		parts = append(parts, "Status: "+m.filters.Status)
	}
	if m.filters.Score != "" {
		if m.filters.Score == sheet.ScoreNone {
			parts = append(parts, "Score: sin score")
		} else {
			parts = append(parts, "Score: "+m.filters.Score)
		}
	}
	if !m.filters.Dates.Empty() {
		parts = append(parts, "Fechas: "+m.filters.Dates.Label)
	}
	if m.queryActive {
		parts = append(parts, "Company: "+m.queryInput.View())
	} else if m.filters.CompanyQuery != "" {
		parts = append(parts, "Company: "+m.filters.CompanyQuery)
	}
	if m.sortState.Dir != sheet.SortOff {
		dir := "▲"
		if m.sortState.Dir == sheet.SortDesc {
			dir = "▼"
		}
		parts = append(parts, fmt.Sprintf("Orden: %s %s", m.sortState.Key, dir))
	}
	return filterStyle.Render(strings.Join(parts, "  ·  "))
}

func (m Model) renderGrid() string {
	rows := m.visibleRows()
	var s strings.Builder

	widths := columnWidths(m.width)
	header := make([]string, len(visibleColumns))
	for i, field := range visibleColumns {
		header[i] = pad(columnLabel(field), widths[i])
	}
	s.WriteString(headerStyle.Render("  " + strings.Join(header, " ")))
	s.WriteString("\n")

	for r, row := range rows {
		marker := "  "
		if m.selected[row.ID] {
			marker = rowSelectedStyle.Render("✓ ")
		}
		cells := make([]string, len(visibleColumns))
		for c, field := range visibleColumns {
			text := m.cellText(row, field)
			cell := pad(text, widths[c])
			key := sheet.CellKey{Row: row.ID, Field: field}
			switch {
			case r == m.cursorR && c == m.cursorC:
				cell = cellCursorStyle.Render(cell)
			case m.store.Pending(key):
				cell = pendingStyle.Render(cell)
			}
			cells[c] = cell
		}
		s.WriteString(marker + strings.Join(cells, " "))
		s.WriteString("\n")
	}
	if len(rows) == 0 {
		s.WriteString("  (sin filas)\n")
	}
	return s.String()
}

func (m Model) cellText(row models.Row, field models.Field) string {
	if field == models.FieldLineaNegocio {
		labels := make([]string, len(row.LineaNegocio))
		for i, id := range row.LineaNegocio {
			labels[i] = m.catalog.Label(row.ClientID, id)
		}
		return strings.Join(labels, ", ")
	}
	if field == models.FieldAEMails {
		return strings.Join(row.AEMails, ", ")
	}
	return row.FieldValue(field)
}

func (m Model) renderConfirmArchive() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("ARCHIVAR"))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("¿Archivar %d registros seleccionados? El registro remoto no se elimina, solo se oculta.\n", len(m.pendingArchive)))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("y confirmar · n cancelar"))
	return s.String()
}

func columnLabel(field models.Field) string {
	for _, col := range models.Columns {
		if col.Key == field {
			return col.Label
		}
	}
	return string(field)
}

func columnWidths(total int) []int {
	weights := []int{18, 10, 12, 12, 12, 5, 16, 18, 14, 10}
	width := total - 2 - len(visibleColumns)
	sum := 0
	for _, w := range weights {
		sum += w
	}
	out := make([]int, len(weights))
	for i, w := range weights {
		out[i] = w * width / sum
		if out[i] < 4 {
			out[i] = 4
		}
	}
	return out
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}

func cycleString(current string, options []string) string {
	return cycleValue(current, append([]string{""}, options...))
}

func cycleValue(current string, options []string) string {
	for i, opt := range options {
		if opt == current {
			return options[(i+1)%len(options)]
		}
	}
	if len(options) == 0 {
		return current
	}
	return options[0]
}

func cycleScore(current string, rows []models.Row) string {
	options := []string{""}
	scores, hasNone := sheet.ScoresPresent(rows)
	if hasNone {
		options = append(options, sheet.ScoreNone)
	}
	for _, v := range scores {
		options = append(options, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return cycleValue(current, options)
}
