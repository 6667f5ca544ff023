// ABOUTME: Inline cell editing: single-line text editor and the business
// ABOUTME: line multi-select picker, both committing through the cell editor
package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/sheet"
)

func (m Model) beginCellEdit() (tea.Model, tea.Cmd) {
	row, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	field := visibleColumns[m.cursorC]
	if !fieldEditable(field) {
		return m, m.pushToast("Columna no editable")
	}

	m.editKey = sheet.CellKey{Row: row.ID, Field: field}
	m.selectionLock = true

	if field == models.FieldLineaNegocio {
		m.lineOpts = m.catalog.OptionsFor(row.ClientID)
		if len(m.lineOpts) == 0 {
			m.selectionLock = false
			return m, m.pushToast("Sin líneas de negocio para este cliente")
		}
		m.lineCursor = 0
		m.lineSelection = make(map[int]bool, len(row.LineaNegocio))
		for _, id := range row.LineaNegocio {
			m.lineSelection[id] = true
		}
		m.viewMode = ViewLinePicker
		m.editor.Focus(row.ID, field)
		return m, nil
	}

	m.editOrig = row.FieldValue(field)
	m.editInput.SetValue(strings.ReplaceAll(m.editOrig, "\n", ", "))
	m.editInput.CursorEnd()
	m.editInput.Focus()
	m.editor.Focus(row.ID, field)
	m.viewMode = ViewEditCell
	return m, nil
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Discard the draft: the store still holds the last applied
		// keystrokes, so restore the focus-time value.
		m.editor.Input(m.editKey.Row, m.editKey.Field, m.editOrig)
		m.editInput.Blur()
		m.viewMode = ViewSheet
		m.selectionLock = false
		return m, nil
	case "enter":
		raw := m.editInput.Value()
		m.editInput.Blur()
		m.viewMode = ViewSheet
		m.selectionLock = false
		return m, m.commitCellCmd(m.editKey, raw)
	case "tab":
		if m.editKey.Field == models.FieldStatus {
			m.editInput.SetValue(nextStatus(m.editInput.Value()))
			m.editInput.CursorEnd()
			m.editor.Input(m.editKey.Row, m.editKey.Field, m.editInput.Value())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	m.editor.Input(m.editKey.Row, m.editKey.Field, m.editInput.Value())
	return m, cmd
}

func (m Model) renderEditView() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("EDITAR " + strings.ToUpper(columnLabel(m.editKey.Field))))
	s.WriteString("\n\n")
	s.WriteString(m.editInput.View())
	s.WriteString("\n\n")
	if m.editKey.Field == models.FieldAEMails {
		s.WriteString(helpStyle.Render("Separar correos con coma o punto y coma"))
		s.WriteString("\n")
	}
	if m.editKey.Field == models.FieldStatus {
		s.WriteString(helpStyle.Render("tab rota entre estados: " + strings.Join(models.StatusOptions, ", ")))
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("enter guardar · esc cancelar"))
	return s.String()
}

func (m Model) handleLinePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.lineCursor > 0 {
			m.lineCursor--
		}
	case "down", "j":
		if m.lineCursor < len(m.lineOpts)-1 {
			m.lineCursor++
		}
	case " ":
		opt := m.lineOpts[m.lineCursor]
		if m.lineSelection[opt.ID] {
			delete(m.lineSelection, opt.ID)
		} else {
			m.lineSelection[opt.ID] = true
		}
	case "esc":
		m.viewMode = ViewSheet
		m.selectionLock = false
	case "enter":
		// Multi-select commits on close, like blur for text cells.
		ids := make([]int, 0, len(m.lineSelection))
		for id := range m.lineSelection {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.Itoa(id)
		}
		m.viewMode = ViewSheet
		m.selectionLock = false
		return m, m.commitCellCmd(m.editKey, strings.Join(parts, ","))
	}
	return m, nil
}

func (m Model) renderLinePicker() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("LÍNEAS DE NEGOCIO"))
	s.WriteString("\n\n")
	for i, opt := range m.lineOpts {
		check := "[ ]"
		if m.lineSelection[opt.ID] {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s", check, opt.Label)
		if i == m.lineCursor {
			line = cellCursorStyle.Render(line)
		}
		s.WriteString("  " + line + "\n")
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("espacio marcar · enter guardar · esc cancelar"))
	return s.String()
}

func fieldEditable(field models.Field) bool {
	for _, col := range models.Columns {
		if col.Key == field {
			return col.Editable
		}
	}
	return false
}

func nextStatus(current string) string {
	for i, opt := range models.StatusOptions {
		if opt == current {
			return models.StatusOptions[(i+1)%len(models.StatusOptions)]
		}
	}
	return models.StatusOptions[0]
}
