// ABOUTME: Create and duplicate dialog: one text input per field with
// ABOUTME: required-field validation surfaced inline
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/sheet"
)

func (m Model) openCreateForm(form *sheet.CreateForm) (tea.Model, tea.Cmd) {
	m.form = form
	m.formFields = make([]models.Field, 0, len(models.Columns))
	m.formInputs = make([]textinput.Model, 0, len(models.Columns))
	for _, col := range models.Columns {
		ti := textinput.New()
		ti.CharLimit = 512
		ti.Prompt = ""
		ti.SetValue(form.Values[col.Key])
		m.formFields = append(m.formFields, col.Key)
		m.formInputs = append(m.formInputs, ti)
	}
	m.focusIndex = 0
	m.formInputs[0].Focus()
	m.formSaving = false
	m.formAnother = false
	m.selectionLock = true
	m.viewMode = ViewCreate
	return m, nil
}

func (m Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.formSaving {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.viewMode = ViewSheet
		m.selectionLock = false
		m.form = nil
		return m, nil
	case "tab", "down", "enter":
		return m.moveFormFocus(1), nil
	case "shift+tab", "up":
		return m.moveFormFocus(-1), nil
	case "ctrl+s":
		return m.submitForm(false)
	case "ctrl+n":
		return m.submitForm(true)
	}
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	m.form.Set(m.formFields[m.focusIndex], m.formInputs[m.focusIndex].Value())
	return m, cmd
}

func (m Model) moveFormFocus(delta int) Model {
	m.formInputs[m.focusIndex].Blur()
	m.focusIndex = (m.focusIndex + delta + len(m.formInputs)) % len(m.formInputs)
	m.formInputs[m.focusIndex].Focus()
	return m
}

func (m Model) submitForm(another bool) (tea.Model, tea.Cmd) {
	for i, field := range m.formFields {
		m.form.Set(field, m.formInputs[i].Value())
	}
	payload, err := m.form.Prepare(m.clients)
	if err != nil {
		return m, m.pushToast(errorStyle.Render(err.Error()))
	}
	m.formSaving = true
	m.formAnother = another
	return m, m.submitFormCmd(payload, another)
}

func (m Model) handleCreateDone(msg createDoneMsg) (tea.Model, tea.Cmd) {
	m.formSaving = false
	if msg.err != nil {
		// The draft survives a failed submit; field errors render inline.
		return m, m.pushToast(errorStyle.Render(fmt.Sprintf("Error al crear: %v", msg.err)))
	}
	if msg.another {
		m.form.ResetForAnother()
		for i, field := range m.formFields {
			m.formInputs[i].SetValue(m.form.Values[field])
		}
		m.formInputs[m.focusIndex].Blur()
		m.focusIndex = 0
		m.formInputs[0].Focus()
		return m, m.pushToast(fmt.Sprintf("Creado OK: %s", msg.row.Company))
	}
	m.viewMode = ViewSheet
	m.selectionLock = false
	m.form = nil
	return m, m.pushToast(fmt.Sprintf("Creado OK: %s", msg.row.Company))
}

func (m Model) renderCreateView() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("NUEVO REGISTRO"))
	s.WriteString("\n\n")
	for i, field := range m.formFields {
		label := columnLabel(field)
		if isRequired(field) {
			label += " *"
		}
		line := fmt.Sprintf("%-24s %s", label, m.formInputs[i].View())
		if i == m.focusIndex {
			line = cellCursorStyle.Render(fmt.Sprintf("%-24s", label)) + " " + m.formInputs[i].View()
		}
		s.WriteString("  " + line + "\n")
		if errMsg, ok := m.form.Errors[field]; ok {
			s.WriteString("  " + errorStyle.Render(strings.Repeat(" ", 24)+" "+errMsg) + "\n")
		}
	}
	s.WriteString("\n")
	if m.formSaving {
		s.WriteString("Guardando…\n")
	}
	s.WriteString(helpStyle.Render("tab/enter siguiente · ctrl+s guardar · ctrl+n guardar y crear otro · esc cancelar"))
	return s.String()
}

func isRequired(field models.Field) bool {
	for _, req := range sheet.RequiredFields {
		if req == field {
			return true
		}
	}
	return false
}
