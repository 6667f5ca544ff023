// ABOUTME: Brief dialog: confirm recipients, dispatch the webhook, and
// ABOUTME: render the returned document links
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) openBrief() (tea.Model, tea.Cmd) {
	row, ok := m.currentRow()
	if len(m.selected) == 1 {
		for id := range m.selected {
			if sel, found := m.store.Row(id); found {
				row = sel
				ok = true
			}
		}
	}
	if !ok {
		return m, nil
	}
	if len(row.AEMails) == 0 {
		return m, m.pushToast(errorStyle.Render("Sin destinatarios: completa AE mails primero"))
	}
	m.briefRow = row
	m.briefSending = false
	m.briefResp = nil
	m.briefErr = ""
	m.viewMode = ViewBrief
	return m, nil
}

func (m Model) handleBriefKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		if m.briefSending {
			return m, nil
		}
		m.viewMode = ViewSheet
		return m, nil
	case "enter", "y":
		if m.briefSending || m.briefResp != nil {
			m.viewMode = ViewSheet
			return m, nil
		}
		m.briefSending = true
		m.briefErr = ""
		return m, m.sendBriefCmd(m.briefRow)
	}
	return m, nil
}

func (m Model) renderBriefView() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("ENVIAR BRIEF"))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("  Empresa: %s\n", m.briefRow.Company))
	s.WriteString(fmt.Sprintf("  Destinatarios: %s\n", strings.Join(m.briefRow.AEMails, ", ")))
	s.WriteString("\n")

	switch {
	case m.briefSending:
		s.WriteString("  Enviando…\n")
	case m.briefErr != "":
		s.WriteString("  " + errorStyle.Render("Error: "+m.briefErr) + "\n")
	case m.briefResp != nil:
		if len(m.briefResp.Links) == 0 {
			s.WriteString("  Enviado.\n")
			if m.briefResp.Raw != "" {
				s.WriteString("  " + m.briefResp.Raw + "\n")
			}
		} else {
			s.WriteString("  Documentos generados:\n")
			for _, link := range m.briefResp.Links {
				heading := link.Heading
				if heading == "" {
					heading = "Brief"
				}
				s.WriteString(fmt.Sprintf("   · %s: %s\n", heading, link.Link))
			}
		}
	default:
		s.WriteString("  ¿Enviar el brief de esta reunión?\n")
	}

	s.WriteString("\n")
	if m.briefResp != nil || m.briefErr != "" {
		s.WriteString(helpStyle.Render("esc volver"))
	} else {
		s.WriteString(helpStyle.Render("enter enviar · esc cancelar"))
	}
	return s.String()
}
