// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// editModel edits one record as JSON. Saving stamps lastModified and
// upserts the record by id.
type editModel struct {
	collections Collections
	now         func() time.Time

	key    string
	input  textarea.Model
	saving bool
	errMsg string
}

func newEditModel(collections Collections, now func() time.Time) editModel {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(16)
	return editModel{collections: collections, now: now, input: ta}
}

func (m editModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editRecordMsg:
		m.key = msg.key
		m.saving = false
		m.errMsg = ""
		m.input.SetValue(msg.raw)
		return m, m.input.Focus()

	case recordSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.input.Blur()
		saved := msg.key
		return m, func() tea.Msg {
			return NavigateTo{Page: pageRecords, Payload: openCollectionMsg{key: saved}}
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			m.input.Blur()
			openKey := m.key
			return m, func() tea.Msg {
				return NavigateTo{Page: pageRecords, Payload: openCollectionMsg{key: openKey}}
			}
		case key.Matches(msg, keys.save):
			if m.saving {
				return m, nil
			}
			m.saving = true
			m.errMsg = ""
			return m, saveRecordCmd(m.collections, m.key, m.input.Value(), m.now())
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m editModel) View() string {
	body := m.input.View()
	if m.saving {
		body += "\n\nsaving..."
	}
	if m.errMsg != "" {
		body += "\n\n" + errorStyle.Render(m.errMsg)
	}
	return renderPage("EDIT "+m.key, body, "ctrl+s: save  esc: cancel")
}
