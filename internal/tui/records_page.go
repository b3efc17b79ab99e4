package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-salon-sync/internal/app"
	"github.com/MKhiriev/go-salon-sync/internal/service"
	"github.com/MKhiriev/go-salon-sync/internal/utils"
)

// recordIDs names records created from the TUI.
var recordIDs = utils.NewUUIDGenerator()

func newRecordTemplate(id string) string {
	return fmt.Sprintf("{\n  \"id\": %q\n}", id)
}

// recordsModel shows the records of one collection. It reloads whenever
// the collection publishes a change, so pulled edits appear live.
type recordsModel struct {
	ctx         context.Context
	collections Collections

	key     string
	records []record
	st      service.Status
	idx     int
	detail  bool
	loading bool
	status  string
	err     *errorOverlayModel
}

func newRecordsModel(ctx context.Context, collections Collections) recordsModel {
	return recordsModel{ctx: ctx, collections: collections}
}

func (m recordsModel) Init() tea.Cmd {
	return nil
}

func (m recordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case openCollectionMsg:
		if msg.key != m.key {
			m.idx = 0
			m.detail = false
		}
		m.key = msg.key
		m.loading = true
		m.err = nil
		return m, loadRecordsCmd(m.collections, m.key)

	case collectionChangedMsg:
		if msg.key != m.key {
			return m, nil
		}
		return m, loadRecordsCmd(m.collections, m.key)

	case recordsLoadedMsg:
		if msg.key != m.key {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = &errorOverlayModel{message: humanizeError(msg.err)}
			return m, nil
		}
		m.records = msg.records
		if m.idx >= len(m.records) {
			m.idx = max(len(m.records)-1, 0)
		}
		return m, nil

	case statusesMsg:
		for _, st := range msg.statuses {
			if st.Key == m.key {
				m.st = st
			}
		}
		return m, nil

	case refreshDoneMsg:
		if msg.err != nil {
			m.err = &errorOverlayModel{message: app.MsgRefreshFailed + ": " + humanizeError(msg.err)}
			return m, nil
		}
		m.status = app.MsgRefreshDone
		return m, clearStatusCmd()

	case copiedMsg:
		if msg.err != nil {
			m.status = app.MsgClipboardUnavailable
		} else {
			m.status = app.MsgCopied
		}
		return m, clearStatusCmd()

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.err != nil {
			if key.Matches(msg, keys.enter, keys.esc) {
				m.err = nil
			}
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m recordsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		if m.detail {
			m.detail = false
			return m, nil
		}
		return m, func() tea.Msg { return NavigateTo{Page: pageCollections} }
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if !m.detail && m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if !m.detail && m.idx < len(m.records)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.enter):
		if _, ok := m.current(); ok {
			m.detail = !m.detail
		}
	case key.Matches(msg, keys.refresh):
		return m, refreshCmd(m.ctx, m.collections)
	case key.Matches(msg, keys.copy):
		if rec, ok := m.current(); ok {
			return m, copyCmd(rec.pretty())
		}
	case key.Matches(msg, keys.edit):
		if rec, ok := m.current(); ok {
			return m, m.openEditor(rec.pretty())
		}
	case key.Matches(msg, keys.newItem):
		return m, m.openEditor(newRecordTemplate(recordIDs.Generate()))
	}

	return m, nil
}

func (m recordsModel) openEditor(raw string) tea.Cmd {
	payload := editRecordMsg{key: m.key, raw: raw}
	return func() tea.Msg {
		return NavigateTo{Page: pageEdit, Payload: payload}
	}
}

func (m recordsModel) current() (record, bool) {
	if m.idx < 0 || m.idx >= len(m.records) {
		return record{}, false
	}
	return m.records[m.idx], true
}

func (m recordsModel) View() string {
	if m.err != nil {
		return m.err.View()
	}

	title := strings.ToUpper(m.key)
	if m.st.Key != "" {
		title += "  " + renderState(m.st)
	}

	if m.detail {
		rec, _ := m.current()
		return renderPage(title+" / "+rec.ID, m.withStatus(rec.pretty()), "esc: back  c: copy  e: edit")
	}

	var b strings.Builder
	switch {
	case m.loading:
		b.WriteString("loading...\n")
	case len(m.records) == 0:
		b.WriteString(app.MsgNoRecords + "\n")
	}
	for i, rec := range m.records {
		cursor := "  "
		line := fmt.Sprintf("%-12s %-28s %s", fitText(rec.ID, 12), fitText(rec.Title, 28), rec.LastModified)
		if i == m.idx {
			cursor = "> "
			line = selectedStyle.Render(line)
		}
		b.WriteString(cursor)
		b.WriteString(line)
		b.WriteString("\n")
	}

	return renderPage(title, m.withStatus(strings.TrimRight(b.String(), "\n")),
		"enter: details  n: new  e: edit  c: copy  r: refresh  esc: back")
}

func (m recordsModel) withStatus(body string) string {
	if m.status == "" {
		return body
	}
	return body + "\n\n" + m.status
}
