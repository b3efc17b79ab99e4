package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-salon-sync/internal/app"
	"github.com/MKhiriev/go-salon-sync/internal/service"
)

// collectionsModel lists every open collection with its sync state.
type collectionsModel struct {
	ctx         context.Context
	collections Collections

	statuses   []service.Status
	idx        int
	refreshing bool
	spinner    spinner.Model
	status     string
	err        *errorOverlayModel
}

func newCollectionsModel(ctx context.Context, collections Collections) collectionsModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return collectionsModel{ctx: ctx, collections: collections, spinner: s}
}

func (m collectionsModel) Init() tea.Cmd {
	return tea.Batch(loadStatusesCmd(m.collections), m.spinner.Tick)
}

func (m collectionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusesMsg:
		m.statuses = msg.statuses
		if m.idx >= len(m.statuses) {
			m.idx = max(len(m.statuses)-1, 0)
		}
		return m, nil

	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			m.err = &errorOverlayModel{message: app.MsgRefreshFailed + ": " + humanizeError(msg.err)}
			return m, loadStatusesCmd(m.collections)
		}
		m.status = app.MsgRefreshDone
		return m, tea.Batch(loadStatusesCmd(m.collections), clearStatusCmd())

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.err != nil {
			if key.Matches(msg, keys.enter, keys.esc) {
				m.err = nil
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.quit):
			return m, tea.Quit
		case key.Matches(msg, keys.up):
			if m.idx > 0 {
				m.idx--
			}
		case key.Matches(msg, keys.down):
			if m.idx < len(m.statuses)-1 {
				m.idx++
			}
		case key.Matches(msg, keys.refresh):
			if !m.refreshing {
				m.refreshing = true
				return m, tea.Batch(m.spinner.Tick, refreshCmd(m.ctx, m.collections))
			}
		case key.Matches(msg, keys.enter):
			if st, ok := m.current(); ok {
				return m, func() tea.Msg {
					return NavigateTo{Page: pageRecords, Payload: openCollectionMsg{key: st.Key}}
				}
			}
		}
	}

	return m, nil
}

func (m collectionsModel) current() (service.Status, bool) {
	if m.idx < 0 || m.idx >= len(m.statuses) {
		return service.Status{}, false
	}
	return m.statuses[m.idx], true
}

func (m collectionsModel) busy() bool {
	if m.refreshing {
		return true
	}
	for _, st := range m.statuses {
		if !st.InitialSynced && st.State != service.StateLocalOnly {
			return true
		}
	}
	return false
}

func (m collectionsModel) View() string {
	if m.err != nil {
		return m.err.View()
	}

	title := "SALON COLLECTIONS"
	if m.busy() {
		title += "  " + m.spinner.View()
	}

	var b strings.Builder
	if len(m.statuses) == 0 {
		b.WriteString("no collections are open\n")
	}
	for i, st := range m.statuses {
		cursor := "  "
		line := fmt.Sprintf("%-14s %4d  %s", st.Key, st.Records, renderState(st))
		if i == m.idx {
			cursor = "> "
			line = selectedStyle.Render(line)
		}
		b.WriteString(cursor)
		b.WriteString(line)
		b.WriteString("\n")
	}

	if st, ok := m.current(); ok {
		b.WriteString("\n")
		b.WriteString(renderStatusDetails(st))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}

	return renderPage(title, b.String(), "enter: open  r: refresh  v: about  q: quit")
}

func renderState(st service.Status) string {
	switch {
	case st.State == service.StateLocalOnly:
		return offlineStyle.Render("offline")
	case st.InitialSynced:
		return syncedStyle.Render(app.MsgSynced)
	default:
		return app.MsgSyncing
	}
}

func renderStatusDetails(st service.Status) string {
	var b strings.Builder

	fmt.Fprintf(&b, "last pull: %s  pulls: %d\n", formatTime(st.LastPullAt), st.Pulls)
	fmt.Fprintf(&b, "last push: %s  pushes: %d  failed: %d\n", formatTime(st.LastPushAt), st.Pushes, st.PushFailures)
	if st.State == service.StateLocalOnly {
		b.WriteString(app.MsgLocalOnly)
		if st.LocalOnlyReason != "" {
			b.WriteString(" (" + st.LocalOnlyReason + ")")
		}
		b.WriteString("\n")
	}
	if st.LastPullError != "" {
		b.WriteString(errorStyle.Render("pull error: " + fitText(st.LastPullError, 60)))
		b.WriteString("\n")
	}
	if st.LastPushError != "" {
		b.WriteString(errorStyle.Render("push error: " + fitText(st.LastPushError, 60)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
