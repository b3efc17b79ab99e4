package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-salon-sync/models"
)

const statusMessageTTL = 2 * time.Second

func loadStatusesCmd(collections Collections) tea.Cmd {
	return func() tea.Msg {
		return statusesMsg{statuses: collections.Statuses()}
	}
}

func refreshCmd(ctx context.Context, collections Collections) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: collections.RefreshAll(ctx)}
	}
}

func loadRecordsCmd(collections Collections, key string) tea.Cmd {
	return func() tea.Msg {
		text, err := collections.Encoded(key)
		if err != nil {
			return recordsLoadedMsg{key: key, err: err}
		}
		records, err := decodeRecords(text)
		return recordsLoadedMsg{key: key, records: records, err: err}
	}
}

func saveRecordCmd(collections Collections, key, raw string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		data, err := models.StampJSON([]byte(raw), now)
		if err != nil {
			return recordSavedMsg{key: key, err: err}
		}
		return recordSavedMsg{key: key, err: collections.UpsertJSON(key, data)}
	}
}

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(statusMessageTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
