package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-salon-sync/models"
)

const (
	pageCollections = "collections"
	pageRecords     = "records"
	pageEdit        = "edit"

	statusPollInterval = time.Second
)

// RootModel is a TUI router:
// 1) keeps active page
// 2) handles global Ctrl+C quit
// 3) handles NavigateTo messages
// 4) polls collection statuses for every page
// 5) delegates all other messages to the active page
type RootModel struct {
	collections Collections
	pages       map[string]tea.Model
	current     tea.Model
	buildInfo   models.AppBuildInfo

	showBuildInfo bool
}

// NewRootModel registers all pages and opens startPage.
func NewRootModel(collections Collections, pages map[string]tea.Model, startPage string, buildInfo models.AppBuildInfo) RootModel {
	return RootModel{
		collections: collections,
		pages:       pages,
		current:     pages[startPage],
		buildInfo:   buildInfo,
	}
}

func (r RootModel) Init() tea.Cmd {
	cmds := []tea.Cmd{loadStatusesCmd(r.collections), statusTickCmd()}
	if r.current != nil {
		cmds = append(cmds, r.current.Init())
	}
	return tea.Batch(cmds...)
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Global hotkeys for every page.
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return r, tea.Quit
		case "v":
			if r.isStartPage() {
				r.showBuildInfo = !r.showBuildInfo
				return r, nil
			}
		case "esc":
			if r.showBuildInfo {
				r.showBuildInfo = false
				return r, nil
			}
		}

		if r.showBuildInfo {
			return r, nil
		}
	}

	switch msg := msg.(type) {
	case NavigateTo:
		next, exists := r.pages[msg.Page]
		if !exists {
			return r, nil
		}

		r.showBuildInfo = false
		r.pages[r.pageName()] = r.current
		r.current = next

		if msg.Payload != nil {
			payload := msg.Payload
			return r, tea.Batch(r.current.Init(), func() tea.Msg { return payload })
		}
		return r, r.current.Init()

	case statusTickMsg:
		return r, tea.Batch(loadStatusesCmd(r.collections), statusTickCmd())

	case collectionChangedMsg:
		// statuses carry record counts, so every change refreshes them too
		updated, cmd := r.delegate(msg)
		return updated, tea.Batch(cmd, loadStatusesCmd(r.collections))
	}

	return r.delegate(msg)
}

func (r RootModel) delegate(msg tea.Msg) (RootModel, tea.Cmd) {
	if r.current == nil {
		return r, nil
	}

	updated, cmd := r.current.Update(msg)
	r.current = updated
	return r, cmd
}

func (r RootModel) View() string {
	if r.showBuildInfo {
		return renderBuildInfoWindow(r.buildInfo)
	}
	if r.current == nil {
		return renderPage("TUI", "", "")
	}
	return r.current.View()
}

func (r RootModel) pageName() string {
	switch r.current.(type) {
	case collectionsModel:
		return pageCollections
	case recordsModel:
		return pageRecords
	case editModel:
		return pageEdit
	default:
		return ""
	}
}

func (r RootModel) isStartPage() bool {
	_, ok := r.current.(collectionsModel)
	return ok
}

func statusTickCmd() tea.Cmd {
	return tea.Tick(statusPollInterval, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}
