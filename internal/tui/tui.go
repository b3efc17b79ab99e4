package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/service"
	"github.com/MKhiriev/go-salon-sync/models"
)

// Collections is the part of the collection registry the TUI drives.
// *service.Registry implements it.
type Collections interface {
	Statuses() []service.Status
	Encoded(key string) (string, error)
	UpsertJSON(key string, raw []byte) error
	RefreshAll(ctx context.Context) error
	Observe(fn func(key string)) (cancel func())
}

var _ Collections = (*service.Registry)(nil)

type TUI struct {
	collections Collections
	buildInfo   models.AppBuildInfo
	now         func() time.Time
	logger      *logger.Logger
}

func New(collections Collections, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{
		collections: collections,
		buildInfo:   buildInfo,
		now:         time.Now,
		logger:      logger,
	}
}

// Run shows the collection browser until the user quits or ctx ends. It
// implements workers.Worker.
func (t *TUI) Run(ctx context.Context) error {
	pages := map[string]tea.Model{
		pageCollections: newCollectionsModel(ctx, t.collections),
		pageRecords:     newRecordsModel(ctx, t.collections),
		pageEdit:        newEditModel(t.collections, t.now),
	}
	root := NewRootModel(t.collections, pages, pageCollections, t.buildInfo)

	p := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))

	// observers may run inside Update (a save from the edit page), so the
	// message is handed over asynchronously
	cancel := t.collections.Observe(func(key string) {
		go p.Send(collectionChangedMsg{key: key})
	})
	defer cancel()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	t.logger.Debug().Msg("tui closed")
	return nil
}
