package tui

import "github.com/MKhiriev/go-salon-sync/internal/service"

// NavigateTo switches the active page. Payload, when set, is delivered to
// the new page right after its Init.
type NavigateTo struct {
	Page    string
	Payload any
}

type statusTickMsg struct{}

type statusesMsg struct {
	statuses []service.Status
}

// collectionChangedMsg is sent for every change published by an open
// collection, whether it was made locally or pulled.
type collectionChangedMsg struct {
	key string
}

type refreshDoneMsg struct {
	err error
}

type openCollectionMsg struct {
	key string
}

type recordsLoadedMsg struct {
	key     string
	records []record
	err     error
}

type editRecordMsg struct {
	key string
	raw string
}

type recordSavedMsg struct {
	key string
	err error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
