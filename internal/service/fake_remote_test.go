package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory RemoteCollectionStore that notifies every
// subscriber of a key after each successful Set, including the writer.
type fakeRemote struct {
	mu     sync.Mutex
	values map[string]string
	sets   map[string][]string
	subs   map[string]map[int]func()
	nextID int

	getErr       error
	setErr       error
	subscribeErr error
	// getGate, when set, blocks every Get until it is closed.
	getGate chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		values: make(map[string]string),
		sets:   make(map[string][]string),
		subs:   make(map[string]map[int]func()),
	}
}

func (f *fakeRemote) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	gate := f.getGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", false, f.getErr
	}
	text, ok := f.values[key]
	return text, ok, nil
}

func (f *fakeRemote) Set(_ context.Context, key, text string) error {
	f.mu.Lock()
	if f.setErr != nil {
		err := f.setErr
		f.mu.Unlock()
		return err
	}
	f.values[key] = text
	f.sets[key] = append(f.sets[key], text)
	subs := f.subscribersLocked(key)
	f.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return nil
}

// write stores text as if another device had written it.
func (f *fakeRemote) write(key, text string) {
	f.mu.Lock()
	f.values[key] = text
	subs := f.subscribersLocked(key)
	f.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

func (f *fakeRemote) subscribersLocked(key string) []func() {
	out := make([]func(), 0, len(f.subs[key]))
	for _, fn := range f.subs[key] {
		out = append(out, fn)
	}
	return out
}

func (f *fakeRemote) Subscribe(key string, onChange func()) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	if f.subs[key] == nil {
		f.subs[key] = make(map[int]func())
	}
	id := f.nextID
	f.nextID++
	f.subs[key][id] = onChange

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs[key], id)
	}, nil
}

func (f *fakeRemote) setCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sets[key])
}

func (f *fakeRemote) pushed(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sets[key]...)
}

func (f *fakeRemote) subscribers(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[key])
}

func (f *fakeRemote) value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	text, ok := f.values[key]
	return text, ok
}

// records decodes the stored value. Missing or malformed values yield nil.
func (f *fakeRemote) records(t *testing.T, key string) []testRecord {
	t.Helper()
	text, ok := f.value(key)
	if !ok {
		return nil
	}
	var out []testRecord
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil
	}
	return out
}

func mustEncode(t *testing.T, records []testRecord) string {
	t.Helper()
	text, err := EncodeCollection(records)
	require.NoError(t, err)
	return text
}
