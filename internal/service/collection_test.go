// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/mock"
	"github.com/MKhiriev/go-salon-sync/internal/store"
)

const testKey = "clients"

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func openTestCollection(t *testing.T, local store.LocalStore, remote RemoteCollectionStore, opts SyncOptions, initial []testRecord) *Collection[testRecord] {
	t.Helper()
	if local == nil {
		local = store.NewMemoryLocalStore()
	}

	reg := NewRegistry(context.Background(), local, remote, opts, logger.Nop())
	t.Cleanup(reg.CloseAll)

	col, err := OpenCollection(reg, testKey, initial)
	require.NoError(t, err)
	return col
}

func waitSynced(t *testing.T, col *Collection[testRecord]) {
	t.Helper()
	require.Eventually(t, func() bool { return col.Status().InitialSynced }, waitFor, tick)
}

// stay asserts that cond keeps holding for a short while.
func stay(t *testing.T, cond func() bool) {
	t.Helper()
	require.Never(t, func() bool { return !cond() }, 100*time.Millisecond, tick)
}

// ── Local edits ──────────────────────────────────────────────────────────────

func TestCollection_SetIsVisibleAndDurable(t *testing.T) {
	local := store.NewMemoryLocalStore()
	col := openTestCollection(t, local, nil, SyncOptions{}, nil)

	next := []testRecord{rec("A", day1, "a")}
	col.Set(next)

	assert.Equal(t, next, col.Value())

	stored, ok, err := local.Get(context.Background(), testKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, mustEncode(t, next), stored)
}

func TestCollection_UpdateReceivesCurrentValue(t *testing.T) {
	col := openTestCollection(t, nil, nil, SyncOptions{}, []testRecord{rec("A", day1, "a")})

	col.Update(func(current []testRecord) []testRecord {
		return append(current, rec("B", day2, "b"))
	})

	assert.Equal(t, []string{"A", "B"}, ids(col.Value()))
}

func TestCollection_ValueIsACopy(t *testing.T) {
	col := openTestCollection(t, nil, nil, SyncOptions{}, []testRecord{rec("A", day1, "a")})

	v := col.Value()
	v[0].Name = "mutated"

	assert.Equal(t, "a", col.Value()[0].Name)
}

func TestCollection_LoadsPersistedValueOverInitial(t *testing.T) {
	local := store.NewMemoryLocalStore()
	require.NoError(t, local.Set(context.Background(), testKey, mustEncode(t, []testRecord{rec("P", day1, "persisted")})))

	col := openTestCollection(t, local, nil, SyncOptions{}, []testRecord{rec("S", day1, "seed")})

	assert.Equal(t, []string{"P"}, ids(col.Value()))
}

func TestCollection_CorruptLocalCopyFallsBackToInitial(t *testing.T) {
	local := store.NewMemoryLocalStore()
	require.NoError(t, local.Set(context.Background(), testKey, "{broken"))

	col := openTestCollection(t, local, nil, SyncOptions{}, []testRecord{rec("S", day1, "seed")})

	assert.Equal(t, []string{"S"}, ids(col.Value()))
}

func TestCollection_LocalStoreErrorsAreNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := mock.NewMockLocalStore(ctrl)

	local.EXPECT().Get(gomock.Any(), testKey).Return("", false, errors.New("disk gone"))
	local.EXPECT().Set(gomock.Any(), testKey, gomock.Any()).Return(errors.New("disk gone"))

	col := openTestCollection(t, local, nil, SyncOptions{}, []testRecord{rec("S", day1, "seed")})
	col.Set([]testRecord{rec("A", day1, "a")})

	assert.Equal(t, []string{"A"}, ids(col.Value()))
}

// ── Pull path ────────────────────────────────────────────────────────────────

func TestCollection_InitialPullMergesRemote(t *testing.T) {
	remote := newFakeRemote()
	remote.values[testKey] = mustEncode(t, []testRecord{rec("A", day2, "New"), rec("B", day1, "B-rec")})

	col := openTestCollection(t, nil, remote, SyncOptions{}, []testRecord{rec("A", day1, "Old")})
	waitSynced(t, col)

	assert.ElementsMatch(t, []testRecord{rec("A", day2, "New"), rec("B", day1, "B-rec")}, col.Value())
	assert.Equal(t, StateSubscribed, col.Status().State)
}

func TestCollection_RemoteApplyDoesNotPush(t *testing.T) {
	tests := []struct {
		name      string
		persisted []testRecord
		initial   []testRecord
		remote    []testRecord
		want      []string
	}{
		{
			name:   "empty local",
			remote: []testRecord{rec("A", day1, "a")},
			want:   []string{"A", "B"},
		},
		{
			name:    "initial record missing remotely",
			initial: []testRecord{rec("L", day1, "default")},
			remote:  []testRecord{rec("A", day1, "a")},
			want:    []string{"L", "A", "B"},
		},
		{
			name:    "initial record older than remote copy",
			initial: []testRecord{rec("A", day1, "default")},
			remote:  []testRecord{rec("A", day2, "edited elsewhere")},
			want:    []string{"A", "B"},
		},
		{
			name:      "persisted record newer than remote copy",
			persisted: []testRecord{rec("A", day3, "kept from last session"), rec("P", day1, "p")},
			remote:    []testRecord{rec("A", day1, "a")},
			want:      []string{"A", "P", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := store.NewMemoryLocalStore()
			if tt.persisted != nil {
				require.NoError(t, local.Set(context.Background(), testKey, mustEncode(t, tt.persisted)))
			}
			remote := newFakeRemote()
			remote.values[testKey] = mustEncode(t, tt.remote)

			col := openTestCollection(t, local, remote, SyncOptions{}, tt.initial)
			waitSynced(t, col)

			remote.write(testKey, mustEncode(t, append(tt.remote, rec("B", day2, "b"))))
			require.Eventually(t, func() bool { return len(col.Value()) == len(tt.want) }, waitFor, tick)

			assert.Equal(t, tt.want, ids(col.Value()))
			stay(t, func() bool { return remote.setCount(testKey) == 0 })
		})
	}
}

func TestCollection_NotificationTriggersRepull(t *testing.T) {
	remote := newFakeRemote()
	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)
	waitSynced(t, col)

	remote.write(testKey, mustEncode(t, []testRecord{rec("Z", day1, "from another device")}))

	require.Eventually(t, func() bool {
		_, ok := Find(col, "Z")
		return ok
	}, waitFor, tick)
}

func TestCollection_MalformedRemoteKeepsLocal(t *testing.T) {
	remote := newFakeRemote()
	remote.values[testKey] = "not-json"
	local := []testRecord{rec("A", day1, "a")}

	col := openTestCollection(t, nil, remote, SyncOptions{}, local)
	waitSynced(t, col)

	assert.Equal(t, local, col.Value())
	stay(t, func() bool { return remote.setCount(testKey) == 0 })

	// the next local edit overwrites the broken payload
	Upsert(col, rec("B", day2, "b"))
	require.Eventually(t, func() bool { return len(remote.records(t, testKey)) == 2 }, waitFor, tick)
	assert.Equal(t, []string{"A", "B"}, ids(remote.records(t, testKey)))
}

func TestCollection_AbsentRemoteIsNotWrittenByPull(t *testing.T) {
	remote := newFakeRemote()
	seed := []testRecord{rec("S1", day1, "seed"), rec("S2", day1, "seed")}

	col := openTestCollection(t, nil, remote, SyncOptions{}, seed)
	waitSynced(t, col)

	stay(t, func() bool { return remote.setCount(testKey) == 0 })

	Upsert(col, rec("S2", day2, "edited"))
	require.Eventually(t, func() bool { return remote.setCount(testKey) == 1 }, waitFor, tick)
	assert.Equal(t, []testRecord{rec("S1", day1, "seed"), rec("S2", day2, "edited")}, remote.records(t, testKey))
}

func TestCollection_EmptyAbsentRemoteIsLeftAlone(t *testing.T) {
	remote := newFakeRemote()

	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)
	waitSynced(t, col)

	stay(t, func() bool { return remote.setCount(testKey) == 0 })
}

// ── Push path ────────────────────────────────────────────────────────────────

func TestCollection_LocalEditIsPushed(t *testing.T) {
	remote := newFakeRemote()
	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)
	waitSynced(t, col)

	Upsert(col, rec("A", day1, "a"))

	require.Eventually(t, func() bool { return len(remote.records(t, testKey)) == 1 }, waitFor, tick)
	assert.Equal(t, []testRecord{rec("A", day1, "a")}, remote.records(t, testKey))
}

func TestCollection_PushesAreCoalesced(t *testing.T) {
	remote := newFakeRemote()
	col := openTestCollection(t, nil, remote, SyncOptions{PushDebounce: 50 * time.Millisecond}, nil)
	waitSynced(t, col)

	first := []testRecord{rec("A", day1, "first")}
	second := []testRecord{rec("A", day2, "second")}
	col.Set(first)
	col.Set(second)

	require.Eventually(t, func() bool { return remote.setCount(testKey) == 1 }, waitFor, tick)
	stay(t, func() bool { return remote.setCount(testKey) == 1 })
	assert.Equal(t, second, remote.records(t, testKey))
}

func TestCollection_PushNeverCarriesStaleValue(t *testing.T) {
	remote := newFakeRemote()
	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)
	waitSynced(t, col)

	const edits = 20
	for i := range edits {
		Upsert(col, rec(fmt.Sprintf("R%02d", i), day1, "r"))
	}

	final := mustEncode(t, col.Value())
	require.Eventually(t, func() bool {
		text, _ := remote.value(testKey)
		return text == final
	}, waitFor, tick)

	pushes := remote.pushed(testKey)
	for i := 1; i < len(pushes); i++ {
		assert.GreaterOrEqual(t, len(pushes[i]), len(pushes[i-1]), "push %d went backwards", i)
	}
}

func TestCollection_PushesWaitForInitialSync(t *testing.T) {
	remote := newFakeRemote()
	remote.values[testKey] = mustEncode(t, []testRecord{rec("R", day1, "remote")})
	gate := make(chan struct{})
	remote.getGate = gate

	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)

	Upsert(col, rec("L", day2, "offline edit"))
	assert.Equal(t, StatePullingInitial, col.Status().State)
	stay(t, func() bool { return remote.setCount(testKey) == 0 })

	close(gate)
	waitSynced(t, col)

	require.Eventually(t, func() bool { return remote.setCount(testKey) == 1 }, waitFor, tick)
	assert.ElementsMatch(t, []string{"R", "L"}, ids(remote.records(t, testKey)))
}

func TestCollection_OfflineNewerEditWinsAfterReconnect(t *testing.T) {
	local := store.NewMemoryLocalStore()
	require.NoError(t, local.Set(context.Background(), testKey, mustEncode(t, []testRecord{rec("A", day3, "edited offline")})))

	remote := newFakeRemote()
	remote.values[testKey] = mustEncode(t, []testRecord{rec("A", day1, "stale"), rec("B", day1, "b")})

	col := openTestCollection(t, local, remote, SyncOptions{}, nil)
	waitSynced(t, col)

	a, ok := Find(col, "A")
	require.True(t, ok)
	assert.Equal(t, "edited offline", a.Name)
	stay(t, func() bool { return remote.setCount(testKey) == 0 })

	Upsert(col, rec("C", day3, "c"))
	require.Eventually(t, func() bool { return remote.setCount(testKey) == 1 }, waitFor, tick)
	got := byID(remote.records(t, testKey))
	assert.Equal(t, "edited offline", got["A"].Name)
	assert.Contains(t, got, "B")
	assert.Contains(t, got, "C")
}

func TestCollection_PushFailureIsRecorded(t *testing.T) {
	remote := newFakeRemote()
	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)
	waitSynced(t, col)

	remote.mu.Lock()
	remote.setErr = errors.New("permission denied")
	remote.mu.Unlock()

	Upsert(col, rec("A", day1, "a"))

	require.Eventually(t, func() bool { return col.Status().PushFailures == 1 }, waitFor, tick)
	st := col.Status()
	assert.Contains(t, st.LastPushError, "permission denied")
	assert.Equal(t, []string{"A"}, ids(col.Value()))
}

func TestCollection_FailedPushIsRetriedAfterNextPull(t *testing.T) {
	remote := newFakeRemote()
	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)
	waitSynced(t, col)

	remote.mu.Lock()
	remote.setErr = errors.New("unavailable")
	remote.mu.Unlock()

	Upsert(col, rec("A", day1, "a"))
	require.Eventually(t, func() bool { return col.Status().PushFailures == 1 }, waitFor, tick)

	remote.mu.Lock()
	remote.setErr = nil
	remote.mu.Unlock()

	remote.write(testKey, mustEncode(t, []testRecord{rec("X", day1, "from another device")}))

	require.Eventually(t, func() bool { return len(remote.records(t, testKey)) == 2 }, waitFor, tick)
	assert.Equal(t, []string{"A", "X"}, ids(remote.records(t, testKey)))
	assert.Equal(t, 1, remote.setCount(testKey))
}

func TestCollection_ConcurrentEditsAreNotLost(t *testing.T) {
	remote := newFakeRemote()
	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)
	waitSynced(t, col)

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 10 {
				Upsert(col, rec(fmt.Sprintf("W%d-%d", w, i), day1, "x"))
			}
		}()
	}

	// another device keeps rewriting the remote with its own records
	var external []testRecord
	for i := range 5 {
		external = append(external, rec(fmt.Sprintf("X%d", i), day1, "remote"))
		remote.write(testKey, mustEncode(t, external))
	}
	wg.Wait()

	countW := func(records []testRecord) int {
		n := 0
		for _, r := range records {
			if strings.HasPrefix(r.ID, "W") {
				n++
			}
		}
		return n
	}

	assert.Equal(t, 40, countW(col.Value()))
	require.Eventually(t, func() bool { return countW(remote.records(t, testKey)) == 40 }, waitFor, tick)
}

// ── Guard ────────────────────────────────────────────────────────────────────

func TestCollection_ObserverRecomputeIsTaggedRemote(t *testing.T) {
	remote := newFakeRemote()
	remote.values[testKey] = mustEncode(t, []testRecord{rec("A", day1, "lower")})
	gate := make(chan struct{})
	remote.getGate = gate

	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)

	var origins []Origin
	var mu sync.Mutex
	col.Observe(func(ch Change[testRecord]) {
		mu.Lock()
		origins = append(origins, ch.Origin)
		mu.Unlock()

		for _, r := range ch.Value {
			if r.Name != strings.ToUpper(r.Name) {
				ch.Update(func(current []testRecord) []testRecord {
					for i := range current {
						current[i].Name = strings.ToUpper(current[i].Name)
					}
					return current
				})
				return
			}
		}
	})
	close(gate)

	waitSynced(t, col)
	require.Eventually(t, func() bool {
		v := col.Value()
		return len(v) == 1 && v[0].Name == "LOWER"
	}, waitFor, tick)

	stay(t, func() bool { return remote.setCount(testKey) == 0 })
	mu.Lock()
	assert.Equal(t, []Origin{OriginRemote, OriginRemote}, origins)
	mu.Unlock()
}

func TestCollection_EditInsideGraceWindowStillReachesRemote(t *testing.T) {
	remote := newFakeRemote()
	remote.values[testKey] = mustEncode(t, []testRecord{rec("A", day1, "a")})
	gate := make(chan struct{})
	remote.getGate = gate

	col := openTestCollection(t, nil, remote, SyncOptions{GuardGrace: 300 * time.Millisecond}, nil)

	changes := make(chan Change[testRecord], 16)
	col.Observe(func(ch Change[testRecord]) {
		select {
		case changes <- ch:
		default:
		}
	})
	close(gate)

	first := <-changes
	require.Equal(t, OriginRemote, first.Origin)
	require.True(t, col.Status().ApplyingRemote)

	Upsert(col, rec("B", day2, "typed during grace"))
	second := <-changes
	assert.Equal(t, OriginRemote, second.Origin)
	assert.Equal(t, 0, remote.setCount(testKey))

	require.Eventually(t, func() bool { return len(remote.records(t, testKey)) == 2 }, waitFor, tick)
	require.Eventually(t, func() bool { return !col.Status().ApplyingRemote }, waitFor, tick)
}

func TestCollection_UnstampedEditDuringPullReachesRemote(t *testing.T) {
	remote := newFakeRemote()
	remote.values[testKey] = mustEncode(t, []testRecord{rec("A", day1, "a"), rec("B", day1, "b")})
	gate := make(chan struct{})
	remote.getGate = gate

	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)

	col.Observe(func(ch Change[testRecord]) {
		if ch.Origin != OriginRemote || len(ch.Value) != 2 {
			return
		}
		// another goroutine drops B without touching any timestamp while
		// the pulled value is being published
		done := make(chan struct{})
		go func() {
			defer close(done)
			col.Update(func(current []testRecord) []testRecord {
				return slices.DeleteFunc(current, func(r testRecord) bool { return r.ID == "B" })
			})
		}()
		<-done
	})
	close(gate)
	waitSynced(t, col)

	require.Eventually(t, func() bool { return remote.setCount(testKey) == 1 }, waitFor, tick)
	assert.Equal(t, []testRecord{rec("A", day1, "a")}, remote.records(t, testKey))
	assert.Equal(t, []string{"A"}, ids(col.Value()))
}

func TestCollection_NoOpUpdateDuringPullIsNotPushed(t *testing.T) {
	remote := newFakeRemote()
	remote.values[testKey] = mustEncode(t, []testRecord{rec("A", day1, "a")})
	gate := make(chan struct{})
	remote.getGate = gate

	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)

	var calls atomic.Int64
	col.Observe(func(ch Change[testRecord]) {
		if ch.Origin == OriginRemote && calls.Add(1) == 1 {
			col.Update(func(current []testRecord) []testRecord { return current })
		}
	})
	close(gate)
	waitSynced(t, col)

	require.Eventually(t, func() bool { return calls.Load() == 2 }, waitFor, tick)
	stay(t, func() bool { return remote.setCount(testKey) == 0 })
}

func TestCollection_ChangeRevisionIncreases(t *testing.T) {
	col := openTestCollection(t, nil, nil, SyncOptions{}, nil)

	var revisions []uint64
	cancel := col.Observe(func(ch Change[testRecord]) { revisions = append(revisions, ch.Revision) })

	col.Set([]testRecord{rec("A", day1, "a")})
	col.Set([]testRecord{rec("B", day1, "b")})
	cancel()
	col.Set([]testRecord{rec("C", day1, "c")})

	assert.Equal(t, []uint64{1, 2}, revisions)
}

// ── Degraded modes ───────────────────────────────────────────────────────────

func TestCollection_NilRemoteIsLocalOnly(t *testing.T) {
	col := openTestCollection(t, nil, nil, SyncOptions{}, nil)

	st := col.Status()
	assert.Equal(t, StateLocalOnly, st.State)
	assert.NotEmpty(t, st.LocalOnlyReason)
	assert.ErrorIs(t, col.Refresh(context.Background()), ErrLocalOnly)

	col.Set([]testRecord{rec("A", day1, "a")})
	assert.Len(t, col.Value(), 1)
}

func TestCollection_SubscribeFailureIsLocalOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)

	remote.EXPECT().Subscribe(testKey, gomock.Any()).Return(nil, errors.New("offline"))

	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)
	col.Set([]testRecord{rec("A", day1, "a")})

	st := col.Status()
	assert.Equal(t, StateLocalOnly, st.State)
	assert.Contains(t, st.LocalOnlyReason, "offline")
	assert.ErrorIs(t, col.Refresh(context.Background()), ErrLocalOnly)
}

func TestCollection_FailedGetIsRetriedOnRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)

	var unsubscribed atomic.Bool
	remote.EXPECT().Subscribe(testKey, gomock.Any()).Return(func() { unsubscribed.Store(true) }, nil)
	gomock.InOrder(
		remote.EXPECT().Get(gomock.Any(), testKey).Return("", false, errors.New("timeout")),
		remote.EXPECT().Get(gomock.Any(), testKey).Return("[]", true, nil),
	)

	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)

	require.Eventually(t, func() bool { return col.Status().LastPullError != "" }, waitFor, tick)
	assert.Equal(t, StatePullingInitial, col.Status().State)
	assert.False(t, col.Status().InitialSynced)

	require.NoError(t, col.Refresh(context.Background()))
	st := col.Status()
	assert.Equal(t, StateSubscribed, st.State)
	assert.True(t, st.InitialSynced)
	assert.Empty(t, st.LastPullError)
	assert.Equal(t, 2, st.Pulls)

	col.Close()
	assert.True(t, unsubscribed.Load())
}

// ── Teardown ─────────────────────────────────────────────────────────────────

func TestCollection_Close(t *testing.T) {
	remote := newFakeRemote()
	col := openTestCollection(t, nil, remote, SyncOptions{}, []testRecord{rec("A", day1, "a")})
	waitSynced(t, col)
	require.Equal(t, 1, remote.subscribers(testKey))

	col.Close()
	col.Close()

	assert.Equal(t, 0, remote.subscribers(testKey))
	assert.Equal(t, StateTornDown, col.Status().State)
	assert.ErrorIs(t, col.Refresh(context.Background()), ErrCollectionClosed)

	col.Set(nil)
	assert.Equal(t, []string{"A"}, ids(col.Value()))
}

func TestCollection_CloseDuringPullDropsResult(t *testing.T) {
	remote := newFakeRemote()
	remote.values[testKey] = mustEncode(t, []testRecord{rec("R", day1, "remote")})
	remote.getGate = make(chan struct{})

	local := store.NewMemoryLocalStore()
	col := openTestCollection(t, local, remote, SyncOptions{}, []testRecord{rec("L", day1, "local")})

	col.Close()
	close(remote.getGate)

	assert.Equal(t, []string{"L"}, ids(col.Value()))
	assert.False(t, col.Status().InitialSynced)
}

func TestCollection_RefreshHonoursContext(t *testing.T) {
	remote := newFakeRemote()
	remote.getGate = make(chan struct{})
	col := openTestCollection(t, nil, remote, SyncOptions{}, nil)
	t.Cleanup(func() { close(remote.getGate) })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, col.Refresh(ctx), context.DeadlineExceeded)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func TestUpsertAndFind(t *testing.T) {
	col := openTestCollection(t, nil, nil, SyncOptions{}, nil)

	Upsert(col, rec("A", day1, "a"))
	Upsert(col, rec("B", day1, "b"))
	Upsert(col, rec("A", day2, "a2"))

	assert.Equal(t, []string{"A", "B"}, ids(col.Value()))

	got, ok := Find(col, "A")
	require.True(t, ok)
	assert.Equal(t, "a2", got.Name)

	_, ok = Find(col, "missing")
	assert.False(t, ok)

	assert.Equal(t, 2, col.Status().Records)
}
