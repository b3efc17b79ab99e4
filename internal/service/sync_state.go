package service

import (
	"sync"
	"time"
)

// Origin tags every value published through a [Collection].
type Origin int

const (
	// OriginLocal marks a change made by the application. Local changes are
	// persisted and pushed to the remote store.
	OriginLocal Origin = iota
	// OriginRemote marks a change produced by a pull and merge. Remote
	// changes are persisted but never pushed back.
	OriginRemote
)

func (o Origin) String() string {
	if o == OriginRemote {
		return "remote"
	}
	return "local"
}

// State is the lifecycle state of one collection's synchronization.
type State string

const (
	StateUninitialized  State = "uninitialized"
	StatePullingInitial State = "pulling_initial"
	StateSubscribed     State = "subscribed"
	StateLocalOnly      State = "local_only"
	StateTornDown       State = "torn_down"
)

// Status is a point-in-time snapshot of a collection's sync state.
type Status struct {
	Key             string    `json:"key"`
	State           State     `json:"state"`
	InitialSynced   bool      `json:"initialSynced"`
	ApplyingRemote  bool      `json:"applyingRemote"`
	Records         int       `json:"records"`
	Pulls           int       `json:"pulls"`
	Pushes          int       `json:"pushes"`
	PushFailures    int       `json:"pushFailures"`
	LastPullAt      time.Time `json:"lastPullAt,omitzero"`
	LastPushAt      time.Time `json:"lastPushAt,omitzero"`
	LastPullError   string    `json:"lastPullError,omitempty"`
	LastPushError   string    `json:"lastPushError,omitempty"`
	LocalOnlyReason string    `json:"localOnlyReason,omitempty"`
}

// SyncState is the per-collection synchronization state. It is owned by
// exactly one [Collection] and lives until that collection is closed.
type SyncState struct {
	mu sync.Mutex

	key   string
	state State

	// applyingRemote is raised while a pulled value is being published.
	// Updates issued while it is raised inherit the remote origin.
	applyingRemote bool
	// initialSynced opens the push path after the first successful pull.
	initialSynced bool

	// localEdits counts changes the remote store has not necessarily seen.
	// pushingEdits is the count covered by the push in flight, pushedEdits
	// the count covered by the last successful push.
	localEdits, pushingEdits, pushedEdits uint64

	unsubscribe func()

	pulls, pushes, pushFailures int
	lastPullAt, lastPushAt      time.Time
	lastPullErr, lastPushErr    error
	localOnlyReason             error
}

func newSyncState(key string) *SyncState {
	return &SyncState{key: key, state: StateUninitialized}
}

func (s *SyncState) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SyncState) InitialSynced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialSynced
}

func (s *SyncState) ApplyingRemote() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyingRemote
}

func (s *SyncState) closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateTornDown
}

// transition moves to next unless the state is terminal. It returns false
// when the collection was already torn down.
func (s *SyncState) transition(next State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateTornDown {
		return false
	}
	s.state = next
	return true
}

// goLocalOnly switches to local-only mode and reports whether this call made
// the switch, so the caller warns exactly once.
func (s *SyncState) goLocalOnly(reason error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateTornDown || s.state == StateLocalOnly {
		return false
	}
	s.state = StateLocalOnly
	s.localOnlyReason = reason
	return true
}

// tearDown marks the state terminal and hands back the subscription so the
// caller can release it outside the lock.
func (s *SyncState) tearDown() (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateTornDown
	s.applyingRemote = false
	unsubscribe, s.unsubscribe = s.unsubscribe, nil
	return unsubscribe
}

func (s *SyncState) setUnsubscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsubscribe = fn
}

func (s *SyncState) raiseGuard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyingRemote = true
}

func (s *SyncState) lowerGuard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyingRemote = false
}

// originForUpdate classifies an application Update: remote while the guard
// is raised, local otherwise.
func (s *SyncState) originForUpdate() Origin {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyingRemote {
		return OriginRemote
	}
	return OriginLocal
}

// markLocalEdit records a change that must reach the remote store. It is
// called after the changed value became visible.
func (s *SyncState) markLocalEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localEdits++
}

// markGuardedChange records an Update that ran under the guard and changed
// the value. It reports whether the guard is still raised; when it is not,
// the caller schedules the push itself.
func (s *SyncState) markGuardedChange() (guarded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localEdits++
	return s.applyingRemote
}

// hasUnpushedEdits reports whether some change is covered neither by the
// last successful push nor by the one in flight.
func (s *SyncState) hasUnpushedEdits() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localEdits > max(s.pushedEdits, s.pushingEdits)
}

// beginPush must be called before the pushed value is read.
func (s *SyncState) beginPush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushingEdits = s.localEdits
}

// completePull records a pull outcome. On success it also opens the push
// path and returns true when this was the first successful pull.
func (s *SyncState) completePull(at time.Time, err error) (first bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pulls++
	s.lastPullAt = at
	s.lastPullErr = err
	if err != nil {
		return false
	}
	first = !s.initialSynced
	s.initialSynced = true
	if s.state == StatePullingInitial {
		s.state = StateSubscribed
	}
	return first
}

func (s *SyncState) completePush(at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPushAt = at
	s.lastPushErr = err
	covered := s.pushingEdits
	s.pushingEdits = 0
	if err != nil {
		s.pushFailures++
		return
	}
	s.pushes++
	s.pushedEdits = max(s.pushedEdits, covered)
}

func (s *SyncState) snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Key:            s.key,
		State:          s.state,
		InitialSynced:  s.initialSynced,
		ApplyingRemote: s.applyingRemote,
		Pulls:          s.pulls,
		Pushes:         s.pushes,
		PushFailures:   s.pushFailures,
		LastPullAt:     s.lastPullAt,
		LastPushAt:     s.lastPushAt,
	}
	if s.lastPullErr != nil {
		st.LastPullError = s.lastPullErr.Error()
	}
	if s.lastPushErr != nil {
		st.LastPushError = s.lastPushErr.Error()
	}
	if s.localOnlyReason != nil {
		st.LocalOnlyReason = s.localOnlyReason.Error()
	}
	return st
}
