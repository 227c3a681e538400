package state

import (
	"sync"
	"time"
)

type Phase int

const (
	IDLE Phase = iota
	RENDERING
	DONE
	ERROR
)

func (p Phase) String() string {
	switch p {
	case IDLE:
		return "idle"
	case RENDERING:
		return "rendering"
	case DONE:
		return "done"
	case ERROR:
		return "error"
	}
	return "unknown"
}

// RenderInfo describes the most recent finished render.
type RenderInfo struct {
	Path     string
	Fallback string // avatar fallback reason, "none" when the avatar was used
	Lines    int
	Duration time.Duration
	At       time.Time
	Err      string
}

type State struct {
	Phase     Phase
	InFlight  int
	Rendered  int64
	Failed    int64
	Fallbacks map[string]int64
	Last      RenderInfo
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: IDLE, Fallbacks: map[string]int64{}}}
}

// Snapshot returns a copy that is safe to read without holding the lock.
func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	out := store.state
	out.Fallbacks = make(map[string]int64, len(store.state.Fallbacks))
	for k, v := range store.state.Fallbacks {
		out.Fallbacks[k] = v
	}
	return out
}

func (store *Store) BeginRender() {
	store.mu.Lock()
	store.state.InFlight++
	store.state.Phase = RENDERING
	store.mu.Unlock()
}

func (store *Store) FinishRender(info RenderInfo) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.InFlight > 0 {
		store.state.InFlight--
	}
	store.state.Last = info
	if info.Err != "" {
		store.state.Failed++
		store.state.Phase = ERROR
	} else {
		store.state.Rendered++
		store.state.Fallbacks[info.Fallback]++
		store.state.Phase = DONE
	}
	if store.state.InFlight > 0 {
		store.state.Phase = RENDERING
	}
}
