// Package tracker records which sections the backend already holds.
package tracker

import (
	"sync"

	"employee-onboarding/internal/onboarding/section"
)

// State is the submission state of one section. Snapshot is the record as
// last accepted by the backend and is the change-detection baseline.
type State struct {
	Submitted bool
	RemoteID  string
	Snapshot  section.Record
}

// Tracker moves sections from not-submitted to submitted. The only way
// back is Reset.
type Tracker struct {
	mu     sync.RWMutex
	states map[section.ID]State
}

func New() *Tracker {
	return &Tracker{states: make(map[section.ID]State)}
}

// MarkSubmitted records a successful create or update. An empty remoteID
// keeps the id already known for the section.
func (t *Tracker) MarkSubmitted(id section.ID, remoteID string, snapshot section.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.states[id]
	if remoteID == "" {
		remoteID = prev.RemoteID
	}
	var snap section.Record
	if snapshot != nil {
		snap = snapshot.Clone()
	}
	t.states[id] = State{Submitted: true, RemoteID: remoteID, Snapshot: snap}
}

func (t *Tracker) Get(id section.ID) State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.states[id]
}

func (t *Tracker) Submitted(id section.ID) bool {
	return t.Get(id).Submitted
}

// All returns the state of every section in stepper order.
func (t *Tracker) All() map[section.ID]State {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[section.ID]State, len(section.Order))
	for _, id := range section.Order {
		out[id] = t.states[id]
	}
	return out
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states = make(map[section.ID]State)
}
