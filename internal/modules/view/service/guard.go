package view

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
)

type Kind string

const (
	KindBoard   Kind = "board"
	KindPost    Kind = "post"
	KindInbox   Kind = "inbox"
	KindProfile Kind = "profile"
)

var kinds = []Kind{KindBoard, KindPost, KindInbox, KindProfile}

// Slot is the visible state of one view kind for one viewer.
type Slot struct {
	Viewer uuid.UUID
	Kind   Kind
}

func (s Slot) key() string {
	return fmt.Sprintf("%s:%s", s.Viewer.String(), s.Kind)
}

// Token identifies one load started by Begin.
type Token struct {
	slot Slot
	gen  uint64
}

type slotState struct {
	latest    uint64
	committed uint64
	view      any
}

// Guard hands out generation tokens per slot and keeps the last committed view model.
// Only the most recently started load of a slot may commit.
type Guard struct {
	// seq is shared by all slots so a token issued before Clear never matches one
	// issued after it.
	seq   atomic.Uint64
	slots cmap.ConcurrentMap[string, slotState]
}

func NewGuard() *Guard {
	return &Guard{slots: cmap.New[slotState]()}
}

func (g *Guard) Begin(slot Slot) Token {
	gen := g.seq.Add(1)
	g.slots.Upsert(slot.key(), slotState{}, func(exist bool, old, _ slotState) slotState {
		if gen > old.latest {
			old.latest = gen
		}
		return old
	})
	return Token{slot: slot, gen: gen}
}

// Commit stores view as the slot's visible state and reports whether token was still
// the latest one.
func (g *Guard) Commit(token Token, view any) bool {
	committed := false
	g.slots.Upsert(token.slot.key(), slotState{}, func(exist bool, old, _ slotState) slotState {
		if !exist || old.latest != token.gen {
			return old
		}
		old.committed = token.gen
		old.view = view
		committed = true
		return old
	})
	return committed
}

// Current returns the committed view model of slot.
func (g *Guard) Current(slot Slot) (any, bool) {
	state, ok := g.slots.Get(slot.key())
	if !ok || state.committed == 0 {
		return nil, false
	}
	return state.view, true
}

// CommittedAfter returns the slot's committed view when the load that committed it
// started after token was issued.
func (g *Guard) CommittedAfter(token Token) (any, bool) {
	state, ok := g.slots.Get(token.slot.key())
	if !ok || state.committed <= token.gen {
		return nil, false
	}
	return state.view, true
}

// Clear drops every slot of viewer. Loads still in flight for those slots will not commit.
func (g *Guard) Clear(viewer uuid.UUID) {
	for _, k := range kinds {
		g.slots.Remove(Slot{Viewer: viewer, Kind: k}.key())
	}
}
