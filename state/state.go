// Package state models a room's game-state machine as a closed set of states
// with an explicit transition table. Any transition not listed is rejected.
package state

import (
	"errors"
	"sync"
)

// GameState is one of the five room phases.
type GameState string

const (
	Lobby           GameState = "lobby"
	GameSelection   GameState = "gameSelection"
	Playing         GameState = "playing"
	RoundFinished   GameState = "roundFinished"
	SessionFinished GameState = "sessionFinished"
)

// ErrTransitionNotAllowed is returned when a state transition is not in the
// transition table.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// transitions enumerates every legal edge of the machine. roundFinished can
// re-enter gameSelection between rounds.
var transitions = map[GameState][]GameState{
	Lobby:           {GameSelection},
	GameSelection:   {Playing},
	Playing:         {RoundFinished},
	RoundFinished:   {GameSelection, SessionFinished},
	SessionFinished: {},
}

// Machine holds the current state of one room.
type Machine struct {
	current GameState
	mutex   sync.RWMutex
}

// NewMachine starts in the lobby.
func NewMachine() *Machine {
	return &Machine{current: Lobby}
}

func (m *Machine) Current() GameState {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.current
}

// Is reports whether the machine is in any of the given states.
func (m *Machine) Is(states ...GameState) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, s := range states {
		if m.current == s {
			return true
		}
	}
	return false
}

// Transition moves to the target state, or returns ErrTransitionNotAllowed
// without touching the current state.
func (m *Machine) Transition(to GameState) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, allowed := range transitions[m.current] {
		if allowed == to {
			m.current = to
			return nil
		}
	}
	return ErrTransitionNotAllowed
}
