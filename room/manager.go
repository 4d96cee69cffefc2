package room

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/wfunc/colorparty/logger"
	"github.com/wfunc/colorparty/mixer"
	"github.com/wfunc/colorparty/models"
	"github.com/wfunc/colorparty/session"
)

// codeAlphabet avoids easily-confused characters (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Manager is the process-wide session registry: room-code allocation, lookup
// and idle-room expiry.
type Manager struct {
	rooms       map[string]*Room
	mutex       sync.RWMutex
	codeLength  int
	defaults    Settings
	broadcaster Broadcaster
	solver      *mixer.Solver
}

func NewManager(codeLength int, defaults Settings, b Broadcaster, solver *mixer.Solver) *Manager {
	return &Manager{
		rooms:       make(map[string]*Room),
		codeLength:  codeLength,
		defaults:    defaults,
		broadcaster: b,
		solver:      solver,
	}
}

// CreateRoom allocates a unique code and creates a room with the creator as
// host and initial denner. Missing settings fall back to the configured
// defaults.
func (m *Manager) CreateRoom(creator *session.Session, creatorName, targetColor string, settings *models.RoomSettings) *Room {
	s := m.defaults
	if settings != nil {
		if settings.MaxPlayers > 1 {
			s.MaxPlayers = settings.MaxPlayers
		}
		if settings.MaxRounds > 0 {
			s.MaxRounds = settings.MaxRounds
		}
		if settings.GuessTime > 0 {
			s.GuessTime = settings.GuessTime
		}
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	code := m.allocateCodeLocked()
	r := NewRoom(code, creator, creatorName, targetColor, s, m.broadcaster, m.solver)
	m.rooms[code] = r
	logger.Log.Infof("Room %s created by %s (%s)", code, creatorName, creator.GetID())
	return r
}

// GetRoom looks a room up by code, case-insensitively.
func (m *Manager) GetRoom(code string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	r, exists := m.rooms[normalizeCode(code)]
	return r, exists
}

func (m *Manager) RemoveRoom(code string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.rooms, normalizeCode(code))
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// Sweep destroys rooms that have been empty for longer than the grace
// period. Runs off the request path on a periodic schedule.
func (m *Manager) Sweep(grace time.Duration) int {
	m.mutex.Lock()
	candidates := make(map[string]*Room, len(m.rooms))
	for code, r := range m.rooms {
		candidates[code] = r
	}
	m.mutex.Unlock()

	removed := 0
	for code, r := range candidates {
		if r.EmptyFor(grace) {
			m.RemoveRoom(code)
			removed++
			logger.Log.Infof("Room %s expired after idle grace period", code)
		}
	}
	return removed
}

func (m *Manager) allocateCodeLocked() string {
	for {
		b := make([]byte, m.codeLength)
		for i := range b {
			b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := string(b)
		if _, exists := m.rooms[code]; !exists {
			return code
		}
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
