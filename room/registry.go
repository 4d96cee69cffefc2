package room

import (
	"sort"
	"time"

	"github.com/wfunc/colorparty/models"
	"github.com/wfunc/colorparty/session"
)

// Player is one room participant and their per-round / per-session scores.
type Player struct {
	ID           string
	Name         string
	Score        float64
	Attempts     int
	SessionScore float64
	RoundScores  []float64
	JoinedAt     time.Time
	Session      *session.Session
}

// Registry holds a room's players in join order. It carries no lock of its
// own; all access is serialized through the owning room.
type Registry struct {
	players []*Player
	byID    map[string]*Player
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Player)}
}

func (reg *Registry) Add(sess *session.Session, name string) *Player {
	p := &Player{
		ID:       sess.GetID(),
		Name:     name,
		JoinedAt: time.Now(),
		Session:  sess,
	}
	reg.players = append(reg.players, p)
	reg.byID[p.ID] = p
	return p
}

func (reg *Registry) Remove(id string) *Player {
	p, exists := reg.byID[id]
	if !exists {
		return nil
	}
	delete(reg.byID, id)
	for i, v := range reg.players {
		if v.ID == id {
			reg.players = append(reg.players[:i], reg.players[i+1:]...)
			break
		}
	}
	return p
}

func (reg *Registry) Get(id string) (*Player, bool) {
	p, exists := reg.byID[id]
	return p, exists
}

func (reg *Registry) Len() int {
	return len(reg.players)
}

// Sessions returns the participants' connections in join order.
func (reg *Registry) Sessions() []*session.Session {
	sessions := make([]*session.Session, 0, len(reg.players))
	for _, p := range reg.players {
		sessions = append(sessions, p.Session)
	}
	return sessions
}

// ResetRound zeroes every player's active-round score and attempts.
func (reg *Registry) ResetRound() {
	for _, p := range reg.players {
		p.Score = 0
		p.Attempts = 0
	}
}

// FoldRound moves every player's active-round score into their round history
// and session total. Players who never submitted get a 0 appended.
func (reg *Registry) FoldRound() []models.PlayerRoundScore {
	scores := make([]models.PlayerRoundScore, 0, len(reg.players))
	for _, p := range reg.players {
		scores = append(scores, models.PlayerRoundScore{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    p.Score,
			Attempts: p.Attempts,
		})
		p.RoundScores = append(p.RoundScores, p.Score)
		p.SessionScore += p.Score
		p.Score = 0
		p.Attempts = 0
	}
	return scores
}

// Leaderboard derives the session standings: sessionScore descending, join
// order as the stable tie break.
func (reg *Registry) Leaderboard() []models.LeaderboardRow {
	rows := make([]models.LeaderboardRow, 0, len(reg.players))
	for _, p := range reg.players {
		rows = append(rows, models.LeaderboardRow{
			PlayerID:     p.ID,
			Name:         p.Name,
			SessionScore: p.SessionScore,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SessionScore > rows[j].SessionScore
	})
	return rows
}

// Infos builds the players section of a GameInfo snapshot.
func (reg *Registry) Infos() []models.PlayerInfo {
	infos := make([]models.PlayerInfo, 0, len(reg.players))
	for _, p := range reg.players {
		infos = append(infos, models.PlayerInfo{
			ID:           p.ID,
			Name:         p.Name,
			Score:        p.Score,
			Attempts:     p.Attempts,
			SessionScore: p.SessionScore,
			RoundScores:  append([]float64(nil), p.RoundScores...),
			JoinedAt:     p.JoinedAt,
		})
	}
	return infos
}
