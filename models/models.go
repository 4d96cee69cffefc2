package models

import (
	"time"
)

// GameType identifies one of the two supported mini-games.
type GameType string

const (
	GameTypeFindColor GameType = "findColor"
	GameTypeMixColor  GameType = "mixColor"
)

func (g GameType) Valid() bool {
	return g == GameTypeFindColor || g == GameTypeMixColor
}

// GameInfo is the full room snapshot broadcast after every successful
// transition. Clients never apply incremental diffs.
type GameInfo struct {
	RoomID             string             `json:"roomId"`
	HostID             string             `json:"hostId"`
	GameState          string             `json:"gameState"`
	GameType           GameType           `json:"gameType,omitempty"`
	TargetColor        string             `json:"targetColor,omitempty"`
	CurrentRound       int                `json:"currentRound"`
	MaxRounds          int                `json:"maxRounds"`
	MaxPlayers         int                `json:"maxPlayers"`
	GuessTime          int                `json:"guessTime"`
	RemainingTime      int                `json:"remainingTime"`
	Denner             string             `json:"denner"`
	DennerName         string             `json:"dennerName"`
	RoundStartedAt     int64              `json:"roundStartedAt,omitempty"`
	RoundEndedAt       int64              `json:"roundEndedAt,omitempty"`
	Players            []PlayerInfo       `json:"players"`
	RoundResults       []RoundResult      `json:"roundResults"`
	SessionLeaderboard []LeaderboardRow   `json:"sessionLeaderboard,omitempty"`
}

// PlayerInfo is a player's public view inside a GameInfo snapshot.
type PlayerInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Score        float64   `json:"score"`
	Attempts     int       `json:"attempts"`
	SessionScore float64   `json:"sessionScore"`
	RoundScores  []float64 `json:"roundScores"`
	JoinedAt     time.Time `json:"joinedAt"`
}

// RoundResult snapshots one finished round. Appended at round end, never
// mutated afterward.
type RoundResult struct {
	Round    int                `json:"round"`
	GameType GameType           `json:"gameType"`
	Denner   string             `json:"denner"`
	Scores   []PlayerRoundScore `json:"scores"`
}

type PlayerRoundScore struct {
	PlayerID string  `json:"playerId"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Attempts int     `json:"attempts"`
}

// LeaderboardRow is one entry of the session leaderboard, ordered by
// sessionScore descending with join order as the tie break.
type LeaderboardRow struct {
	PlayerID     string  `json:"playerId"`
	Name         string  `json:"name"`
	SessionScore float64 `json:"sessionScore"`
}

// --- client intents ---

type RoomSettings struct {
	MaxPlayers int `json:"maxPlayers,omitempty"`
	MaxRounds  int `json:"maxRounds,omitempty"`
	GuessTime  int `json:"guessTime,omitempty"`
}

type CreateRoomRequest struct {
	PlayerName  string        `json:"playerName"`
	TargetColor string        `json:"targetColor,omitempty"`
	Settings    *RoomSettings `json:"settings,omitempty"`
}

type JoinRoomRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type RoomRequest struct {
	RoomID string `json:"roomId"`
}

type SelectGameTypeRequest struct {
	RoomID   string   `json:"roomId"`
	GameType GameType `json:"gameType"`
}

type SubmitScoreRequest struct {
	RoomID    string  `json:"roomId"`
	Score     float64 `json:"score"`
	TimeTaken int64   `json:"timeTaken"` // milliseconds
}

type SetTargetColorRequest struct {
	RoomID      string `json:"roomId"`
	TargetColor string `json:"targetColor"`
}

type ExtendTimeRequest struct {
	RoomID            string `json:"roomId"`
	AdditionalSeconds int    `json:"additionalSeconds"`
}

// --- server broadcasts ---

// DennerChanged reasons.
const (
	ReasonHostLeft         = "hostLeft"
	ReasonHostDisconnected = "hostDisconnected"
)

type DennerChanged struct {
	NewDenner  string   `json:"newDenner"`
	DennerName string   `json:"dennerName"`
	Reason     string   `json:"reason"`
	GameInfo   GameInfo `json:"gameInfo"`
}

type TimeExtended struct {
	AdditionalSeconds int      `json:"additionalSeconds"`
	GameInfo          GameInfo `json:"gameInfo"`
}

type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- leaderboard / daily stats collaborator ---

// LeaderboardEntry is a global leaderboard record.
type LeaderboardEntry struct {
	Name      string    `json:"name"`
	Score     float64   `json:"score"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Timestamp time.Time `json:"timestamp"`
}

// GameAttempt is one scored attempt, reported fire-and-forget from the
// coordinator and stored by the stats service.
type GameAttempt struct {
	UserID       string   `json:"userId"`
	Name         string   `json:"name"`
	GameType     GameType `json:"gameType"`
	TargetColor  string   `json:"targetColor"`
	GuessedColor string   `json:"guessedColor,omitempty"`
	Score        float64  `json:"score"`
	TimeTakenMs  int64    `json:"timeTakenMs"`
	Date         string   `json:"date"`
}

// DailyStats aggregates a user's attempts against the daily challenge.
type DailyStats struct {
	UserID    string  `json:"userId"`
	Date      string  `json:"date"`
	Attempts  int     `json:"attempts"`
	BestScore float64 `json:"bestScore"`
	Completed bool    `json:"completed"`
}
