package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/wfunc/colorparty/logger"
	"github.com/wfunc/colorparty/mixer"
	"github.com/wfunc/colorparty/models"
	"github.com/wfunc/colorparty/persistence"
)

// registerHTTPHandlers mounts the leaderboard and daily-stats endpoints next
// to the websocket endpoint. The game server talks to these over HTTP even
// when co-hosted, so they can be split out to their own process unchanged.
func (s *GameServer) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/game/attempt", s.handleGameAttempt)
	mux.HandleFunc("/daily/stats", s.handleDailyStats)
	mux.HandleFunc("/daily/target", s.handleDailyTarget)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warnf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *GameServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		entries, err := s.leaderboard.Top(limit)
		if err != nil {
			logger.Log.Errorf("Failed to load leaderboard: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
			return
		}
		writeJSON(w, http.StatusOK, entries)

	case http.MethodPost:
		var entry models.LeaderboardEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil || entry.Name == "" {
			writeError(w, http.StatusBadRequest, "invalid entry")
			return
		}
		if err := s.leaderboard.SubmitEntry(&entry); err != nil {
			logger.Log.Errorf("Failed to save leaderboard entry: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save entry")
			return
		}
		writeJSON(w, http.StatusCreated, entry)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *GameServer) handleGameAttempt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var attempt models.GameAttempt
	if err := json.NewDecoder(r.Body).Decode(&attempt); err != nil || attempt.UserID == "" {
		writeError(w, http.StatusBadRequest, "invalid attempt")
		return
	}
	if err := s.leaderboard.RecordAttempt(&attempt); err != nil {
		logger.Log.Errorf("Failed to record attempt: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to record attempt")
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}

func (s *GameServer) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		userID := r.URL.Query().Get("userId")
		date := r.URL.Query().Get("date")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "userId is required")
			return
		}
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		stats, err := s.leaderboard.DailyStats(userID, date)
		if err != nil && err != persistence.ErrRecordNotFound {
			logger.Log.Errorf("Failed to load daily stats: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to load stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)

	case http.MethodPost:
		var stats models.DailyStats
		if err := json.NewDecoder(r.Body).Decode(&stats); err != nil || stats.UserID == "" {
			writeError(w, http.StatusBadRequest, "invalid stats")
			return
		}
		if err := s.leaderboard.SaveDailyStats(&stats); err != nil {
			logger.Log.Errorf("Failed to save daily stats: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleDailyTarget returns the shared challenge color for the given day.
// Every server instance derives the same color from the date alone.
func (s *GameServer) handleDailyTarget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	day := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
		day = parsed
	}

	target := mixer.DailyTarget(day)
	writeJSON(w, http.StatusOK, map[string]string{
		"date":  day.Format("2006-01-02"),
		"color": target.Hex(),
	})
}
