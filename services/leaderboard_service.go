package services

import (
	"time"

	"github.com/wfunc/colorparty/models"
	"github.com/wfunc/colorparty/persistence"
)

// LeaderboardService wraps the storage of global leaderboard entries, scored
// attempts and daily-challenge statistics.
type LeaderboardService struct {
	db persistence.Database
}

func NewLeaderboardService(db persistence.Database) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// SubmitEntry stores a leaderboard record, stamping date and timestamp when
// the caller left them empty.
func (s *LeaderboardService) SubmitEntry(entry *models.LeaderboardEntry) error {
	if entry.Date == "" {
		entry.Date = time.Now().Format("2006-01-02")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return s.db.SaveLeaderboardEntry(entry)
}

// Top returns the highest-scoring entries, best first.
func (s *LeaderboardService) Top(limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.db.TopLeaderboard(limit)
}

// RecordAttempt stores one scored attempt and rolls it into the player's
// daily statistics.
func (s *LeaderboardService) RecordAttempt(attempt *models.GameAttempt) error {
	if attempt.Date == "" {
		attempt.Date = time.Now().Format("2006-01-02")
	}
	if err := s.db.SaveGameAttempt(attempt); err != nil {
		return err
	}

	stats, err := s.db.GetDailyStats(attempt.UserID, attempt.Date)
	if err == persistence.ErrRecordNotFound {
		stats = &models.DailyStats{UserID: attempt.UserID, Date: attempt.Date}
	} else if err != nil {
		return err
	}

	stats.Attempts++
	if attempt.Score > stats.BestScore {
		stats.BestScore = attempt.Score
	}
	stats.Completed = true
	return s.db.SaveDailyStats(stats)
}

// DailyStats returns a user's statistics for a day, zero-valued when the user
// has not played yet.
func (s *LeaderboardService) DailyStats(userID, date string) (*models.DailyStats, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	stats, err := s.db.GetDailyStats(userID, date)
	if err == persistence.ErrRecordNotFound {
		return &models.DailyStats{UserID: userID, Date: date}, nil
	}
	return stats, err
}

// SaveDailyStats overwrites a user's statistics for a day.
func (s *LeaderboardService) SaveDailyStats(stats *models.DailyStats) error {
	if stats.Date == "" {
		stats.Date = time.Now().Format("2006-01-02")
	}
	return s.db.SaveDailyStats(stats)
}

// PlayerSummary aggregates a player's attempt history.
func (s *LeaderboardService) PlayerSummary(name string) (map[string]interface{}, error) {
	return s.db.PlayerSummary(name)
}
