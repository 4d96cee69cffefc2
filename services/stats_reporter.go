package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wfunc/colorparty/logger"
	"github.com/wfunc/colorparty/models"
)

// StatsReporter pushes attempt records to the leaderboard/stats collaborator.
// Reporting is a best-effort side channel: failures are logged and swallowed
// and must never block or roll back a room's state transition.
type StatsReporter interface {
	ReportAttempt(attempt *models.GameAttempt)
	ReportLeaderboard(entry *models.LeaderboardEntry)
}

// HTTPStatsReporter talks to the stats service over HTTP.
type HTTPStatsReporter struct {
	baseURL string
	client  *http.Client
}

func NewHTTPStatsReporter(baseURL string, timeout time.Duration) *HTTPStatsReporter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPStatsReporter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (r *HTTPStatsReporter) ReportAttempt(attempt *models.GameAttempt) {
	go r.post("/game/attempt", attempt)
}

func (r *HTTPStatsReporter) ReportLeaderboard(entry *models.LeaderboardEntry) {
	go r.post("/leaderboard", entry)
}

func (r *HTTPStatsReporter) post(path string, payload interface{}) {
	if r.baseURL == "" {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Warnf("Stats report to %s skipped: %v", path, err)
		return
	}

	resp, err := r.client.Post(r.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		logger.Log.Warnf("Stats report to %s failed: %v", path, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logger.Log.Warnf("Stats report to %s failed: %v", path, fmt.Errorf("status %d", resp.StatusCode))
	}
}

// NopStatsReporter drops every report. Used when no stats backend is
// configured and in tests.
type NopStatsReporter struct{}

func (NopStatsReporter) ReportAttempt(*models.GameAttempt)          {}
func (NopStatsReporter) ReportLeaderboard(*models.LeaderboardEntry) {}
