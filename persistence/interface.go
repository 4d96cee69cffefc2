package persistence

import (
	"fmt"

	"github.com/wfunc/colorparty/models"
)

// Database 排行榜与每日统计的存储接口
type Database interface {
	SaveLeaderboardEntry(entry *models.LeaderboardEntry) error
	TopLeaderboard(limit int) ([]models.LeaderboardEntry, error)
	SaveGameAttempt(attempt *models.GameAttempt) error
	GetDailyStats(userID, date string) (*models.DailyStats, error)
	SaveDailyStats(stats *models.DailyStats) error
	PlayerSummary(name string) (map[string]interface{}, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
