package persistence

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wfunc/colorparty/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(
		&models.GormLeaderboardEntry{},
		&models.GormGameAttempt{},
		&models.GormDailyStats{},
	); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveLeaderboardEntry 保存排行榜记录
func (p *GormPostgreSQL) SaveLeaderboardEntry(entry *models.LeaderboardEntry) error {
	record := models.GormLeaderboardEntry{
		Name:  entry.Name,
		Score: entry.Score,
		Date:  entry.Date,
	}
	return p.db.Create(&record).Error
}

// TopLeaderboard 查询排行榜前limit名
func (p *GormPostgreSQL) TopLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	var records []models.GormLeaderboardEntry
	if err := p.db.Order("score desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, models.LeaderboardEntry{
			Name:      r.Name,
			Score:     r.Score,
			Date:      r.Date,
			Timestamp: r.CreatedAt,
		})
	}
	return entries, nil
}

// SaveGameAttempt 保存单次得分尝试
func (p *GormPostgreSQL) SaveGameAttempt(attempt *models.GameAttempt) error {
	record := models.GormGameAttempt{
		UserID:      attempt.UserID,
		Name:        attempt.Name,
		GameType:    string(attempt.GameType),
		TargetColor: attempt.TargetColor,
		Guessed:     attempt.GuessedColor,
		Score:       attempt.Score,
		TimeTakenMs: attempt.TimeTakenMs,
		Date:        attempt.Date,
	}
	return p.db.Create(&record).Error
}

// GetDailyStats 读取每日挑战统计
func (p *GormPostgreSQL) GetDailyStats(userID, date string) (*models.DailyStats, error) {
	var record models.GormDailyStats
	err := p.db.Where("user_id = ? AND date = ?", userID, date).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &models.DailyStats{
		UserID:    record.UserID,
		Date:      record.Date,
		Attempts:  record.Attempts,
		BestScore: record.BestScore,
		Completed: record.Completed,
	}, nil
}

// SaveDailyStats UPSERT每日挑战统计
func (p *GormPostgreSQL) SaveDailyStats(stats *models.DailyStats) error {
	var record models.GormDailyStats
	err := p.db.Where("user_id = ? AND date = ?", stats.UserID, stats.Date).First(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = models.GormDailyStats{
			UserID:    stats.UserID,
			Date:      stats.Date,
			Attempts:  stats.Attempts,
			BestScore: stats.BestScore,
			Completed: stats.Completed,
		}
		return p.db.Create(&record).Error
	} else if err != nil {
		return err
	}

	record.Attempts = stats.Attempts
	record.BestScore = stats.BestScore
	record.Completed = stats.Completed
	return p.db.Save(&record).Error
}

// PlayerSummary 汇总一名玩家的历史表现
func (p *GormPostgreSQL) PlayerSummary(name string) (map[string]interface{}, error) {
	var summary map[string]interface{}

	err := p.db.Raw(
		`
        SELECT
            COUNT(*) as total_attempts,
            COALESCE(MAX(score), 0) as best_score,
            COALESCE(AVG(score), 0) as average_score
        FROM gorm_game_attempts
        WHERE name = ? AND deleted_at IS NULL`,
		name,
	).Scan(&summary).Error

	return summary, err
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
