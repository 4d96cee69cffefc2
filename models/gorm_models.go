package models

import (
	"gorm.io/gorm"
)

// GormLeaderboardEntry 排行榜记录
type GormLeaderboardEntry struct {
	gorm.Model
	Name  string  `gorm:"index;not null"`
	Score float64 `gorm:"not null"`
	Date  string  `gorm:"index;not null"`
}

// GormGameAttempt 单次得分尝试
type GormGameAttempt struct {
	gorm.Model
	UserID      string  `gorm:"index;not null"`
	Name        string  `gorm:"not null"`
	GameType    string  `gorm:"not null"`
	TargetColor string  `gorm:"not null"`
	Guessed     string  ``
	Score       float64 `gorm:"not null"`
	TimeTakenMs int64   `gorm:"default:0"`
	Date        string  `gorm:"index;not null"`
}

// GormDailyStats 每日挑战统计，(user_id, date) 唯一
type GormDailyStats struct {
	gorm.Model
	UserID    string  `gorm:"uniqueIndex:idx_daily_user_date;not null"`
	Date      string  `gorm:"uniqueIndex:idx_daily_user_date;not null"`
	Attempts  int     `gorm:"default:0"`
	BestScore float64 `gorm:"default:0"`
	Completed bool    `gorm:"default:false"`
}
