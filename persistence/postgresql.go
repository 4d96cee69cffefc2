package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/colorparty/models"
)

// PostgreSQL 不经ORM的database/sql实现
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS leaderboard_entries (
            id SERIAL PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            score DOUBLE PRECISION NOT NULL,
            date VARCHAR(10) NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS game_attempts (
            id SERIAL PRIMARY KEY,
            user_id VARCHAR(255) NOT NULL,
            name VARCHAR(255) NOT NULL,
            game_type VARCHAR(50) NOT NULL,
            target_color VARCHAR(32) NOT NULL,
            guessed_color VARCHAR(32),
            score DOUBLE PRECISION NOT NULL,
            time_taken_ms BIGINT DEFAULT 0,
            date VARCHAR(10) NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS daily_stats (
            id SERIAL PRIMARY KEY,
            user_id VARCHAR(255) NOT NULL,
            date VARCHAR(10) NOT NULL,
            attempts INT DEFAULT 0,
            best_score DOUBLE PRECISION DEFAULT 0,
            completed BOOLEAN DEFAULT FALSE,
            UNIQUE (user_id, date)
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard_entries(score DESC);
        CREATE INDEX IF NOT EXISTS idx_attempts_user ON game_attempts(user_id);
        CREATE INDEX IF NOT EXISTS idx_attempts_date ON game_attempts(date);
    `)

	return err
}

// SaveLeaderboardEntry 保存排行榜记录
func (p *PostgreSQL) SaveLeaderboardEntry(entry *models.LeaderboardEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `INSERT INTO leaderboard_entries (name, score, date) VALUES ($1, $2, $3)`
	_, err := p.db.ExecContext(ctx, query, entry.Name, entry.Score, entry.Date)
	return err
}

// TopLeaderboard 查询排行榜前limit名
func (p *PostgreSQL) TopLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `SELECT name, score, date, created_at FROM leaderboard_entries ORDER BY score DESC LIMIT $1`
	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.Score, &e.Date, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveGameAttempt 保存单次得分尝试
func (p *PostgreSQL) SaveGameAttempt(attempt *models.GameAttempt) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO game_attempts (user_id, name, game_type, target_color, guessed_color, score, time_taken_ms, date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := p.db.ExecContext(ctx, query,
		attempt.UserID, attempt.Name, string(attempt.GameType), attempt.TargetColor,
		attempt.GuessedColor, attempt.Score, attempt.TimeTakenMs, attempt.Date)
	return err
}

// GetDailyStats 读取每日挑战统计
func (p *PostgreSQL) GetDailyStats(userID, date string) (*models.DailyStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var stats models.DailyStats
	query := `SELECT user_id, date, attempts, best_score, completed FROM daily_stats WHERE user_id = $1 AND date = $2`
	err := p.db.QueryRowContext(ctx, query, userID, date).Scan(
		&stats.UserID, &stats.Date, &stats.Attempts, &stats.BestScore, &stats.Completed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &stats, nil
}

// SaveDailyStats UPSERT每日挑战统计
func (p *PostgreSQL) SaveDailyStats(stats *models.DailyStats) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO daily_stats (user_id, date, attempts, best_score, completed)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, date)
        DO UPDATE SET attempts = $3, best_score = $4, completed = $5
    `
	_, err := p.db.ExecContext(ctx, query,
		stats.UserID, stats.Date, stats.Attempts, stats.BestScore, stats.Completed)
	return err
}

// PlayerSummary 汇总一名玩家的历史表现
func (p *PostgreSQL) PlayerSummary(name string) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var totalAttempts int
	var bestScore, averageScore float64
	query := `
        SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0)
        FROM game_attempts WHERE name = $1
    `
	if err := p.db.QueryRowContext(ctx, query, name).Scan(&totalAttempts, &bestScore, &averageScore); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_attempts": totalAttempts,
		"best_score":     bestScore,
		"average_score":  averageScore,
	}, nil
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
