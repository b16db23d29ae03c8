package storage

import (
	"GameTimer/internal/models"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening history database %s: %w", path, err)
	}

	database := &Database{db: db}
	if err := database.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history tables: %w", err)
	}
	return database, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) initTables() error {
	// 创建对局记录表
	_, err := d.db.Exec(`
        CREATE TABLE IF NOT EXISTS rounds (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            start_time DATETIME NOT NULL,
            end_time DATETIME NOT NULL,
            elapsed INTEGER NOT NULL,
            outcome TEXT NOT NULL
        )
    `)
	return err
}

// SaveRound 保存一局记录，并回填 ID
func (d *Database) SaveRound(ctx context.Context, round *models.Round) error {
	result, err := d.db.ExecContext(ctx, `
        INSERT INTO rounds (start_time, end_time, elapsed, outcome)
        VALUES (?, ?, ?, ?)
    `, round.StartTime, round.EndTime, round.Elapsed, round.Outcome)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	round.ID = id
	return nil
}

// RecentRounds 按开始时间倒序返回最近的对局
func (d *Database) RecentRounds(ctx context.Context, limit int) ([]*models.Round, error) {
	var rounds []*models.Round
	rows, err := d.db.QueryContext(ctx, `
        SELECT id, start_time, end_time, elapsed, outcome
        FROM rounds
        ORDER BY start_time DESC, id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		round := &models.Round{}
		if err := rows.Scan(
			&round.ID,
			&round.StartTime,
			&round.EndTime,
			&round.Elapsed,
			&round.Outcome,
		); err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

func (d *Database) GetRoundStats(ctx context.Context, startDate, endDate time.Time) (*models.RoundStats, error) {
	stats := &models.RoundStats{}

	err := d.db.QueryRowContext(ctx, `
        SELECT
            COUNT(*) as total,
            COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0) as finished,
            COALESCE(SUM(elapsed), 0) as total_elapsed
        FROM rounds
        WHERE start_time BETWEEN ? AND ?
    `, models.OutcomeFinished, startDate, endDate).Scan(
		&stats.TotalRounds,
		&stats.FinishedRounds,
		&stats.TotalElapsed,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
