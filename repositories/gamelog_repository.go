package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sportsys/tournament-admin/models"
)

var ErrGameLogMatchInvalid = errors.New("game log match conflict or invalid")

// GameLogRepository пишет и читает журнал матчей. Обновления и удаления
// отсутствуют намеренно: журнал только дописывается.
type GameLogRepository interface {
	Create(ctx context.Context, exec SQLExecutor, log *models.GameLog) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.GameLog, error)
}

type postgresGameLogRepository struct {
	db *sql.DB
}

func NewPostgresGameLogRepository(db *sql.DB) GameLogRepository {
	return &postgresGameLogRepository{db: db}
}

func (r *postgresGameLogRepository) Create(ctx context.Context, exec SQLExecutor, log *models.GameLog) error {
	query := `
		INSERT INTO game_logs (match_id, event_type, description)
		VALUES ($1, $2, $3)
		RETURNING log_id, logged_at`

	err := exec.QueryRowContext(ctx, query,
		log.MatchID, log.EventType, log.Description,
	).Scan(&log.ID, &log.LoggedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "game_logs_match_id_fkey" {
			return ErrGameLogMatchInvalid
		}
		return fmt.Errorf("failed to create game log: %w", err)
	}
	return nil
}

func (r *postgresGameLogRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.GameLog, error) {
	query := `
		SELECT log_id, match_id, event_type, description, logged_at
		FROM game_logs
		WHERE match_id = $1
		ORDER BY logged_at ASC, log_id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list game logs for match %d: %w", matchID, err)
	}
	defer rows.Close()

	logs := make([]*models.GameLog, 0)
	for rows.Next() {
		var log models.GameLog
		if err := rows.Scan(&log.ID, &log.MatchID, &log.EventType, &log.Description, &log.LoggedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game log row: %w", err)
		}
		logs = append(logs, &log)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game log rows: %w", err)
	}
	return logs, nil
}
