package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sportsys/tournament-admin/models"
)

// RegistrationOverview — сводка по заявкам одного события.
type RegistrationOverview struct {
	EventID    int `json:"event_id"`
	Confirmed  int `json:"confirmed"`
	Waitlisted int `json:"waitlisted"`
	Cancelled  int `json:"cancelled"`
}

type StatsRepository interface {
	CountTable(ctx context.Context, table string) (int, error)
	RegistrationOverview(ctx context.Context, eventID int) (*RegistrationOverview, error)
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

// Таблицы, по которым считается сводка /db-stats. Имя таблицы попадает в
// запрос как идентификатор, поэтому принимаются только значения из этого
// списка.
var countableTables = map[string]bool{
	"players":       true,
	"teams":         true,
	"venues":        true,
	"events":        true,
	"matches":       true,
	"registrations": true,
	"admins":        true,
}

func (r *postgresStatsRepository) CountTable(ctx context.Context, table string) (int, error) {
	if !countableTables[table] {
		return 0, fmt.Errorf("table %q is not countable", table)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

func (r *postgresStatsRepository) RegistrationOverview(ctx context.Context, eventID int) (*RegistrationOverview, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3),
			COUNT(*) FILTER (WHERE status = $4)
		FROM registrations
		WHERE event_id = $1`

	overview := &RegistrationOverview{EventID: eventID}
	err := r.db.QueryRowContext(ctx, query, eventID,
		models.RegistrationConfirmed, models.RegistrationWaitlisted, models.RegistrationCancelled,
	).Scan(&overview.Confirmed, &overview.Waitlisted, &overview.Cancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to build registration overview for event %d: %w", eventID, err)
	}
	return overview, nil
}
