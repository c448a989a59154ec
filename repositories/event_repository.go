package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/sportsys/tournament-admin/models"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEventInUse       = errors.New("event is in use (registrations or matches exist)")
	ErrEventInvalidRef  = errors.New("event references an unknown admin")
	ErrEventCapacityLow = errors.New("event capacity below the allowed minimum")
)

type ListEventsFilter struct {
	SportType *string
	Status    *models.EventStatus
	Search    *string
	Limit     int
	Offset    int
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	// GetForUpdate читает событие под блокировкой строки. Все операции,
	// влияющие на вместимость события, сериализуются через эту блокировку.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error)
	List(ctx context.Context, filter ListEventsFilter) ([]*models.Event, error)
	Update(ctx context.Context, id int, upd models.EventUpdate) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `
	event_id, event_name, sport_type, event_type, format, start_date, end_date,
	registration_deadline, max_participants, is_team_based, event_status,
	created_by, created_at, logo_key`

func scanEvent(rowScanner interface {
	Scan(dest ...interface{}) error
}, e *models.Event) error {
	return rowScanner.Scan(
		&e.ID, &e.Name, &e.SportType, &e.EventType, &e.Format, &e.StartDate, &e.EndDate,
		&e.RegistrationDeadline, &e.MaxParticipants, &e.IsTeamBased, &e.Status,
		&e.CreatedBy, &e.CreatedAt, &e.LogoKey,
	)
}

func (r *postgresEventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (
			event_name, sport_type, event_type, format, start_date, end_date,
			registration_deadline, max_participants, is_team_based, event_status, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING event_id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		e.Name, e.SportType, e.EventType, e.Format, e.StartDate, e.EndDate,
		e.RegistrationDeadline, e.MaxParticipants, e.IsTeamBased, e.Status, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "chk_event_capacity":
				return ErrEventCapacityLow
			case "events_created_by_fkey":
				return ErrEventInvalidRef
			}
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_id = $1`

	e := &models.Event{}
	if err := scanEvent(r.db.QueryRowContext(ctx, query, id), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return e, nil
}

func (r *postgresEventRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_id = $1 FOR UPDATE`

	e := &models.Event{}
	if err := scanEvent(exec.QueryRowContext(ctx, query, id), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to lock event %d: %w", id, err)
	}
	return e, nil
}

func (r *postgresEventRepository) List(ctx context.Context, filter ListEventsFilter) ([]*models.Event, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + eventColumns + ` FROM events WHERE 1=1`)

	args := make([]interface{}, 0, 4)
	placeholderIndex := 1

	if filter.SportType != nil {
		queryBuilder.WriteString(" AND sport_type = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *filter.SportType)
		placeholderIndex++
	}
	if filter.Status != nil {
		queryBuilder.WriteString(" AND event_status = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Status)
		placeholderIndex++
	}
	if filter.Search != nil && *filter.Search != "" {
		queryBuilder.WriteString(" AND event_name ILIKE $" + strconv.Itoa(placeholderIndex))
		args = append(args, "%"+*filter.Search+"%")
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY start_date DESC")

	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(placeholderIndex))
		args = append(args, filter.Limit)
		placeholderIndex++
	}
	if filter.Offset > 0 {
		queryBuilder.WriteString(" OFFSET $" + strconv.Itoa(placeholderIndex))
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		var e models.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, id int, upd models.EventUpdate) error {
	var setClauses []string
	args := make([]interface{}, 0, 8)
	placeholderIndex := 1

	appendSet := func(column string, value interface{}) {
		setClauses = append(setClauses, column+" = $"+strconv.Itoa(placeholderIndex))
		args = append(args, value)
		placeholderIndex++
	}

	if upd.Name != nil {
		appendSet("event_name", *upd.Name)
	}
	if upd.SportType != nil {
		appendSet("sport_type", *upd.SportType)
	}
	if upd.EventType != nil {
		appendSet("event_type", *upd.EventType)
	}
	if upd.Format != nil {
		appendSet("format", *upd.Format)
	}
	if upd.StartDate != nil {
		appendSet("start_date", *upd.StartDate)
	}
	if upd.EndDate != nil {
		appendSet("end_date", *upd.EndDate)
	}
	if upd.Status != nil {
		appendSet("event_status", *upd.Status)
	}

	if len(setClauses) == 0 {
		return nil
	}

	query := "UPDATE events SET " + strings.Join(setClauses, ", ") +
		" WHERE event_id = $" + strconv.Itoa(placeholderIndex)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update event %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE events SET logo_key = $1 WHERE event_id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update event logo key: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrEventInUse
		}
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}
