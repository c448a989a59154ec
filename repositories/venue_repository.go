package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sportsys/tournament-admin/models"
)

var (
	ErrVenueNotFound = errors.New("venue not found")
	ErrVenueInUse    = errors.New("venue is in use (matches exist)")
)

type VenueRepository interface {
	Create(ctx context.Context, venue *models.Venue) error
	GetByID(ctx context.Context, id int) (*models.Venue, error)
	List(ctx context.Context) ([]*models.Venue, error)
	Update(ctx context.Context, id int, upd models.VenueUpdate) error
	Delete(ctx context.Context, id int) error
}

type postgresVenueRepository struct {
	db *sql.DB
}

func NewPostgresVenueRepository(db *sql.DB) VenueRepository {
	return &postgresVenueRepository{db: db}
}

func (r *postgresVenueRepository) Create(ctx context.Context, v *models.Venue) error {
	query := `
		INSERT INTO venues (venue_name, location, capacity)
		VALUES ($1, $2, $3)
		RETURNING venue_id, created_at`

	err := r.db.QueryRowContext(ctx, query, v.Name, v.Location, v.Capacity).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

func (r *postgresVenueRepository) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	query := `SELECT venue_id, venue_name, location, capacity, created_at FROM venues WHERE venue_id = $1`

	v := &models.Venue{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Name, &v.Location, &v.Capacity, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to get venue %d: %w", id, err)
	}
	return v, nil
}

func (r *postgresVenueRepository) List(ctx context.Context) ([]*models.Venue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT venue_id, venue_name, location, capacity, created_at FROM venues ORDER BY venue_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	defer rows.Close()

	venues := make([]*models.Venue, 0)
	for rows.Next() {
		var v models.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Location, &v.Capacity, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan venue row: %w", err)
		}
		venues = append(venues, &v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating venue rows: %w", err)
	}
	return venues, nil
}

func (r *postgresVenueRepository) Update(ctx context.Context, id int, upd models.VenueUpdate) error {
	if upd.Name == nil && upd.Location == nil && upd.Capacity == nil {
		return nil
	}

	query := `UPDATE venues SET
		venue_name = COALESCE($1, venue_name),
		location = COALESCE($2, location),
		capacity = COALESCE($3, capacity)
		WHERE venue_id = $4`

	result, err := r.db.ExecContext(ctx, query, upd.Name, upd.Location, upd.Capacity, id)
	if err != nil {
		return fmt.Errorf("failed to update venue %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrVenueNotFound)
}

func (r *postgresVenueRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE venue_id = $1`, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrVenueInUse
		}
		return fmt.Errorf("failed to delete venue %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrVenueNotFound)
}
