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
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerEmailConflict = errors.New("player email is already in use")
	ErrPlayerInUse         = errors.New("player is in use (registrations, teams or matches exist)")
)

type ListPlayersFilter struct {
	SkillLevel *models.SkillLevel
	Search     *string
	Limit      int
	Offset     int
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context, filter ListPlayersFilter) ([]*models.Player, error)
	Update(ctx context.Context, id int, upd models.PlayerUpdate) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `player_id, first_name, last_name, email, phone, date_of_birth, gender, skill_level, created_at, logo_key`

func scanPlayer(rowScanner interface {
	Scan(dest ...interface{}) error
}, p *models.Player) error {
	return rowScanner.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.DateOfBirth, &p.Gender, &p.SkillLevel, &p.CreatedAt, &p.LogoKey,
	)
}

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	query := `
		INSERT INTO players (first_name, last_name, email, phone, date_of_birth, gender, skill_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING player_id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.FirstName, p.LastName, p.Email, p.Phone, p.DateOfBirth, p.Gender, p.SkillLevel,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "players_email_key" {
			return ErrPlayerEmailConflict
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE player_id = $1`

	p := &models.Player{}
	if err := scanPlayer(r.db.QueryRowContext(ctx, query, id), p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context, filter ListPlayersFilter) ([]*models.Player, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + playerColumns + ` FROM players WHERE 1=1`)

	args := make([]interface{}, 0, 4)
	placeholderIndex := 1

	if filter.SkillLevel != nil {
		queryBuilder.WriteString(" AND skill_level = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *filter.SkillLevel)
		placeholderIndex++
	}
	if filter.Search != nil && *filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(
			" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)",
			placeholderIndex, placeholderIndex, placeholderIndex))
		args = append(args, "%"+*filter.Search+"%")
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY last_name ASC, first_name ASC")

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
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := scanPlayer(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player rows: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, id int, upd models.PlayerUpdate) error {
	var setClauses []string
	args := make([]interface{}, 0, 8)
	placeholderIndex := 1

	appendSet := func(column string, value interface{}) {
		setClauses = append(setClauses, column+" = $"+strconv.Itoa(placeholderIndex))
		args = append(args, value)
		placeholderIndex++
	}

	if upd.FirstName != nil {
		appendSet("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		appendSet("last_name", *upd.LastName)
	}
	if upd.Email != nil {
		appendSet("email", *upd.Email)
	}
	if upd.Phone != nil {
		appendSet("phone", *upd.Phone)
	}
	if upd.DateOfBirth != nil {
		appendSet("date_of_birth", *upd.DateOfBirth)
	}
	if upd.Gender != nil {
		appendSet("gender", *upd.Gender)
	}
	if upd.SkillLevel != nil {
		appendSet("skill_level", *upd.SkillLevel)
	}

	if len(setClauses) == 0 {
		return nil
	}

	query := "UPDATE players SET " + strings.Join(setClauses, ", ") +
		" WHERE player_id = $" + strconv.Itoa(placeholderIndex)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "players_email_key" {
			return ErrPlayerEmailConflict
		}
		return fmt.Errorf("failed to update player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET logo_key = $1 WHERE player_id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update player logo key: %w", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE player_id = $1`, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrPlayerInUse
		}
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
