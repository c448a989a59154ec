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
	ErrMatchNotFound            = errors.New("match not found")
	ErrMatchEventInvalid        = errors.New("match event conflict or invalid")
	ErrMatchVenueInvalid        = errors.New("match venue conflict or invalid")
	ErrMatchParticipantNotFound = errors.New("match participant not found")
	ErrMatchParticipantInvalid  = errors.New("match participant conflict or invalid")
)

type ListMatchesFilter struct {
	EventID *int
	Status  *models.MatchStatus
	VenueID *int
}

type MatchRepository interface {
	// Create вставляет матч и обе его стороны. exec — транзакция, чтобы
	// матч без участников не был виден никому.
	Create(ctx context.Context, exec SQLExecutor, match *models.Match, sides [2]models.ParticipantRef) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// GetForUpdate читает матч под блокировкой строки. Финализация счёта
	// сериализуется через эту блокировку; порядок захвата всегда
	// матч → участники.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListParticipantsForUpdate(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.MatchParticipant, error)
	ListParticipants(ctx context.Context, matchID int) ([]*models.MatchParticipant, error)
	UpdateParticipantResult(ctx context.Context, exec SQLExecutor, matchID int, ref models.ParticipantRef, score int, result models.MatchResult) error
	CompleteMatch(ctx context.Context, exec SQLExecutor, matchID int, winnerID *int) error
	Update(ctx context.Context, id int, upd models.MatchUpdate) error
	List(ctx context.Context, filter ListMatchesFilter) ([]*models.Match, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `match_id, event_id, bracket_id, round_name, match_date, match_time, venue_id, match_status, winner_id, created_at`

func scanMatch(rowScanner interface {
	Scan(dest ...interface{}) error
}, m *models.Match) error {
	return rowScanner.Scan(
		&m.ID, &m.EventID, &m.BracketID, &m.RoundName, &m.MatchDate, &m.MatchTime,
		&m.VenueID, &m.Status, &m.WinnerID, &m.CreatedAt,
	)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match, sides [2]models.ParticipantRef) error {
	query := `
		INSERT INTO matches (event_id, bracket_id, round_name, match_date, match_time, venue_id, match_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING match_id, created_at`

	err := exec.QueryRowContext(ctx, query,
		m.EventID, m.BracketID, m.RoundName, m.MatchDate, m.MatchTime, m.VenueID, m.Status,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return r.handleMatchError(err)
	}

	for _, side := range sides {
		participant := models.MatchParticipant{
			MatchID:  m.ID,
			PlayerID: side.PlayerID,
			TeamID:   side.TeamID,
		}
		insertQuery := `
			INSERT INTO match_participants (match_id, player_id, team_id)
			VALUES ($1, $2, $3)
			RETURNING match_participant_id`
		err := exec.QueryRowContext(ctx, insertQuery,
			participant.MatchID, participant.PlayerID, participant.TeamID,
		).Scan(&participant.ID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return ErrMatchParticipantInvalid
			}
			return fmt.Errorf("failed to create match participant: %w", err)
		}
		m.Participants = append(m.Participants, participant)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE match_id = $1`

	m := &models.Match{}
	if err := scanMatch(r.db.QueryRowContext(ctx, query, id), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE match_id = $1 FOR UPDATE`

	m := &models.Match{}
	if err := scanMatch(exec.QueryRowContext(ctx, query, id), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to lock match %d: %w", id, err)
	}
	return m, nil
}

const matchParticipantColumns = `match_participant_id, match_id, player_id, team_id, score, result`

func (r *postgresMatchRepository) listParticipants(ctx context.Context, exec SQLExecutor, matchID int, forUpdate bool) ([]*models.MatchParticipant, error) {
	query := `SELECT ` + matchParticipantColumns + ` FROM match_participants
		WHERE match_id = $1 ORDER BY match_participant_id ASC`
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, err := exec.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for match %d: %w", matchID, err)
	}
	defer rows.Close()

	participants := make([]*models.MatchParticipant, 0, 2)
	for rows.Next() {
		var p models.MatchParticipant
		if err := rows.Scan(&p.ID, &p.MatchID, &p.PlayerID, &p.TeamID, &p.Score, &p.Result); err != nil {
			return nil, fmt.Errorf("failed to scan match participant row: %w", err)
		}
		participants = append(participants, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresMatchRepository) ListParticipantsForUpdate(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.MatchParticipant, error) {
	return r.listParticipants(ctx, exec, matchID, true)
}

func (r *postgresMatchRepository) ListParticipants(ctx context.Context, matchID int) ([]*models.MatchParticipant, error) {
	return r.listParticipants(ctx, r.db, matchID, false)
}

func (r *postgresMatchRepository) UpdateParticipantResult(ctx context.Context, exec SQLExecutor, matchID int, ref models.ParticipantRef, score int, result models.MatchResult) error {
	var column string
	if ref.IsTeam() {
		column = "team_id"
	} else {
		column = "player_id"
	}
	query := `UPDATE match_participants SET score = $1, result = $2 WHERE match_id = $3 AND ` + column + ` = $4`

	res, err := exec.ExecContext(ctx, query, score, result, matchID, ref.ID())
	if err != nil {
		return fmt.Errorf("failed to update participant result for match %d: %w", matchID, err)
	}
	return checkAffectedRows(res, ErrMatchParticipantNotFound)
}

func (r *postgresMatchRepository) CompleteMatch(ctx context.Context, exec SQLExecutor, matchID int, winnerID *int) error {
	query := `UPDATE matches SET match_status = $1, winner_id = $2 WHERE match_id = $3`

	result, err := exec.ExecContext(ctx, query, models.MatchCompleted, winnerID, matchID)
	if err != nil {
		return fmt.Errorf("failed to complete match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Update(ctx context.Context, id int, upd models.MatchUpdate) error {
	var setClauses []string
	args := make([]interface{}, 0, 5)
	placeholderIndex := 1

	appendSet := func(column string, value interface{}) {
		setClauses = append(setClauses, column+" = $"+strconv.Itoa(placeholderIndex))
		args = append(args, value)
		placeholderIndex++
	}

	if upd.RoundName != nil {
		appendSet("round_name", *upd.RoundName)
	}
	if upd.MatchDate != nil {
		appendSet("match_date", *upd.MatchDate)
	}
	if upd.MatchTime != nil {
		appendSet("match_time", *upd.MatchTime)
	}
	if upd.VenueID != nil {
		appendSet("venue_id", *upd.VenueID)
	}

	if len(setClauses) == 0 {
		return nil
	}

	query := "UPDATE matches SET " + strings.Join(setClauses, ", ") +
		" WHERE match_id = $" + strconv.Itoa(placeholderIndex)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) List(ctx context.Context, filter ListMatchesFilter) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE 1=1`)

	args := make([]interface{}, 0, 3)
	placeholderIndex := 1

	if filter.EventID != nil {
		queryBuilder.WriteString(" AND event_id = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *filter.EventID)
		placeholderIndex++
	}
	if filter.Status != nil {
		queryBuilder.WriteString(" AND match_status = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Status)
		placeholderIndex++
	}
	if filter.VenueID != nil {
		queryBuilder.WriteString(" AND venue_id = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *filter.VenueID)
	}

	queryBuilder.WriteString(" ORDER BY match_date DESC, match_time DESC, match_id DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	// match_participants уходят каскадом; game_logs не трогаем никогда.
	result, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE match_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_event_id_fkey":
			return ErrMatchEventInvalid
		case "matches_venue_id_fkey":
			return ErrMatchVenueInvalid
		}
	}
	return err
}
