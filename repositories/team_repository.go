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
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamNameConflict    = errors.New("team name is already in use")
	ErrTeamCaptainInvalid  = errors.New("team captain conflict or invalid")
	ErrTeamMemberConflict  = errors.New("player is already a member of this team")
	ErrTeamMemberNotFound  = errors.New("team member not found")
	ErrTeamInUse           = errors.New("team is in use (registrations or matches exist)")
	ErrTeamMemberInvalid   = errors.New("team member player conflict or invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	Update(ctx context.Context, id int, upd models.TeamUpdate) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error

	AddMember(ctx context.Context, exec SQLExecutor, member *models.TeamMember) error
	RemoveMember(ctx context.Context, teamID, playerID int) error
	ListMembers(ctx context.Context, teamID int) ([]*models.TeamMember, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `team_id, team_name, captain_id, event_id, created_at, logo_key`

func scanTeam(rowScanner interface {
	Scan(dest ...interface{}) error
}, t *models.Team) error {
	return rowScanner.Scan(&t.ID, &t.Name, &t.CaptainID, &t.EventID, &t.CreatedAt, &t.LogoKey)
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (team_name, captain_id, event_id)
		VALUES ($1, $2, $3)
		RETURNING team_id, created_at`

	err := executor.QueryRowContext(ctx, query, t.Name, t.CaptainID, t.EventID).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "teams_team_name_key":
				return ErrTeamNameConflict
			case "teams_captain_id_fkey":
				return ErrTeamCaptainInvalid
			}
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE team_id = $1`

	t := &models.Team{}
	if err := scanTeam(r.db.QueryRowContext(ctx, query, id), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTeamRepository) listTeams(ctx context.Context, query string, args ...interface{}) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := scanTeam(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.Team, error) {
	return r.listTeams(ctx, `SELECT `+teamColumns+` FROM teams WHERE event_id = $1 ORDER BY team_name ASC`, eventID)
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	return r.listTeams(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY team_name ASC`)
}

func (r *postgresTeamRepository) Update(ctx context.Context, id int, upd models.TeamUpdate) error {
	if upd.Name == nil && upd.CaptainID == nil {
		return nil
	}

	query := `UPDATE teams SET
		team_name = COALESCE($1, team_name),
		captain_id = COALESCE($2, captain_id)
		WHERE team_id = $3`

	result, err := r.db.ExecContext(ctx, query, upd.Name, upd.CaptainID, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "teams_team_name_key":
				return ErrTeamNameConflict
			case "teams_captain_id_fkey":
				return ErrTeamCaptainInvalid
			}
		}
		return fmt.Errorf("failed to update team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE team_id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update team logo key: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE team_id = $1`, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrTeamInUse
		}
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AddMember(ctx context.Context, exec SQLExecutor, m *models.TeamMember) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO team_members (team_id, player_id, role)
		VALUES ($1, $2, $3)
		RETURNING team_member_id, joined_at`

	err := executor.QueryRowContext(ctx, query, m.TeamID, m.PlayerID, m.Role).Scan(&m.ID, &m.JoinedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "team_members_team_id_player_id_key":
				return ErrTeamMemberConflict
			case "team_members_player_id_fkey":
				return ErrTeamMemberInvalid
			case "team_members_team_id_fkey":
				return ErrTeamNotFound
			}
		}
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) RemoveMember(ctx context.Context, teamID, playerID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND player_id = $2`, teamID, playerID)
	if err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	return checkAffectedRows(result, ErrTeamMemberNotFound)
}

func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID int) ([]*models.TeamMember, error) {
	query := `
		SELECT
			tm.team_member_id, tm.team_id, tm.player_id, tm.role, tm.joined_at,
			p.player_id, p.first_name, p.last_name, p.email, p.skill_level
		FROM team_members tm
		JOIN players p ON tm.player_id = p.player_id
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members for team %d: %w", teamID, err)
	}
	defer rows.Close()

	members := make([]*models.TeamMember, 0)
	for rows.Next() {
		var m models.TeamMember
		var p models.Player
		if err := rows.Scan(
			&m.ID, &m.TeamID, &m.PlayerID, &m.Role, &m.JoinedAt,
			&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.SkillLevel,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team member row: %w", err)
		}
		m.Player = &p
		members = append(members, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team member rows: %w", err)
	}
	return members, nil
}
