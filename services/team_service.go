package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/repositories"
	"github.com/sportsys/tournament-admin/storage"
)

type TeamService interface {
	// Create создаёт команду и её исходный состав в одной транзакции.
	// Капитан всегда попадает в состав с ролью Captain.
	Create(ctx context.Context, team *models.Team, memberIDs []int) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.Team, error)
	Update(ctx context.Context, id int, upd models.TeamUpdate) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	AddMember(ctx context.Context, teamID, playerID int) (*models.Team, error)
	RemoveMember(ctx context.Context, teamID, playerID int) error
	UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Team, error)
}

type teamService struct {
	tx       repositories.TxManager
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
}

func NewTeamService(tx repositories.TxManager, teamRepo repositories.TeamRepository, uploader storage.FileUploader) TeamService {
	return &teamService{tx: tx, teamRepo: teamRepo, uploader: uploader}
}

func (s *teamService) Create(ctx context.Context, team *models.Team, memberIDs []int) (*models.Team, error) {
	if team.Name == "" || team.CaptainID == 0 {
		return nil, fmt.Errorf("%w: team_name and captain_id are required", ErrValidationFailed)
	}

	// Если состав задан явно, капитан обязан в нём присутствовать.
	if len(memberIDs) > 0 {
		found := false
		for _, id := range memberIDs {
			if id == team.CaptainID {
				found = true
				break
			}
		}
		if !found {
			return nil, ErrCaptainNotInMembers
		}
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return err
		}
		if err := s.teamRepo.AddMember(ctx, exec, &models.TeamMember{
			TeamID:   team.ID,
			PlayerID: team.CaptainID,
			Role:     models.TeamRoleCaptain,
		}); err != nil {
			return err
		}
		for _, playerID := range memberIDs {
			if playerID == team.CaptainID {
				continue
			}
			if err := s.teamRepo.AddMember(ctx, exec, &models.TeamMember{
				TeamID:   team.ID,
				PlayerID: playerID,
				Role:     models.TeamRoleMember,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.mapTeamError(err)
	}
	return s.GetByID(ctx, team.ID)
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapTeamError(err)
	}
	members, err := s.teamRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Members = make([]models.TeamMember, 0, len(members))
	for _, m := range members {
		team.Members = append(team.Members, *m)
	}
	s.attachLogoURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		s.attachLogoURL(t)
	}
	return teams, nil
}

func (s *teamService) ListByEvent(ctx context.Context, eventID int) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		s.attachLogoURL(t)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id int, upd models.TeamUpdate) (*models.Team, error) {
	if err := s.teamRepo.Update(ctx, id, upd); err != nil {
		return nil, s.mapTeamError(err)
	}
	return s.GetByID(ctx, id)
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return s.mapTeamError(err)
	}
	return nil
}

func (s *teamService) AddMember(ctx context.Context, teamID, playerID int) (*models.Team, error) {
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.teamRepo.AddMember(ctx, exec, &models.TeamMember{
			TeamID:   teamID,
			PlayerID: playerID,
			Role:     models.TeamRoleMember,
		})
	})
	if err != nil {
		return nil, s.mapTeamError(err)
	}
	return s.GetByID(ctx, teamID)
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, playerID int) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return s.mapTeamError(err)
	}
	if team.CaptainID == playerID {
		return fmt.Errorf("%w: captain cannot be removed from the roster", ErrValidationFailed)
	}
	if err := s.teamRepo.RemoveMember(ctx, teamID, playerID); err != nil {
		return s.mapTeamError(err)
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrStorageNotConfigured
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedImageType
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapTeamError(err)
	}

	key := "teams/" + strconv.Itoa(id) + "/" + uuid.NewString() + ext
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("upload team logo: %w", err)
	}

	oldKey := team.LogoKey
	if err := s.teamRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, s.mapTeamError(err)
	}
	if oldKey != nil && *oldKey != key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}
	return s.GetByID(ctx, id)
}

func (s *teamService) attachLogoURL(team *models.Team) {
	if s.uploader == nil || team.LogoKey == nil {
		return
	}
	if u := s.uploader.GetPublicURL(*team.LogoKey); u != "" {
		team.LogoURL = &u
	}
}

func (s *teamService) mapTeamError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTeamMemberConflict):
		return fmt.Errorf("%w: player is already on the roster", ErrValidationFailed)
	case errors.Is(err, repositories.ErrTeamMemberNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrTeamCaptainInvalid), errors.Is(err, repositories.ErrTeamMemberInvalid):
		return fmt.Errorf("%w: referenced player or event does not exist", ErrValidationFailed)
	case errors.Is(err, repositories.ErrTeamInUse):
		return ErrEntityInUse
	default:
		return err
	}
}
