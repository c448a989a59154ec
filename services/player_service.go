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

type PlayerService interface {
	Create(ctx context.Context, player *models.Player) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context, filter repositories.ListPlayersFilter) ([]*models.Player, error)
	Update(ctx context.Context, id int, upd models.PlayerUpdate) (*models.Player, error)
	Delete(ctx context.Context, id int) error
	UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{playerRepo: playerRepo, uploader: uploader}
}

func (s *playerService) Create(ctx context.Context, player *models.Player) (*models.Player, error) {
	if player.FirstName == "" || player.LastName == "" || player.Email == "" {
		return nil, fmt.Errorf("%w: first_name, last_name and email are required", ErrValidationFailed)
	}
	if player.SkillLevel == "" {
		player.SkillLevel = models.SkillBeginner
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, s.mapPlayerError(err)
	}
	return s.GetByID(ctx, player.ID)
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapPlayerError(err)
	}
	s.attachLogoURL(player)
	return player, nil
}

func (s *playerService) List(ctx context.Context, filter repositories.ListPlayersFilter) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		s.attachLogoURL(p)
	}
	return players, nil
}

func (s *playerService) Update(ctx context.Context, id int, upd models.PlayerUpdate) (*models.Player, error) {
	if err := s.playerRepo.Update(ctx, id, upd); err != nil {
		return nil, s.mapPlayerError(err)
	}
	return s.GetByID(ctx, id)
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	if err := s.playerRepo.Delete(ctx, id); err != nil {
		return s.mapPlayerError(err)
	}
	return nil
}

func (s *playerService) UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Player, error) {
	if s.uploader == nil {
		return nil, ErrStorageNotConfigured
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedImageType
	}

	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapPlayerError(err)
	}

	key := "players/" + strconv.Itoa(id) + "/" + uuid.NewString() + ext
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("upload player logo: %w", err)
	}

	oldKey := player.LogoKey
	if err := s.playerRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, s.mapPlayerError(err)
	}
	if oldKey != nil && *oldKey != key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}
	return s.GetByID(ctx, id)
}

func (s *playerService) attachLogoURL(player *models.Player) {
	if s.uploader == nil || player.LogoKey == nil {
		return
	}
	if u := s.uploader.GetPublicURL(*player.LogoKey); u != "" {
		player.LogoURL = &u
	}
}

func (s *playerService) mapPlayerError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrPlayerEmailConflict):
		return ErrPlayerEmailConflict
	case errors.Is(err, repositories.ErrPlayerInUse):
		return ErrEntityInUse
	default:
		return err
	}
}
