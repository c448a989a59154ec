package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/repositories"
)

type VenueService interface {
	Create(ctx context.Context, venue *models.Venue) (*models.Venue, error)
	GetByID(ctx context.Context, id int) (*models.Venue, error)
	List(ctx context.Context) ([]*models.Venue, error)
	Update(ctx context.Context, id int, upd models.VenueUpdate) (*models.Venue, error)
	Delete(ctx context.Context, id int) error
}

type venueService struct {
	venueRepo repositories.VenueRepository
}

func NewVenueService(venueRepo repositories.VenueRepository) VenueService {
	return &venueService{venueRepo: venueRepo}
}

func (s *venueService) Create(ctx context.Context, venue *models.Venue) (*models.Venue, error) {
	if venue.Name == "" {
		return nil, fmt.Errorf("%w: venue_name is required", ErrValidationFailed)
	}
	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, s.mapVenueError(err)
	}
	return s.venueRepo.GetByID(ctx, venue.ID)
}

func (s *venueService) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapVenueError(err)
	}
	return venue, nil
}

func (s *venueService) List(ctx context.Context) ([]*models.Venue, error) {
	return s.venueRepo.List(ctx)
}

func (s *venueService) Update(ctx context.Context, id int, upd models.VenueUpdate) (*models.Venue, error) {
	if err := s.venueRepo.Update(ctx, id, upd); err != nil {
		return nil, s.mapVenueError(err)
	}
	return s.GetByID(ctx, id)
}

func (s *venueService) Delete(ctx context.Context, id int) error {
	if err := s.venueRepo.Delete(ctx, id); err != nil {
		return s.mapVenueError(err)
	}
	return nil
}

func (s *venueService) mapVenueError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrVenueNotFound):
		return ErrVenueNotFound
	case errors.Is(err, repositories.ErrVenueInUse):
		return ErrEntityInUse
	default:
		return err
	}
}
