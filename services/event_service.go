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

// Допустимые типы содержимого для загружаемых логотипов.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

type EventService interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, filter repositories.ListEventsFilter) ([]*models.Event, error)
	Update(ctx context.Context, id int, upd models.EventUpdate) (*models.Event, error)
	Delete(ctx context.Context, id int) error
	UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Event, error)
}

type eventService struct {
	eventRepo repositories.EventRepository
	uploader  storage.FileUploader
}

func NewEventService(eventRepo repositories.EventRepository, uploader storage.FileUploader) EventService {
	return &eventService{eventRepo: eventRepo, uploader: uploader}
}

func validateEventDates(event *models.Event) error {
	if event.MaxParticipants < 2 {
		return ErrEventInvalidCapacity
	}
	if !event.EndDate.After(event.StartDate) {
		return ErrEventInvalidDateRange
	}
	if event.RegistrationDeadline.After(event.StartDate) {
		return ErrEventInvalidDeadline
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	if event.Name == "" || event.SportType == "" {
		return nil, fmt.Errorf("%w: event_name and sport_type are required", ErrValidationFailed)
	}
	if err := validateEventDates(event); err != nil {
		return nil, err
	}
	if event.Status == "" {
		event.Status = models.EventStatusUpcoming
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, s.mapEventError(err)
	}
	return s.GetByID(ctx, event.ID)
}

func (s *eventService) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapEventError(err)
	}
	s.attachLogoURL(event)
	return event, nil
}

func (s *eventService) List(ctx context.Context, filter repositories.ListEventsFilter) ([]*models.Event, error) {
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		s.attachLogoURL(e)
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, id int, upd models.EventUpdate) (*models.Event, error) {
	current, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapEventError(err)
	}

	// Перепроверяем согласованность дат на итоговом состоянии.
	next := *current
	if upd.StartDate != nil {
		next.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		next.EndDate = *upd.EndDate
	}
	if err := validateEventDates(&next); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, id, upd); err != nil {
		return nil, s.mapEventError(err)
	}
	return s.GetByID(ctx, id)
}

func (s *eventService) Delete(ctx context.Context, id int) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return s.mapEventError(err)
	}
	return nil
}

// UploadLogo кладёт изображение в хранилище и привязывает ключ к событию.
// Старый объект удаляется по принципу best effort: осиротевший файл в
// бакете безопаснее сломанной записи в БД.
func (s *eventService) UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Event, error) {
	if s.uploader == nil {
		return nil, ErrStorageNotConfigured
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedImageType
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapEventError(err)
	}

	key := "events/" + strconv.Itoa(id) + "/" + uuid.NewString() + ext
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("upload event logo: %w", err)
	}

	oldKey := event.LogoKey
	if err := s.eventRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, s.mapEventError(err)
	}
	if oldKey != nil && *oldKey != key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}
	return s.GetByID(ctx, id)
}

func (s *eventService) attachLogoURL(event *models.Event) {
	if s.uploader == nil || event.LogoKey == nil {
		return
	}
	if u := s.uploader.GetPublicURL(*event.LogoKey); u != "" {
		event.LogoURL = &u
	}
}

func (s *eventService) mapEventError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrEventCapacityLow):
		return ErrEventInvalidCapacity
	case errors.Is(err, repositories.ErrEventInUse):
		return ErrEntityInUse
	case errors.Is(err, repositories.ErrEventInvalidRef):
		return fmt.Errorf("%w: created_by references an unknown admin", ErrValidationFailed)
	default:
		return err
	}
}
