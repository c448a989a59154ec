package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sportsys/tournament-admin/live"
	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/repositories"
)

// CancelResult описывает исход отмены: какая заявка (если есть) была
// продвинута из листа ожидания.
type CancelResult struct {
	Cancelled *models.Registration `json:"cancelled"`
	Promoted  *models.Registration `json:"promoted,omitempty"`
}

// RegistrationService владеет всеми переходами статусов заявок. Никто
// другой не пишет в колонку status: вместимость события и FIFO-порядок
// листа ожидания держатся только на инвариантах этого сервиса.
type RegistrationService interface {
	Register(ctx context.Context, eventID int, ref models.ParticipantRef) (*models.Registration, error)
	Cancel(ctx context.Context, registrationID int) (*CancelResult, error)
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	List(ctx context.Context, filter repositories.ListRegistrationsFilter) ([]*models.Registration, error)
	UpdatePayment(ctx context.Context, id int, upd models.RegistrationUpdate) (*models.Registration, error)
	Delete(ctx context.Context, id int) error
}

type registrationService struct {
	tx        repositories.TxManager
	regRepo   repositories.RegistrationRepository
	eventRepo repositories.EventRepository
	hub       *live.Hub

	// now вынесено в поле ради детерминированных проверок дедлайна.
	now func() time.Time
}

func NewRegistrationService(
	tx repositories.TxManager,
	regRepo repositories.RegistrationRepository,
	eventRepo repositories.EventRepository,
	hub *live.Hub,
) RegistrationService {
	return &registrationService{
		tx:        tx,
		regRepo:   regRepo,
		eventRepo: eventRepo,
		hub:       hub,
		now:       time.Now,
	}
}

func eventRoom(eventID int) string {
	return "event_" + strconv.Itoa(eventID)
}

// Register проводит заявку через допуск и вставку в одной транзакции.
// Блокировка строки события сериализует все операции, влияющие на
// вместимость, поэтому два конкурентных вызова не могут одновременно
// увидеть один свободный слот.
func (s *registrationService) Register(ctx context.Context, eventID int, ref models.ParticipantRef) (*models.Registration, error) {
	if !ref.Valid() {
		return nil, fmt.Errorf("%w: exactly one of player_id or team_id must be set", ErrValidationFailed)
	}

	var reg *models.Registration
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		event, err := s.eventRepo.GetForUpdate(ctx, exec, eventID)
		if err != nil {
			if errors.Is(err, repositories.ErrEventNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		existing, err := s.regRepo.FindActive(ctx, exec, eventID, ref)
		if err != nil && !errors.Is(err, repositories.ErrRegistrationNotFound) {
			return err
		}
		if existing != nil {
			return ErrDuplicateRegistration
		}

		confirmed, err := s.regRepo.CountByEventAndStatus(ctx, exec, eventID, models.RegistrationConfirmed)
		if err != nil {
			return err
		}

		status, err := decideAdmission(event, confirmed, ref, s.now())
		if err != nil {
			return err
		}

		reg = &models.Registration{
			EventID:  eventID,
			PlayerID: ref.PlayerID,
			TeamID:   ref.TeamID,
			Status:   status,
		}
		if err := s.regRepo.Create(ctx, exec, reg); err != nil {
			// Частичный уникальный индекс — последний рубеж против гонки;
			// при удержанной блокировке события сюда попадать не должны.
			if errors.Is(err, repositories.ErrRegistrationConflict) {
				return ErrDuplicateRegistration
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(eventRoom(eventID), live.Message{
			Type:    live.MessageRegistrationCreated,
			Payload: reg,
			RoomID:  eventRoom(eventID),
		})
	}
	return reg, nil
}

// Cancel переводит заявку в Cancelled и продвигает не более одной заявки
// из листа ожидания. Блокировки берутся в порядке событие → заявка, как и
// в Register, поэтому отмена и регистрация на одно событие не пересекаются.
func (s *registrationService) Cancel(ctx context.Context, registrationID int) (*CancelResult, error) {
	result := &CancelResult{}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		// Сначала узнаём событие заявки, затем берём блокировки в
		// каноническом порядке и перечитываем заявку уже под ними.
		peek, err := s.regRepo.GetByIDExec(ctx, exec, registrationID)
		if err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}

		if _, err := s.eventRepo.GetForUpdate(ctx, exec, peek.EventID); err != nil {
			if errors.Is(err, repositories.ErrEventNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		reg, err := s.regRepo.GetForUpdate(ctx, exec, registrationID)
		if err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}
		if reg.Status == models.RegistrationCancelled {
			return ErrRegistrationCancelled
		}
		wasConfirmed := reg.Status == models.RegistrationConfirmed

		if err := s.regRepo.UpdateStatus(ctx, exec, reg.ID, models.RegistrationCancelled); err != nil {
			return err
		}
		reg.Status = models.RegistrationCancelled
		result.Cancelled = reg

		// Слот освобождается только отменой подтверждённой заявки; отмена
		// из листа ожидания ничего не продвигает, иначе число Confirmed
		// превысило бы вместимость.
		if !wasConfirmed {
			return nil
		}

		oldest, err := s.regRepo.OldestWaitlisted(ctx, exec, reg.EventID)
		if err != nil {
			return err
		}
		if oldest == nil {
			return nil
		}
		if err := s.regRepo.UpdateStatus(ctx, exec, oldest.ID, models.RegistrationConfirmed); err != nil {
			return err
		}
		oldest.Status = models.RegistrationConfirmed
		result.Promoted = oldest
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil && result.Promoted != nil {
		room := eventRoom(result.Promoted.EventID)
		s.hub.BroadcastToRoom(room, live.Message{
			Type:    live.MessageRegistrationPromoted,
			Payload: result.Promoted,
			RoomID:  room,
		})
	}
	return result, nil
}

func (s *registrationService) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) List(ctx context.Context, filter repositories.ListRegistrationsFilter) ([]*models.Registration, error) {
	return s.regRepo.List(ctx, filter)
}

func (s *registrationService) UpdatePayment(ctx context.Context, id int, upd models.RegistrationUpdate) (*models.Registration, error) {
	if upd.PaymentStatus == nil {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidationFailed)
	}
	if err := s.regRepo.UpdatePayment(ctx, id, *upd.PaymentStatus); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete окончательно удаляет строку заявки. Разрешено только для уже
// отменённых заявок: удаление активной строки освободило бы слот в обход
// Cancel и его продвижения из листа ожидания.
func (s *registrationService) Delete(ctx context.Context, id int) error {
	return s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		reg, err := s.regRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}
		if reg.Status != models.RegistrationCancelled {
			return ErrRegistrationActive
		}
		return s.regRepo.Delete(ctx, exec, id)
	})
}
