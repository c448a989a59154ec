package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sportsys/tournament-admin/live"
	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/repositories"
)

// SideScore связывает счёт со стороной матча.
type SideScore struct {
	Ref   models.ParticipantRef
	Score int
}

type MatchService interface {
	Schedule(ctx context.Context, match *models.Match, sides [2]models.ParticipantRef) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter repositories.ListMatchesFilter) ([]*models.Match, error)
	Update(ctx context.Context, id int, upd models.MatchUpdate) (*models.Match, error)
	Delete(ctx context.Context, id int) error
	// RecordResult атомарно финализирует матч: счёт и исход обеих сторон,
	// статус Completed, победитель и запись в журнале — либо всё, либо ничего.
	RecordResult(ctx context.Context, matchID int, sides [2]SideScore) (*models.Match, error)
	ListLogs(ctx context.Context, matchID int) ([]*models.GameLog, error)
}

type matchService struct {
	tx        repositories.TxManager
	matchRepo repositories.MatchRepository
	eventRepo repositories.EventRepository
	logRepo   repositories.GameLogRepository
	hub       *live.Hub
}

func NewMatchService(
	tx repositories.TxManager,
	matchRepo repositories.MatchRepository,
	eventRepo repositories.EventRepository,
	logRepo repositories.GameLogRepository,
	hub *live.Hub,
) MatchService {
	return &matchService{tx: tx, matchRepo: matchRepo, eventRepo: eventRepo, logRepo: logRepo, hub: hub}
}

func (s *matchService) Schedule(ctx context.Context, match *models.Match, sides [2]models.ParticipantRef) (*models.Match, error) {
	for _, side := range sides {
		if !side.Valid() {
			return nil, fmt.Errorf("%w: each side must reference exactly one player or team", ErrValidationFailed)
		}
	}
	if sides[0].IsTeam() != sides[1].IsTeam() {
		return nil, fmt.Errorf("%w: both sides must be of the same kind", ErrValidationFailed)
	}
	if sides[0].IsTeam() == sides[1].IsTeam() && sides[0].ID() == sides[1].ID() {
		return nil, fmt.Errorf("%w: a participant cannot play against itself", ErrValidationFailed)
	}

	match.Status = models.MatchScheduled
	match.WinnerID = nil
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		event, err := s.eventRepo.GetForUpdate(ctx, exec, match.EventID)
		if err != nil {
			if errors.Is(err, repositories.ErrEventNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		// Вид участников матча задаётся событием: в командном событии
		// играют команды, в одиночном — игроки.
		if sides[0].IsTeam() != event.IsTeamBased {
			return ErrWrongParticipantKind
		}
		return s.matchRepo.Create(ctx, exec, match, sides)
	})
	if err != nil {
		return nil, s.mapMatchError(err)
	}
	return s.GetByID(ctx, match.ID)
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapMatchError(err)
	}
	participants, err := s.matchRepo.ListParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	match.Participants = make([]models.MatchParticipant, 0, len(participants))
	for _, p := range participants {
		match.Participants = append(match.Participants, *p)
	}
	return match, nil
}

func (s *matchService) List(ctx context.Context, filter repositories.ListMatchesFilter) ([]*models.Match, error) {
	return s.matchRepo.List(ctx, filter)
}

// Update переносит матч (дата, время, площадка, название раунда).
// Завершённые матчи неизменяемы.
func (s *matchService) Update(ctx context.Context, id int, upd models.MatchUpdate) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapMatchError(err)
	}
	if match.Status != models.MatchScheduled {
		return nil, ErrMatchNotScheduled
	}
	if err := s.matchRepo.Update(ctx, id, upd); err != nil {
		return nil, s.mapMatchError(err)
	}
	return s.GetByID(ctx, id)
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return err
		}
		if match.Status != models.MatchScheduled {
			return ErrMatchNotScheduled
		}
		return s.matchRepo.Delete(ctx, exec, id)
	})
	return s.mapMatchError(err)
}

// RecordResult — единственный путь перевода матча в Completed. Строка
// матча блокируется первой, затем строки участников, поэтому повторная
// отправка того же результата детерминированно получает
// ErrMatchAlreadyCompleted, а не половину записи.
func (s *matchService) RecordResult(ctx context.Context, matchID int, sides [2]SideScore) (*models.Match, error) {
	for _, side := range sides {
		if !side.Ref.Valid() {
			return nil, fmt.Errorf("%w: each score must reference exactly one player or team", ErrValidationFailed)
		}
		if side.Score < 0 {
			return nil, fmt.Errorf("%w: score must not be negative", ErrValidationFailed)
		}
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetForUpdate(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if match.Status == models.MatchCompleted {
			return ErrMatchAlreadyCompleted
		}

		participants, err := s.matchRepo.ListParticipantsForUpdate(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if len(participants) != 2 {
			return fmt.Errorf("match %d has %d participants, want 2", matchID, len(participants))
		}

		// Сопоставляем присланные счёты с составом матча. Оба счёта
		// должны покрыть обе стороны, без повторов и без посторонних.
		ordered := make([]*SideScore, 2)
		for i := range sides {
			side := &sides[i]
			matched := false
			for j, p := range participants {
				if side.Ref.Matches(p.PlayerID, p.TeamID) {
					if ordered[j] != nil {
						return ErrParticipantMismatch
					}
					ordered[j] = side
					matched = true
					break
				}
			}
			if !matched {
				return ErrParticipantMismatch
			}
		}

		resultA, resultB, winnerSlot := determineOutcome(ordered[0].Score, ordered[1].Score)
		results := [2]models.MatchResult{resultA, resultB}
		for i, p := range participants {
			if err := s.matchRepo.UpdateParticipantResult(ctx, exec, matchID, p.Ref(), ordered[i].Score, results[i]); err != nil {
				return err
			}
		}

		var winnerID *int
		if winnerSlot > 0 {
			id := participants[winnerSlot-1].Ref().ID()
			winnerID = &id
		}
		if err := s.matchRepo.CompleteMatch(ctx, exec, matchID, winnerID); err != nil {
			return err
		}

		desc := "Final Score: " + strconv.Itoa(ordered[0].Score) + " - " + strconv.Itoa(ordered[1].Score)
		return s.logRepo.Create(ctx, exec, &models.GameLog{
			MatchID:     matchID,
			EventType:   models.GameLogMatchCompleted,
			Description: &desc,
		})
	})
	if err != nil {
		return nil, s.mapMatchError(err)
	}

	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if s.hub != nil {
		room := eventRoom(match.EventID)
		s.hub.BroadcastToRoom(room, live.Message{
			Type:    live.MessageMatchCompleted,
			Payload: match,
			RoomID:  room,
		})
	}
	return match, nil
}

func (s *matchService) ListLogs(ctx context.Context, matchID int) ([]*models.GameLog, error) {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		return nil, s.mapMatchError(err)
	}
	return s.logRepo.ListByMatch(ctx, matchID)
}

func (s *matchService) mapMatchError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrMatchEventInvalid),
		errors.Is(err, repositories.ErrMatchVenueInvalid),
		errors.Is(err, repositories.ErrMatchParticipantInvalid):
		return fmt.Errorf("%w: referenced event, venue or participant does not exist", ErrValidationFailed)
	default:
		return err
	}
}
