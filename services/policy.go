package services

import (
	"time"

	"github.com/sportsys/tournament-admin/models"
)

// decideAdmission — чистая функция приёма заявки. По снимку события,
// количеству подтверждённых заявок и текущему времени решает судьбу новой
// заявки. Порядок проверок фиксирован: сначала дедлайн, затем вид
// участника, затем вместимость. Никакого I/O и скрытого состояния.
func decideAdmission(event *models.Event, confirmedCount int, ref models.ParticipantRef, now time.Time) (models.RegistrationStatus, error) {
	if now.After(event.RegistrationDeadline) {
		return "", ErrDeadlinePassed
	}
	if ref.IsTeam() != event.IsTeamBased {
		return "", ErrWrongParticipantKind
	}
	if confirmedCount < event.MaxParticipants {
		return models.RegistrationConfirmed, nil
	}
	return models.RegistrationWaitlisted, nil
}

// determineOutcome вычисляет исходы обеих сторон и победителя по паре
// счетов. При равном счёте обе стороны получают Draw, победитель не
// назначается.
func determineOutcome(scoreA, scoreB int) (resultA, resultB models.MatchResult, winnerSlot int) {
	switch {
	case scoreA > scoreB:
		return models.ResultWin, models.ResultLoss, 1
	case scoreA < scoreB:
		return models.ResultLoss, models.ResultWin, 2
	default:
		return models.ResultDraw, models.ResultDraw, 0
	}
}
