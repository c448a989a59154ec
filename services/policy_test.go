package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsys/tournament-admin/models"
)

func soloEvent(maxParticipants int, deadline time.Time) *models.Event {
	return &models.Event{
		ID:                   1,
		Name:                 "City Open",
		SportType:            "Tennis",
		MaxParticipants:      maxParticipants,
		IsTeamBased:          false,
		RegistrationDeadline: deadline,
	}
}

func TestDecideAdmissionConfirmsWhileCapacityRemains(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	event := soloEvent(4, now.Add(24*time.Hour))

	for confirmed := 0; confirmed < 4; confirmed++ {
		status, err := decideAdmission(event, confirmed, models.PlayerRef(10+confirmed), now)
		require.NoError(t, err)
		assert.Equal(t, models.RegistrationConfirmed, status)
	}
}

func TestDecideAdmissionWaitlistsWhenFull(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	event := soloEvent(4, now.Add(24*time.Hour))

	status, err := decideAdmission(event, 4, models.PlayerRef(99), now)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationWaitlisted, status)
}

func TestDecideAdmissionRejectsAfterDeadline(t *testing.T) {
	deadline := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	event := soloEvent(4, deadline)

	// Дедлайн включительный: ровно в момент дедлайна ещё можно.
	_, err := decideAdmission(event, 0, models.PlayerRef(1), deadline)
	require.NoError(t, err)

	_, err = decideAdmission(event, 0, models.PlayerRef(1), deadline.Add(time.Second))
	assert.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestDecideAdmissionDeadlineBeforeCapacity(t *testing.T) {
	deadline := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	event := soloEvent(2, deadline)

	// Событие заполнено и дедлайн прошёл: побеждает проверка дедлайна.
	_, err := decideAdmission(event, 2, models.PlayerRef(1), deadline.Add(time.Hour))
	assert.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestDecideAdmissionRejectsWrongParticipantKind(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	event := soloEvent(4, now.Add(24*time.Hour))

	_, err := decideAdmission(event, 0, models.TeamRef(7), now)
	assert.ErrorIs(t, err, ErrWrongParticipantKind)

	teamEvent := soloEvent(4, now.Add(24*time.Hour))
	teamEvent.IsTeamBased = true
	_, err = decideAdmission(teamEvent, 0, models.PlayerRef(7), now)
	assert.ErrorIs(t, err, ErrWrongParticipantKind)
}

func TestDetermineOutcome(t *testing.T) {
	tests := []struct {
		name       string
		scoreA     int
		scoreB     int
		wantA      models.MatchResult
		wantB      models.MatchResult
		winnerSlot int
	}{
		{"side A wins", 3, 1, models.ResultWin, models.ResultLoss, 1},
		{"side B wins", 0, 2, models.ResultLoss, models.ResultWin, 2},
		{"draw", 2, 2, models.ResultDraw, models.ResultDraw, 0},
		{"goalless draw", 0, 0, models.ResultDraw, models.ResultDraw, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resultA, resultB, winnerSlot := determineOutcome(tt.scoreA, tt.scoreB)
			assert.Equal(t, tt.wantA, resultA)
			assert.Equal(t, tt.wantB, resultB)
			assert.Equal(t, tt.winnerSlot, winnerSlot)
		})
	}
}
