package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsys/tournament-admin/models"
)

func newMatchFixture(t *testing.T) (MatchService, *fakeStore, *models.Match) {
	t.Helper()
	store := newFakeStore()
	store.addEvent(testEvent(1, 8, false))
	match := store.addMatch(
		models.Match{EventID: 1, Status: models.MatchScheduled},
		[]models.ParticipantRef{models.PlayerRef(10), models.PlayerRef(20)},
	)

	svc := NewMatchService(store, &fakeMatchRepo{s: store}, &fakeEventRepo{s: store}, &fakeLogRepo{s: store}, nil)
	return svc, store, match
}

func sideScores(scoreA, scoreB int) [2]SideScore {
	return [2]SideScore{
		{Ref: models.PlayerRef(10), Score: scoreA},
		{Ref: models.PlayerRef(20), Score: scoreB},
	}
}

func TestRecordResultSetsWinnerAndOutcomes(t *testing.T) {
	svc, store, match := newMatchFixture(t)

	result, err := svc.RecordResult(context.Background(), match.ID, sideScores(3, 1))
	require.NoError(t, err)

	assert.Equal(t, models.MatchCompleted, result.Status)
	require.NotNil(t, result.WinnerID)
	assert.Equal(t, 10, *result.WinnerID)

	require.Len(t, result.Participants, 2)
	require.NotNil(t, result.Participants[0].Result)
	require.NotNil(t, result.Participants[1].Result)
	assert.Equal(t, models.ResultWin, *result.Participants[0].Result)
	assert.Equal(t, models.ResultLoss, *result.Participants[1].Result)
	assert.Equal(t, 3, *result.Participants[0].Score)
	assert.Equal(t, 1, *result.Participants[1].Score)

	// Ровно одна запись журнала с итоговым счётом.
	require.Len(t, store.logs, 1)
	assert.Equal(t, models.GameLogMatchCompleted, store.logs[0].EventType)
	require.NotNil(t, store.logs[0].Description)
	assert.Equal(t, "Final Score: 3 - 1", *store.logs[0].Description)
}

func TestRecordResultDraw(t *testing.T) {
	svc, _, match := newMatchFixture(t)

	result, err := svc.RecordResult(context.Background(), match.ID, sideScores(2, 2))
	require.NoError(t, err)

	assert.Equal(t, models.MatchCompleted, result.Status)
	assert.Nil(t, result.WinnerID)
	assert.Equal(t, models.ResultDraw, *result.Participants[0].Result)
	assert.Equal(t, models.ResultDraw, *result.Participants[1].Result)
}

func TestRecordResultOrderIndependent(t *testing.T) {
	svc, _, match := newMatchFixture(t)

	// Счёты присланы в обратном порядке относительно состава матча.
	reversed := [2]SideScore{
		{Ref: models.PlayerRef(20), Score: 1},
		{Ref: models.PlayerRef(10), Score: 3},
	}
	result, err := svc.RecordResult(context.Background(), match.ID, reversed)
	require.NoError(t, err)

	require.NotNil(t, result.WinnerID)
	assert.Equal(t, 10, *result.WinnerID)
	assert.Equal(t, 3, *result.Participants[0].Score)
	assert.Equal(t, 1, *result.Participants[1].Score)
}

func TestRecordResultReplayRejected(t *testing.T) {
	svc, _, match := newMatchFixture(t)
	ctx := context.Background()

	_, err := svc.RecordResult(ctx, match.ID, sideScores(3, 1))
	require.NoError(t, err)

	_, err = svc.RecordResult(ctx, match.ID, sideScores(3, 1))
	assert.ErrorIs(t, err, ErrMatchAlreadyCompleted)
}

func TestRecordResultParticipantMismatch(t *testing.T) {
	svc, _, match := newMatchFixture(t)
	ctx := context.Background()

	// Посторонний участник.
	_, err := svc.RecordResult(ctx, match.ID, [2]SideScore{
		{Ref: models.PlayerRef(10), Score: 3},
		{Ref: models.PlayerRef(99), Score: 1},
	})
	assert.ErrorIs(t, err, ErrParticipantMismatch)

	// Один и тот же участник дважды.
	_, err = svc.RecordResult(ctx, match.ID, [2]SideScore{
		{Ref: models.PlayerRef(10), Score: 3},
		{Ref: models.PlayerRef(10), Score: 1},
	})
	assert.ErrorIs(t, err, ErrParticipantMismatch)
}

func TestRecordResultNegativeScore(t *testing.T) {
	svc, _, match := newMatchFixture(t)

	_, err := svc.RecordResult(context.Background(), match.ID, sideScores(-1, 2))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestRecordResultUnknownMatch(t *testing.T) {
	svc, _, _ := newMatchFixture(t)

	_, err := svc.RecordResult(context.Background(), 777, sideScores(1, 0))
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestRecordResultRollsBackWhenLogWriteFails(t *testing.T) {
	svc, store, match := newMatchFixture(t)
	store.failOn["gamelog.create"] = assert.AnError

	_, err := svc.RecordResult(context.Background(), match.ID, sideScores(3, 1))
	require.Error(t, err)

	// Ни статус, ни участники не изменились: всё или ничего.
	assert.Equal(t, models.MatchScheduled, store.matches[match.ID].Status)
	assert.Nil(t, store.matches[match.ID].WinnerID)
	for _, p := range store.participants[match.ID] {
		assert.Nil(t, p.Score)
		assert.Nil(t, p.Result)
	}
	assert.Empty(t, store.logs)
}

func TestRecordResultRollsBackWhenCompleteFails(t *testing.T) {
	svc, store, match := newMatchFixture(t)
	store.failOn["match.complete"] = assert.AnError

	_, err := svc.RecordResult(context.Background(), match.ID, sideScores(2, 0))
	require.Error(t, err)

	for _, p := range store.participants[match.ID] {
		assert.Nil(t, p.Score)
		assert.Nil(t, p.Result)
	}
	assert.Empty(t, store.logs)
}

func TestScheduleRejectsSelfPlay(t *testing.T) {
	svc, _, _ := newMatchFixture(t)

	_, err := svc.Schedule(context.Background(), &models.Match{EventID: 1}, [2]models.ParticipantRef{
		models.PlayerRef(5), models.PlayerRef(5),
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestScheduleRejectsMixedKinds(t *testing.T) {
	svc, _, _ := newMatchFixture(t)

	_, err := svc.Schedule(context.Background(), &models.Match{EventID: 1}, [2]models.ParticipantRef{
		models.PlayerRef(5), models.TeamRef(5),
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestScheduleRejectsKindMismatchingEvent(t *testing.T) {
	svc, store, _ := newMatchFixture(t)
	store.addEvent(testEvent(2, 8, true))

	// Матч игроков в командном событии.
	_, err := svc.Schedule(context.Background(), &models.Match{EventID: 2}, [2]models.ParticipantRef{
		models.PlayerRef(10), models.PlayerRef(20),
	})
	assert.ErrorIs(t, err, ErrWrongParticipantKind)

	// И наоборот: матч команд в одиночном событии.
	_, err = svc.Schedule(context.Background(), &models.Match{EventID: 1}, [2]models.ParticipantRef{
		models.TeamRef(1), models.TeamRef(2),
	})
	assert.ErrorIs(t, err, ErrWrongParticipantKind)
}

func TestScheduleUnknownEvent(t *testing.T) {
	svc, _, _ := newMatchFixture(t)

	_, err := svc.Schedule(context.Background(), &models.Match{EventID: 404}, [2]models.ParticipantRef{
		models.PlayerRef(10), models.PlayerRef(20),
	})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpdateCompletedMatchRejected(t *testing.T) {
	svc, _, match := newMatchFixture(t)
	ctx := context.Background()

	_, err := svc.RecordResult(ctx, match.ID, sideScores(1, 0))
	require.NoError(t, err)

	name := "Quarterfinal"
	_, err = svc.Update(ctx, match.ID, models.MatchUpdate{RoundName: &name})
	assert.ErrorIs(t, err, ErrMatchNotScheduled)

	err = svc.Delete(ctx, match.ID)
	assert.ErrorIs(t, err, ErrMatchNotScheduled)
}
