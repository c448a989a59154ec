package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsys/tournament-admin/models"
)

func newRegistrationFixture(t *testing.T, event models.Event) (*registrationService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.addEvent(event)

	svc := NewRegistrationService(store, &fakeRegRepo{s: store}, &fakeEventRepo{s: store}, nil).(*registrationService)
	svc.now = func() time.Time {
		return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc, store
}

func testEvent(id, capacity int, teamBased bool) models.Event {
	return models.Event{
		ID:                   id,
		Name:                 "Spring League",
		SportType:            "Football",
		MaxParticipants:      capacity,
		IsTeamBased:          teamBased,
		RegistrationDeadline: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		StartDate:            time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC),
		Status:               models.EventStatusUpcoming,
	}
}

func TestRegisterConfirmsUntilCapacityThenWaitlists(t *testing.T) {
	svc, _ := newRegistrationFixture(t, testEvent(1, 3, false))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		reg, err := svc.Register(ctx, 1, models.PlayerRef(i))
		require.NoError(t, err)
		assert.Equal(t, models.RegistrationConfirmed, reg.Status)
	}

	reg, err := svc.Register(ctx, 1, models.PlayerRef(4))
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationWaitlisted, reg.Status)
}

func TestRegisterConcurrentNeverExceedsCapacity(t *testing.T) {
	const capacity = 5
	const attempts = 40

	svc, store := newRegistrationFixture(t, testEvent(1, capacity, false))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= attempts; i++ {
		wg.Add(1)
		go func(playerID int) {
			defer wg.Done()
			_, err := svc.Register(ctx, 1, models.PlayerRef(playerID))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	confirmed, waitlisted := 0, 0
	for _, reg := range store.registration {
		switch reg.Status {
		case models.RegistrationConfirmed:
			confirmed++
		case models.RegistrationWaitlisted:
			waitlisted++
		}
	}
	assert.Equal(t, capacity, confirmed)
	assert.Equal(t, attempts-capacity, waitlisted)
}

func TestRegisterRejectsDuplicateActive(t *testing.T) {
	svc, _ := newRegistrationFixture(t, testEvent(1, 3, false))
	ctx := context.Background()

	_, err := svc.Register(ctx, 1, models.PlayerRef(7))
	require.NoError(t, err)

	_, err = svc.Register(ctx, 1, models.PlayerRef(7))
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestRegisterAllowsReentryAfterCancellation(t *testing.T) {
	svc, _ := newRegistrationFixture(t, testEvent(1, 3, false))
	ctx := context.Background()

	reg, err := svc.Register(ctx, 1, models.PlayerRef(7))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, reg.ID)
	require.NoError(t, err)

	again, err := svc.Register(ctx, 1, models.PlayerRef(7))
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, again.Status)
	assert.NotEqual(t, reg.ID, again.ID)
}

func TestRegisterRejectsAfterDeadline(t *testing.T) {
	svc, store := newRegistrationFixture(t, testEvent(1, 3, false))
	svc.now = func() time.Time {
		return time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	}

	_, err := svc.Register(context.Background(), 1, models.PlayerRef(1))
	assert.ErrorIs(t, err, ErrDeadlinePassed)
	assert.Empty(t, store.registration)
}

func TestRegisterRejectsWrongKind(t *testing.T) {
	svc, _ := newRegistrationFixture(t, testEvent(1, 3, true))

	_, err := svc.Register(context.Background(), 1, models.PlayerRef(1))
	assert.ErrorIs(t, err, ErrWrongParticipantKind)
}

func TestRegisterUnknownEvent(t *testing.T) {
	svc, _ := newRegistrationFixture(t, testEvent(1, 3, false))

	_, err := svc.Register(context.Background(), 99, models.PlayerRef(1))
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestCancelConfirmedPromotesOldestWaitlisted(t *testing.T) {
	svc, store := newRegistrationFixture(t, testEvent(1, 2, false))
	ctx := context.Background()

	first, err := svc.Register(ctx, 1, models.PlayerRef(1))
	require.NoError(t, err)
	_, err = svc.Register(ctx, 1, models.PlayerRef(2))
	require.NoError(t, err)

	// Два кандидата в листе ожидания с разным временем подачи.
	waitA, err := svc.Register(ctx, 1, models.PlayerRef(3))
	require.NoError(t, err)
	waitB, err := svc.Register(ctx, 1, models.PlayerRef(4))
	require.NoError(t, err)
	store.registration[waitA.ID].RegistrationDate = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	store.registration[waitB.ID].RegistrationDate = time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)

	result, err := svc.Cancel(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Promoted)
	assert.Equal(t, waitA.ID, result.Promoted.ID)
	assert.Equal(t, models.RegistrationConfirmed, result.Promoted.Status)
	assert.Equal(t, models.RegistrationCancelled, result.Cancelled.Status)

	// Второй кандидат остаётся в листе ожидания.
	assert.Equal(t, models.RegistrationWaitlisted, store.registration[waitB.ID].Status)
}

func TestCancelPromotionBreaksTiesByID(t *testing.T) {
	svc, store := newRegistrationFixture(t, testEvent(1, 1, false))
	ctx := context.Background()

	confirmed, err := svc.Register(ctx, 1, models.PlayerRef(1))
	require.NoError(t, err)
	waitA, err := svc.Register(ctx, 1, models.PlayerRef(2))
	require.NoError(t, err)
	waitB, err := svc.Register(ctx, 1, models.PlayerRef(3))
	require.NoError(t, err)

	same := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	store.registration[waitA.ID].RegistrationDate = same
	store.registration[waitB.ID].RegistrationDate = same

	result, err := svc.Cancel(ctx, confirmed.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Promoted)
	assert.Equal(t, waitA.ID, result.Promoted.ID)
}

func TestCancelWaitlistedDoesNotPromote(t *testing.T) {
	svc, store := newRegistrationFixture(t, testEvent(1, 1, false))
	ctx := context.Background()

	_, err := svc.Register(ctx, 1, models.PlayerRef(1))
	require.NoError(t, err)
	waitA, err := svc.Register(ctx, 1, models.PlayerRef(2))
	require.NoError(t, err)
	waitB, err := svc.Register(ctx, 1, models.PlayerRef(3))
	require.NoError(t, err)

	result, err := svc.Cancel(ctx, waitA.ID)
	require.NoError(t, err)
	assert.Nil(t, result.Promoted)

	// Число подтверждённых не меняется, второй кандидат не двигается.
	confirmed := 0
	for _, reg := range store.registration {
		if reg.Status == models.RegistrationConfirmed {
			confirmed++
		}
	}
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, models.RegistrationWaitlisted, store.registration[waitB.ID].Status)
}

func TestCancelAlreadyCancelled(t *testing.T) {
	svc, _ := newRegistrationFixture(t, testEvent(1, 2, false))
	ctx := context.Background()

	reg, err := svc.Register(ctx, 1, models.PlayerRef(1))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, reg.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, reg.ID)
	assert.ErrorIs(t, err, ErrRegistrationCancelled)
}

func TestCancelPromotesAfterDeadline(t *testing.T) {
	svc, store := newRegistrationFixture(t, testEvent(1, 1, false))
	ctx := context.Background()

	confirmed, err := svc.Register(ctx, 1, models.PlayerRef(1))
	require.NoError(t, err)
	waitlisted, err := svc.Register(ctx, 1, models.PlayerRef(2))
	require.NoError(t, err)

	// Продвижение не зависит от дедлайна регистрации.
	svc.now = func() time.Time {
		return time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	}

	result, err := svc.Cancel(ctx, confirmed.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Promoted)
	assert.Equal(t, waitlisted.ID, result.Promoted.ID)
	assert.Equal(t, models.RegistrationConfirmed, store.registration[waitlisted.ID].Status)
}

func TestDeleteRequiresCancelledStatus(t *testing.T) {
	svc, store := newRegistrationFixture(t, testEvent(1, 1, false))
	ctx := context.Background()

	confirmed, err := svc.Register(ctx, 1, models.PlayerRef(1))
	require.NoError(t, err)
	waitlisted, err := svc.Register(ctx, 1, models.PlayerRef(2))
	require.NoError(t, err)

	// Удаление активной заявки обошло бы Cancel и его продвижение.
	err = svc.Delete(ctx, confirmed.ID)
	assert.ErrorIs(t, err, ErrRegistrationActive)
	assert.Contains(t, store.registration, confirmed.ID)
	assert.Equal(t, models.RegistrationWaitlisted, store.registration[waitlisted.ID].Status)

	_, err = svc.Cancel(ctx, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, store.registration[waitlisted.ID].Status)

	require.NoError(t, svc.Delete(ctx, confirmed.ID))
	assert.NotContains(t, store.registration, confirmed.ID)
}

func TestConcurrentCancelsPromoteExactlyOnce(t *testing.T) {
	svc, store := newRegistrationFixture(t, testEvent(1, 2, false))
	ctx := context.Background()

	first, err := svc.Register(ctx, 1, models.PlayerRef(1))
	require.NoError(t, err)
	second, err := svc.Register(ctx, 1, models.PlayerRef(2))
	require.NoError(t, err)
	waitlisted, err := svc.Register(ctx, 1, models.PlayerRef(3))
	require.NoError(t, err)
	require.Equal(t, models.RegistrationWaitlisted, waitlisted.Status)

	var wg sync.WaitGroup
	var promoted int64
	for _, id := range []int{first.ID, second.ID} {
		wg.Add(1)
		go func(regID int) {
			defer wg.Done()
			result, err := svc.Cancel(ctx, regID)
			assert.NoError(t, err)
			if result.Promoted != nil {
				atomic.AddInt64(&promoted, 1)
			}
		}(id)
	}
	wg.Wait()

	assert.EqualValues(t, 1, promoted)
	assert.Equal(t, models.RegistrationConfirmed, store.registration[waitlisted.ID].Status)
}

func TestCancelRollsBackOnPromotionFailure(t *testing.T) {
	svc, store := newRegistrationFixture(t, testEvent(1, 1, false))
	ctx := context.Background()

	confirmed, err := svc.Register(ctx, 1, models.PlayerRef(1))
	require.NoError(t, err)
	_, err = svc.Register(ctx, 1, models.PlayerRef(2))
	require.NoError(t, err)

	// Смена статуса падает, транзакция откатывается: заявка остаётся
	// подтверждённой, никто не продвинут.
	store.failOn["registration.updateStatus"] = assert.AnError

	_, err = svc.Cancel(ctx, confirmed.ID)
	require.Error(t, err)
	assert.Equal(t, models.RegistrationConfirmed, store.registration[confirmed.ID].Status)
}
