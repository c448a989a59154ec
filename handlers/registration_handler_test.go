package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/repositories"
	"github.com/sportsys/tournament-admin/services"
)

type stubRegistrationService struct {
	registerStatus models.RegistrationStatus
	registerErr    error
	cancelErr      error
}

func (s *stubRegistrationService) Register(ctx context.Context, eventID int, ref models.ParticipantRef) (*models.Registration, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &models.Registration{
		ID:               1,
		EventID:          eventID,
		PlayerID:         ref.PlayerID,
		TeamID:           ref.TeamID,
		Status:           s.registerStatus,
		RegistrationDate: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (s *stubRegistrationService) Cancel(ctx context.Context, registrationID int) (*services.CancelResult, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return &services.CancelResult{
		Cancelled: &models.Registration{ID: registrationID, Status: models.RegistrationCancelled},
	}, nil
}

func (s *stubRegistrationService) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	return nil, services.ErrRegistrationNotFound
}

func (s *stubRegistrationService) List(ctx context.Context, filter repositories.ListRegistrationsFilter) ([]*models.Registration, error) {
	return nil, nil
}

func (s *stubRegistrationService) UpdatePayment(ctx context.Context, id int, upd models.RegistrationUpdate) (*models.Registration, error) {
	return nil, services.ErrRegistrationNotFound
}

func (s *stubRegistrationService) Delete(ctx context.Context, id int) error {
	return nil
}

func newRegistrationRouter(svc services.RegistrationService) *chi.Mux {
	h := NewRegistrationHandler(svc)
	router := chi.NewRouter()
	router.Post("/api/registrations", h.Create)
	router.Post("/api/registrations/{registrationID}/cancel", h.Cancel)
	return router
}

func TestCreateRegistrationConfirmed(t *testing.T) {
	router := newRegistrationRouter(&stubRegistrationService{registerStatus: models.RegistrationConfirmed})

	req := httptest.NewRequest(http.MethodPost, "/api/registrations", strings.NewReader(`{"event_id":1,"player_id":7}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Data    models.Registration `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Registration confirmed", body.Message)
	assert.Equal(t, models.RegistrationConfirmed, body.Data.Status)
}

func TestCreateRegistrationWaitlistedMessage(t *testing.T) {
	router := newRegistrationRouter(&stubRegistrationService{registerStatus: models.RegistrationWaitlisted})

	req := httptest.NewRequest(http.MethodPost, "/api/registrations", strings.NewReader(`{"event_id":1,"player_id":7}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "waitlisted")
}

func TestCreateRegistrationDuplicateConflict(t *testing.T) {
	router := newRegistrationRouter(&stubRegistrationService{registerErr: services.ErrDuplicateRegistration})

	req := httptest.NewRequest(http.MethodPost, "/api/registrations", strings.NewReader(`{"event_id":1,"player_id":7}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestCreateRegistrationBadJSON(t *testing.T) {
	router := newRegistrationRouter(&stubRegistrationService{registerStatus: models.RegistrationConfirmed})

	req := httptest.NewRequest(http.MethodPost, "/api/registrations", strings.NewReader(`{"event_id":`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelRegistrationNotFound(t *testing.T) {
	router := newRegistrationRouter(&stubRegistrationService{cancelErr: services.ErrRegistrationNotFound})

	req := httptest.NewRequest(http.MethodPost, "/api/registrations/42/cancel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
