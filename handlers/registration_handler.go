package handlers

import (
	"net/http"
	"strconv"

	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/repositories"
	"github.com/sportsys/tournament-admin/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(rs services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: rs}
}

type createRegistrationInput struct {
	EventID  int  `json:"event_id"`
	PlayerID *int `json:"player_id,omitempty"`
	TeamID   *int `json:"team_id,omitempty"`
}

// Create godoc
// @Summary Подать заявку на участие в событии
// @Tags registrations
// @Description Заявка получает статус Confirmed при наличии мест, иначе Waitlisted.
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{} "Заявка создана"
// @Failure 400 {object} map[string]string "Дедлайн прошёл или неверный вид участника"
// @Failure 404 {object} map[string]string "Событие не найдено"
// @Failure 409 {object} map[string]string "Уже зарегистрирован"
// @Router /api/registrations [post]
func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input createRegistrationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	ref := models.ParticipantRef{PlayerID: input.PlayerID, TeamID: input.TeamID}
	reg, err := h.registrationService.Register(r.Context(), input.EventID, ref)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	message := "Registration confirmed"
	if reg.Status == models.RegistrationWaitlisted {
		message = "Event is full, registration waitlisted"
	}
	respondData(w, http.StatusCreated, message, reg)
}

// Cancel godoc
// @Summary Отменить заявку
// @Tags registrations
// @Description Отмена подтверждённой заявки продвигает старейшую заявку из листа ожидания.
// @Produce json
// @Param registrationID path int true "Registration ID"
// @Success 200 {object} map[string]interface{} "Заявка отменена"
// @Failure 404 {object} map[string]string "Заявка не найдена"
// @Failure 409 {object} map[string]string "Заявка уже отменена"
// @Router /api/registrations/{registrationID}/cancel [post]
func (h *RegistrationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "registrationID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	result, err := h.registrationService.Cancel(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Registration cancelled", result)
}

func (h *RegistrationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "registrationID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	reg, err := h.registrationService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", reg)
}

func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListRegistrationsFilter{}
	q := r.URL.Query()
	if v := q.Get("event_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "invalid event_id parameter")
			return
		}
		filter.EventID = &id
	}
	if v := q.Get("player_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "invalid player_id parameter")
			return
		}
		filter.PlayerID = &id
	}
	if v := q.Get("team_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "invalid team_id parameter")
			return
		}
		filter.TeamID = &id
	}
	if v := q.Get("status"); v != "" {
		status := models.RegistrationStatus(v)
		filter.Status = &status
	}

	regs, err := h.registrationService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", regs)
}

func (h *RegistrationHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "registrationID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var upd models.RegistrationUpdate
	if err := readJSON(w, r, &upd); err != nil {
		badRequestResponse(w, err)
		return
	}

	reg, err := h.registrationService.UpdatePayment(r.Context(), id, upd)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Payment status updated", reg)
}

func (h *RegistrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "registrationID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.registrationService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Registration deleted", nil)
}
