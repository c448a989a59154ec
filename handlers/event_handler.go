package handlers

import (
	"net/http"
	"strconv"

	"github.com/sportsys/tournament-admin/middleware"
	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/repositories"
	"github.com/sportsys/tournament-admin/services"
)

const maxLogoSize = 5 << 20 // 5MB

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(es services.EventService) *EventHandler {
	return &EventHandler{eventService: es}
}

type createEventInput struct {
	Name                 string  `json:"event_name"`
	SportType            string  `json:"sport_type"`
	EventType            *string `json:"event_type,omitempty"`
	Format               *string `json:"format,omitempty"`
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
	RegistrationDeadline string  `json:"registration_deadline"`
	MaxParticipants      int     `json:"max_participants"`
	IsTeamBased          bool    `json:"is_team_based"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input createEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	event := &models.Event{
		Name:            input.Name,
		SportType:       input.SportType,
		EventType:       input.EventType,
		Format:          input.Format,
		MaxParticipants: input.MaxParticipants,
		IsTeamBased:     input.IsTeamBased,
	}
	var err error
	if event.StartDate, err = parseDate(input.StartDate); err != nil {
		badRequestResponse(w, err)
		return
	}
	if event.EndDate, err = parseDate(input.EndDate); err != nil {
		badRequestResponse(w, err)
		return
	}
	if event.RegistrationDeadline, err = parseDate(input.RegistrationDeadline); err != nil {
		badRequestResponse(w, err)
		return
	}
	if adminID, ok := middleware.GetAdminIDFromContext(r.Context()); ok {
		event.CreatedBy = &adminID
	}

	created, err := h.eventService.Create(r.Context(), event)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Event created", created)
}

func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "eventID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	event, err := h.eventService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", event)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListEventsFilter{Limit: 50}
	q := r.URL.Query()
	if v := q.Get("sport_type"); v != "" {
		filter.SportType = &v
	}
	if v := q.Get("status"); v != "" {
		status := models.EventStatus(v)
		filter.Status = &status
	}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	events, err := h.eventService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", events)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "eventID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var upd models.EventUpdate
	if err := readJSON(w, r, &upd); err != nil {
		badRequestResponse(w, err)
		return
	}

	event, err := h.eventService.Update(r.Context(), id, upd)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Event updated", event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "eventID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.eventService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Event deleted", nil)
}

// UploadLogo принимает multipart/form-data с полем logo.
func (h *EventHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "eventID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoSize)
	file, header, err := r.FormFile("logo")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "form file 'logo' is required")
		return
	}
	defer file.Close()

	event, err := h.eventService.UploadLogo(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Logo uploaded", event)
}
