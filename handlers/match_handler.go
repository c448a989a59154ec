package handlers

import (
	"net/http"
	"strconv"

	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/repositories"
	"github.com/sportsys/tournament-admin/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

type scheduleMatchInput struct {
	EventID   int               `json:"event_id"`
	RoundName *string           `json:"round_name,omitempty"`
	MatchDate *string           `json:"match_date,omitempty"`
	MatchTime *string           `json:"match_time,omitempty"`
	VenueID   *int              `json:"venue_id,omitempty"`
	SideA     sideInput         `json:"side_a"`
	SideB     sideInput         `json:"side_b"`
}

type sideInput struct {
	PlayerID *int `json:"player_id,omitempty"`
	TeamID   *int `json:"team_id,omitempty"`
}

func (in sideInput) ref() models.ParticipantRef {
	return models.ParticipantRef{PlayerID: in.PlayerID, TeamID: in.TeamID}
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input scheduleMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match := &models.Match{
		EventID:   input.EventID,
		RoundName: input.RoundName,
		MatchTime: input.MatchTime,
		VenueID:   input.VenueID,
	}
	if input.MatchDate != nil {
		d, err := parseDate(*input.MatchDate)
		if err != nil {
			badRequestResponse(w, err)
			return
		}
		match.MatchDate = &d
	}

	created, err := h.matchService.Schedule(r.Context(), match, [2]models.ParticipantRef{input.SideA.ref(), input.SideB.ref()})
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Match scheduled", created)
}

type recordResultInput struct {
	Results []resultEntryInput `json:"results"`
}

type resultEntryInput struct {
	PlayerID *int `json:"player_id,omitempty"`
	TeamID   *int `json:"team_id,omitempty"`
	Score    int  `json:"score"`
}

// RecordResult godoc
// @Summary Зафиксировать результат матча
// @Tags matches
// @Description Атомарно записывает счёт обеих сторон, исходы, победителя и запись журнала.
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Матч завершён"
// @Failure 400 {object} map[string]string "Участники не совпадают с составом матча"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Матч уже завершён"
// @Router /api/matches/{matchID}/result [post]
func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input recordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if len(input.Results) != 2 {
		errorResponse(w, http.StatusBadRequest, "exactly two results are required")
		return
	}

	sides := [2]services.SideScore{}
	for i, entry := range input.Results {
		sides[i] = services.SideScore{
			Ref:   models.ParticipantRef{PlayerID: entry.PlayerID, TeamID: entry.TeamID},
			Score: entry.Score,
		}
	}

	match, err := h.matchService.RecordResult(r.Context(), id, sides)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Match result recorded", match)
}

func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", match)
}

func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListMatchesFilter{}
	q := r.URL.Query()
	if v := q.Get("event_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "invalid event_id parameter")
			return
		}
		filter.EventID = &id
	}
	if v := q.Get("status"); v != "" {
		status := models.MatchStatus(v)
		filter.Status = &status
	}
	if v := q.Get("venue_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "invalid venue_id parameter")
			return
		}
		filter.VenueID = &id
	}

	matches, err := h.matchService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", matches)
}

func (h *MatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var upd models.MatchUpdate
	if err := readJSON(w, r, &upd); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.Update(r.Context(), id, upd)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Match updated", match)
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.matchService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Match deleted", nil)
}

func (h *MatchHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	logs, err := h.matchService.ListLogs(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", logs)
}
