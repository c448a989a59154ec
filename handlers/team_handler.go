package handlers

import (
	"net/http"
	"strconv"

	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

type createTeamInput struct {
	Name      string `json:"team_name"`
	CaptainID int    `json:"captain_id"`
	EventID   *int   `json:"event_id,omitempty"`
	MemberIDs []int  `json:"member_ids,omitempty"`
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input createTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	team := &models.Team{
		Name:      input.Name,
		CaptainID: input.CaptainID,
		EventID:   input.EventID,
	}
	created, err := h.teamService.Create(r.Context(), team, input.MemberIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Team created", created)
}

func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	team, err := h.teamService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", team)
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	if v := r.URL.Query().Get("event_id"); v != "" {
		eventID, err := strconv.Atoi(v)
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "invalid event_id parameter")
			return
		}
		teams, err := h.teamService.ListByEvent(r.Context(), eventID)
		if err != nil {
			mapServiceErrorToHTTP(w, err)
			return
		}
		respondData(w, http.StatusOK, "", teams)
		return
	}

	teams, err := h.teamService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", teams)
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var upd models.TeamUpdate
	if err := readJSON(w, r, &upd); err != nil {
		badRequestResponse(w, err)
		return
	}

	team, err := h.teamService.Update(r.Context(), id, upd)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Team updated", team)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.teamService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Team deleted", nil)
}

type addMemberInput struct {
	PlayerID int `json:"player_id"`
}

func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input addMemberInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	team, err := h.teamService.AddMember(r.Context(), id, input.PlayerID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Member added", team)
}

func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	teamID, err := idParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	playerID, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.teamService.RemoveMember(r.Context(), teamID, playerID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Member removed", nil)
}

func (h *TeamHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "teamID")
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

	team, err := h.teamService.UploadLogo(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Logo uploaded", team)
}
