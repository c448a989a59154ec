package handlers

import (
	"net/http"
	"strconv"

	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/repositories"
	"github.com/sportsys/tournament-admin/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(ps services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: ps}
}

func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var player models.Player
	if err := readJSON(w, r, &player); err != nil {
		badRequestResponse(w, err)
		return
	}

	created, err := h.playerService.Create(r.Context(), &player)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Player created", created)
}

func (h *PlayerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	player, err := h.playerService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", player)
}

func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListPlayersFilter{Limit: 50}
	q := r.URL.Query()
	if v := q.Get("skill_level"); v != "" {
		level := models.SkillLevel(v)
		filter.SkillLevel = &level
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

	players, err := h.playerService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", players)
}

func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var upd models.PlayerUpdate
	if err := readJSON(w, r, &upd); err != nil {
		badRequestResponse(w, err)
		return
	}

	player, err := h.playerService.Update(r.Context(), id, upd)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Player updated", player)
}

func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.playerService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Player deleted", nil)
}

func (h *PlayerHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
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

	player, err := h.playerService.UploadLogo(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Logo uploaded", player)
}
