package handlers

import (
	"net/http"

	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/services"
)

type VenueHandler struct {
	venueService services.VenueService
}

func NewVenueHandler(vs services.VenueService) *VenueHandler {
	return &VenueHandler{venueService: vs}
}

func (h *VenueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var venue models.Venue
	if err := readJSON(w, r, &venue); err != nil {
		badRequestResponse(w, err)
		return
	}

	created, err := h.venueService.Create(r.Context(), &venue)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Venue created", created)
}

func (h *VenueHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "venueID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	venue, err := h.venueService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", venue)
}

func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	venues, err := h.venueService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", venues)
}

func (h *VenueHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "venueID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var upd models.VenueUpdate
	if err := readJSON(w, r, &upd); err != nil {
		badRequestResponse(w, err)
		return
	}

	venue, err := h.venueService.Update(r.Context(), id, upd)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Venue updated", venue)
}

func (h *VenueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "venueID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.venueService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Venue deleted", nil)
}
