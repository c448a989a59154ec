package handlers

import (
	"database/sql"
	"net/http"

	"github.com/sportsys/tournament-admin/services"
)

type StatsHandler struct {
	statsService services.StatsService
	db           *sql.DB
}

func NewStatsHandler(ss services.StatsService, db *sql.DB) *StatsHandler {
	return &StatsHandler{statsService: ss, db: db}
}

func (h *StatsHandler) DatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.DatabaseStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", stats)
}

func (h *StatsHandler) RegistrationOverview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "eventID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	overview, err := h.statsService.RegistrationOverview(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", overview)
}

// Health проверяет доступность БД; без неё сервис бесполезен.
func (h *StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		errorResponse(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	respondData(w, http.StatusOK, "ok", nil)
}
