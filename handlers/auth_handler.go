package handlers

import (
	"net/http"

	"github.com/sportsys/tournament-admin/middleware"
	"github.com/sportsys/tournament-admin/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Register godoc
// @Summary Зарегистрировать администратора
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{} "Администратор создан"
// @Failure 409 {object} map[string]string "Email или имя пользователя заняты"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterAdminInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	admin, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Admin registered", admin)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	admin, token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "Login successful", map[string]interface{}{
		"admin": admin,
		"token": token,
	})
}

// Me возвращает профиль аутентифицированного администратора.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminIDFromContext(r.Context())
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	admin, err := h.authService.GetAdmin(r.Context(), adminID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondData(w, http.StatusOK, "", admin)
}
