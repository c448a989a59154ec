package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/services"
)

type contextKey string

const (
	adminIDKey   contextKey = "adminID"
	adminRoleKey contextKey = "adminRole"
)

// Authenticate проверяет заголовок Authorization: Bearer <token> и кладёт
// идентификатор и роль администратора в контекст запроса.
func Authenticate(auth services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}

			claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), adminIDKey, claims.AdminID)
			ctx = context.WithValue(ctx, adminRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize пропускает только перечисленные роли. Ставится после
// Authenticate.
func Authorize(roles ...models.AdminRole) func(http.Handler) http.Handler {
	allowed := make(map[models.AdminRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(adminRoleKey).(models.AdminRole)
			if !ok || !allowed[role] {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"success":false,"message":"insufficient permissions"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetAdminIDFromContext возвращает идентификатор аутентифицированного
// администратора, если он есть в контексте.
func GetAdminIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(adminIDKey).(int)
	return id, ok
}

func GetAdminRoleFromContext(ctx context.Context) (models.AdminRole, bool) {
	role, ok := ctx.Value(adminRoleKey).(models.AdminRole)
	return role, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"message":"authentication required"}`))
}
