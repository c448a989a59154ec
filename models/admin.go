package models

import "time"

// AdminRole представляет роли администраторов, соответствующие ENUM в БД.
type AdminRole string

const (
	RoleSuperAdmin   AdminRole = "super_admin"
	RoleEventManager AdminRole = "event_manager"
)

// Admin — учётная запись администратора бэкенда.
type Admin struct {
	ID           int       `json:"admin_id" db:"admin_id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         AdminRole `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
