package models

import "time"

// RegistrationStatus представляет статусы заявки, соответствующие ENUM в БД.
type RegistrationStatus string

const (
	RegistrationConfirmed  RegistrationStatus = "Confirmed"
	RegistrationWaitlisted RegistrationStatus = "Waitlisted"
	RegistrationCancelled  RegistrationStatus = "Cancelled"
)

// Registration — заявка игрока или команды на событие. Ровно одно из полей
// PlayerID/TeamID заполнено; RegistrationDate служит ключом FIFO-порядка
// листа ожидания. Cancelled — терминальный статус.
type Registration struct {
	ID               int                `json:"registration_id" db:"registration_id"`
	EventID          int                `json:"event_id" db:"event_id"`
	PlayerID         *int               `json:"player_id,omitempty" db:"player_id"`
	TeamID           *int               `json:"team_id,omitempty" db:"team_id"`
	Status           RegistrationStatus `json:"status" db:"status"`
	PaymentStatus    string             `json:"payment_status" db:"payment_status"`
	RegistrationDate time.Time          `json:"registration_date" db:"registration_date"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Player *Player `json:"player,omitempty" db:"-"`
	Team   *Team   `json:"team,omitempty" db:"-"`
}

// RegistrationUpdate — административная правка заявки. Статус здесь не
// меняется: переходами статусов владеет сервис регистраций.
type RegistrationUpdate struct {
	PaymentStatus *string `json:"payment_status,omitempty"`
}
