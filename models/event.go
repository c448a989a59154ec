package models

import "time"

// EventStatus представляет статусы события, соответствующие ENUM в БД.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "Upcoming"
	EventStatusOngoing   EventStatus = "Ongoing"
	EventStatusCompleted EventStatus = "Completed"
	EventStatusCancelled EventStatus = "Cancelled"
)

// Event представляет спортивное событие (турнир, лига, товарищеский день).
// MaxParticipants и RegistrationDeadline управляют приёмом заявок;
// дедлайн задаётся при создании и далее не меняется.
type Event struct {
	ID                   int         `json:"event_id" db:"event_id"`
	Name                 string      `json:"event_name" db:"event_name"`
	SportType            string      `json:"sport_type" db:"sport_type"`
	EventType            *string     `json:"event_type,omitempty" db:"event_type"`
	Format               *string     `json:"format,omitempty" db:"format"`
	StartDate            time.Time   `json:"start_date" db:"start_date"`
	EndDate              time.Time   `json:"end_date" db:"end_date"`
	RegistrationDeadline time.Time   `json:"registration_deadline" db:"registration_deadline"`
	MaxParticipants      int         `json:"max_participants" db:"max_participants"`
	IsTeamBased          bool        `json:"is_team_based" db:"is_team_based"`
	Status               EventStatus `json:"event_status" db:"event_status"`
	CreatedBy            *int        `json:"created_by,omitempty" db:"created_by"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`
	LogoKey              *string     `json:"-" db:"logo_key"`
	LogoURL              *string     `json:"logo_url,omitempty" db:"-"`
}

// EventUpdate перечисляет поля, которые разрешено менять после создания.
// Каждое поле опционально; nil означает "не трогать". Дедлайн регистрации
// и флаг командности намеренно отсутствуют.
type EventUpdate struct {
	Name      *string      `json:"event_name,omitempty"`
	SportType *string      `json:"sport_type,omitempty"`
	EventType *string      `json:"event_type,omitempty"`
	Format    *string      `json:"format,omitempty"`
	StartDate *time.Time   `json:"start_date,omitempty"`
	EndDate   *time.Time   `json:"end_date,omitempty"`
	Status    *EventStatus `json:"event_status,omitempty"`
}
