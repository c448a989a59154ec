package models

import "time"

// GameLog — запись журнала матча. Только вставка: после записи строки не
// меняются и не удаляются.
type GameLog struct {
	ID          int       `json:"log_id" db:"log_id"`
	MatchID     int       `json:"match_id" db:"match_id"`
	EventType   string    `json:"event_type" db:"event_type"`
	Description *string   `json:"description,omitempty" db:"description"`
	LoggedAt    time.Time `json:"logged_at" db:"logged_at"`
}

// Типы записей журнала, которые пишет это приложение.
const (
	GameLogMatchCompleted = "Match Completed"
)
