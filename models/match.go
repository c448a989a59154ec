package models

import "time"

// MatchStatus представляет статусы матча, соответствующие ENUM в БД.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "Scheduled"
	MatchCompleted MatchStatus = "Completed"
)

// MatchResult — исход матча для одного участника.
type MatchResult string

const (
	ResultWin  MatchResult = "Win"
	ResultLoss MatchResult = "Loss"
	ResultDraw MatchResult = "Draw"
)

// Match — двусторонняя встреча в рамках события. BracketID — непрозрачный
// внешний ключ сетки, здесь не вычисляется. WinnerID, если задан, равен
// идентификатору одного из двух участников матча.
type Match struct {
	ID        int         `json:"match_id" db:"match_id"`
	EventID   int         `json:"event_id" db:"event_id"`
	BracketID *int        `json:"bracket_id,omitempty" db:"bracket_id"`
	RoundName *string     `json:"round_name,omitempty" db:"round_name"`
	MatchDate *time.Time  `json:"match_date,omitempty" db:"match_date"`
	MatchTime *string     `json:"match_time,omitempty" db:"match_time"`
	VenueID   *int        `json:"venue_id,omitempty" db:"venue_id"`
	Status    MatchStatus `json:"match_status" db:"match_status"`
	WinnerID  *int        `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`

	Participants []MatchParticipant `json:"participants,omitempty" db:"-"`
}

// MatchParticipant — одна из двух сторон матча. Ровно одно из полей
// PlayerID/TeamID заполнено, в согласии с is_team_based события.
type MatchParticipant struct {
	ID       int          `json:"match_participant_id" db:"match_participant_id"`
	MatchID  int          `json:"match_id" db:"match_id"`
	PlayerID *int         `json:"player_id,omitempty" db:"player_id"`
	TeamID   *int         `json:"team_id,omitempty" db:"team_id"`
	Score    *int         `json:"score,omitempty" db:"score"`
	Result   *MatchResult `json:"result,omitempty" db:"result"`
}

// Ref возвращает ссылку на участника строки.
func (p MatchParticipant) Ref() ParticipantRef {
	return ParticipantRef{PlayerID: p.PlayerID, TeamID: p.TeamID}
}

// MatchUpdate — перенос матча; результатами владеет финализация счёта.
type MatchUpdate struct {
	RoundName *string    `json:"round_name,omitempty"`
	MatchDate *time.Time `json:"match_date,omitempty"`
	MatchTime *string    `json:"match_time,omitempty"`
	VenueID   *int       `json:"venue_id,omitempty"`
}
