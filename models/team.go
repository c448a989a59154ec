package models

import "time"

type Team struct {
	ID        int       `json:"team_id" db:"team_id"`
	Name      string    `json:"team_name" db:"team_name"`
	CaptainID int       `json:"captain_id" db:"captain_id"`
	EventID   *int      `json:"event_id,omitempty" db:"event_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	LogoKey   *string   `json:"-" db:"logo_key"`
	LogoURL   *string   `json:"logo_url,omitempty" db:"-"`

	Members []TeamMember `json:"members,omitempty" db:"-"`
}

// TeamMember — членство игрока в команде. Капитан всегда присутствует в
// составе с ролью Captain.
type TeamMember struct {
	ID       int       `json:"team_member_id" db:"team_member_id"`
	TeamID   int       `json:"team_id" db:"team_id"`
	PlayerID int       `json:"player_id" db:"player_id"`
	Role     string    `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}

const (
	TeamRoleCaptain = "Captain"
	TeamRoleMember  = "Member"
)

type TeamUpdate struct {
	Name      *string `json:"team_name,omitempty"`
	CaptainID *int    `json:"captain_id,omitempty"`
}
