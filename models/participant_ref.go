package models

// ParticipantRef указывает на участника — игрока или команду, ровно одного.
type ParticipantRef struct {
	PlayerID *int
	TeamID   *int
}

func PlayerRef(playerID int) ParticipantRef {
	return ParticipantRef{PlayerID: &playerID}
}

func TeamRef(teamID int) ParticipantRef {
	return ParticipantRef{TeamID: &teamID}
}

// IsTeam сообщает, ссылается ли ref на команду.
func (r ParticipantRef) IsTeam() bool {
	return r.TeamID != nil
}

// Valid проверяет, что заполнена ровно одна из двух сторон.
func (r ParticipantRef) Valid() bool {
	return (r.PlayerID != nil) != (r.TeamID != nil)
}

// ID возвращает идентификатор участника независимо от его вида.
func (r ParticipantRef) ID() int {
	if r.TeamID != nil {
		return *r.TeamID
	}
	if r.PlayerID != nil {
		return *r.PlayerID
	}
	return 0
}

// Matches сравнивает ref с парой колонок player_id/team_id строки БД.
func (r ParticipantRef) Matches(playerID, teamID *int) bool {
	if r.PlayerID != nil {
		return playerID != nil && *playerID == *r.PlayerID
	}
	if r.TeamID != nil {
		return teamID != nil && *teamID == *r.TeamID
	}
	return false
}
