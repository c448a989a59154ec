package models

import "time"

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
	SkillProfessional SkillLevel = "Professional"
)

type Player struct {
	ID          int        `json:"player_id" db:"player_id"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	Email       string     `json:"email" db:"email"`
	Phone       *string    `json:"phone,omitempty" db:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender      *string    `json:"gender,omitempty" db:"gender"`
	SkillLevel  SkillLevel `json:"skill_level" db:"skill_level"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	LogoKey     *string    `json:"-" db:"logo_key"`
	LogoURL     *string    `json:"logo_url,omitempty" db:"-"`
}

type PlayerUpdate struct {
	FirstName   *string     `json:"first_name,omitempty"`
	LastName    *string     `json:"last_name,omitempty"`
	Email       *string     `json:"email,omitempty"`
	Phone       *string     `json:"phone,omitempty"`
	DateOfBirth *time.Time  `json:"date_of_birth,omitempty"`
	Gender      *string     `json:"gender,omitempty"`
	SkillLevel  *SkillLevel `json:"skill_level,omitempty"`
}
