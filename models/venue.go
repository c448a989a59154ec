package models

import "time"

type Venue struct {
	ID        int       `json:"venue_id" db:"venue_id"`
	Name      string    `json:"venue_name" db:"venue_name"`
	Location  *string   `json:"location,omitempty" db:"location"`
	Capacity  *int      `json:"capacity,omitempty" db:"capacity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type VenueUpdate struct {
	Name     *string `json:"venue_name,omitempty"`
	Location *string `json:"location,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
}
