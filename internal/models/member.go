package models

import "time"

// Member is a device that joined a room. Its ID lives in the member_id cookie.
type Member struct {
	ID     string
	Joined time.Time
}
