package model

import "time"

// EventTypes is the fixed set of accepted event types.
var EventTypes = []string{"Dinner", "Party", "Weekend", "Hunt", "Corporate", "Other"}

func ValidEventType(t string) bool {
	for _, et := range EventTypes {
		if t == et {
			return true
		}
	}
	return false
}

type Event struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	Name            string     `json:"name"`
	EventType       string     `json:"event_type"`
	Location        string     `json:"location"`
	Date            time.Time  `json:"date"`
	DateCreated     time.Time  `json:"date_created"`
	DateEdited      *time.Time `json:"date_edited"`
	Notes           string     `json:"notes"`
	TargetAttendees *int64     `json:"target_attendees"`
}
