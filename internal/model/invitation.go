package model

import "time"

// Invitation statuses. An invitation starts as StatusNotSent; toggling send
// moves it to StatusPending, and an RSVP lands on Attending or Declined.
const (
	StatusNotSent   = "Not Sent"
	StatusPending   = "Pending"
	StatusAttending = "Attending"
	StatusDeclined  = "Declined"
)

// Channels is the suggested set of communication channels. The channel column
// itself is free text.
var Channels = []string{"WhatsApp", "Email", "Call", "Live", "SMS", "Other"}

type Invitation struct {
	ID            int64      `json:"id"`
	EventID       int64      `json:"event_id"`
	GuestID       int64      `json:"guest_id"`
	Status        string     `json:"status"`
	Channel       string     `json:"channel"`
	DateInvited   *time.Time `json:"date_invited"`
	DateResponded *time.Time `json:"date_responded"`
	Notes         string     `json:"notes"`
}
