package handler

import (
	"time"

	"github.com/dmaguire/rsvp/internal/model"
)

// Display format used across the UI and the API alongside the ISO value.
const displayDateLayout = "02 Jan 2006"

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(displayDateLayout)
}

func formatISO(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func serializeEvent(e model.Event, invitations []model.Invitation) map[string]any {
	attending := 0
	for _, inv := range invitations {
		if inv.Status == model.StatusAttending {
			attending++
		}
	}
	return map[string]any{
		"id":               e.ID,
		"name":             e.Name,
		"event_type":       e.EventType,
		"location":         e.Location,
		"date":             e.Date.Format("2006-01-02"),
		"date_created":     e.DateCreated.Format(time.RFC3339),
		"notes":            e.Notes,
		"target_attendees": e.TargetAttendees,
		"invitation_count": len(invitations),
		"attending_count":  attending,
	}
}

func serializeGuest(g model.Guest, invitations []model.Invitation, eventsByID map[int64]model.Event) map[string]any {
	var attending, pending, declined int
	var briefs []map[string]any
	for _, inv := range invitations {
		switch inv.Status {
		case model.StatusAttending:
			attending++
		case model.StatusPending:
			pending++
		case model.StatusDeclined:
			declined++
		}
		if inv.Status != model.StatusNotSent {
			event := eventsByID[inv.EventID]
			briefs = append(briefs, map[string]any{
				"event_name": event.Name,
				"event_date": event.Date.Format("02/01/2006"),
				"status":     inv.Status,
			})
		}
	}
	if briefs == nil {
		briefs = []map[string]any{}
	}

	var dateEdited string
	if g.DateEdited != nil {
		dateEdited = g.DateEdited.Format(time.RFC3339)
	}
	return map[string]any{
		"id":           g.ID,
		"first_name":   g.FirstName,
		"last_name":    g.LastName,
		"gender":       g.Gender,
		"is_me":        g.IsMe,
		"notes":        g.Notes,
		"full_name":    g.FullName(),
		"date_created": g.DateCreated.Format(time.RFC3339),
		"date_edited":  dateEdited,
		"invitation_summary": map[string]int{
			"invited":   attending + pending + declined,
			"attending": attending,
			"pending":   pending,
			"declined":  declined,
		},
		"invitations": briefs,
	}
}

func serializeInvitation(inv model.Invitation, guest *model.Guest) map[string]any {
	return map[string]any{
		"id":                 inv.ID,
		"event_id":           inv.EventID,
		"guest_id":           inv.GuestID,
		"status":             inv.Status,
		"channel":            inv.Channel,
		"notes":              inv.Notes,
		"date_invited":       formatDate(inv.DateInvited),
		"date_invited_iso":   formatISO(inv.DateInvited),
		"date_responded":     formatDate(inv.DateResponded),
		"date_responded_iso": formatISO(inv.DateResponded),
		"guest": map[string]any{
			"id":         guest.ID,
			"first_name": guest.FirstName,
			"last_name":  guest.LastName,
			"gender":     guest.Gender,
			"full_name":  guest.FullName(),
		},
	}
}

// serializeInvitationBrief inlines the guest fields, for list and bulk
// responses.
func serializeInvitationBrief(inv model.Invitation, guest *model.Guest) map[string]any {
	return map[string]any{
		"invitation_id":      inv.ID,
		"guest_id":           inv.GuestID,
		"first_name":         guest.FirstName,
		"last_name":          guest.LastName,
		"gender":             guest.Gender,
		"status":             inv.Status,
		"channel":            inv.Channel,
		"notes":              inv.Notes,
		"date_invited":       formatDate(inv.DateInvited),
		"date_invited_iso":   formatISO(inv.DateInvited),
		"date_responded":     formatDate(inv.DateResponded),
		"date_responded_iso": formatISO(inv.DateResponded),
	}
}
