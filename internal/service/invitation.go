package service

import (
	"strings"
	"time"

	"github.com/dmaguire/rsvp/internal/model"
	"github.com/dmaguire/rsvp/internal/store"
)

type InvitationService struct {
	invitations *store.InvitationStore
	events      *store.EventStore
	guests      *store.GuestStore
}

func NewInvitationService(invitations *store.InvitationStore, events *store.EventStore, guests *store.GuestStore) *InvitationService {
	return &InvitationService{invitations: invitations, events: events, guests: guests}
}

// GetOwned resolves the invitation and checks ownership through its parent
// event. Both are returned since every mutation stamps the event afterwards.
func (s *InvitationService) GetOwned(userID, invitationID int64) (*model.Invitation, *model.Event, error) {
	inv, err := s.invitations.GetByID(invitationID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, ErrNotFound
	}
	event, err := s.events.GetByID(inv.EventID)
	if err != nil {
		return nil, nil, err
	}
	if event == nil {
		return nil, nil, ErrNotFound
	}
	if event.UserID != userID {
		return nil, nil, ErrForbidden
	}
	return inv, event, nil
}

// ToggleSend flips the send state. Not Sent becomes Pending with the invited
// date stamped today; any other status reverts to Not Sent with both dates
// cleared, so unsending an Attending invitation discards its RSVP.
func (s *InvitationService) ToggleSend(userID, invitationID int64) (*model.Invitation, error) {
	inv, event, err := s.GetOwned(userID, invitationID)
	if err != nil {
		return nil, err
	}

	var updated *model.Invitation
	if inv.Status == model.StatusNotSent {
		now := today()
		updated, err = s.invitations.UpdateStatus(inv.ID, model.StatusPending, &now, nil)
	} else {
		updated, err = s.invitations.UpdateStatus(inv.ID, model.StatusNotSent, nil, nil)
	}
	if err != nil {
		return nil, err
	}
	if err := s.events.TouchEdited(event.ID); err != nil {
		return nil, err
	}
	return updated, nil
}

// SetStatus records an RSVP. Only Attending, Pending and Declined are
// reachable here; Not Sent is the toggle's business. The invited date is
// never touched, the responded date is derived from the new status.
func (s *InvitationService) SetStatus(userID, invitationID int64, status string) (*model.Invitation, error) {
	if status != model.StatusAttending && status != model.StatusPending && status != model.StatusDeclined {
		return nil, validationf("Invalid status: %s", status)
	}

	inv, event, err := s.GetOwned(userID, invitationID)
	if err != nil {
		return nil, err
	}

	var responded *time.Time
	if status == model.StatusAttending || status == model.StatusDeclined {
		now := today()
		responded = &now
	}
	updated, err := s.invitations.UpdateStatus(inv.ID, status, inv.DateInvited, responded)
	if err != nil {
		return nil, err
	}
	if err := s.events.TouchEdited(event.ID); err != nil {
		return nil, err
	}
	return updated, nil
}

// SetField updates one of the two free-text columns, channel or notes.
func (s *InvitationService) SetField(userID, invitationID int64, field, value string) (*model.Invitation, error) {
	inv, event, err := s.GetOwned(userID, invitationID)
	if err != nil {
		return nil, err
	}

	switch field {
	case "channel":
		err = s.invitations.UpdateChannel(inv.ID, value)
	case "notes":
		err = s.invitations.UpdateNotes(inv.ID, value)
	default:
		return nil, validationf("Invalid field: %s", field)
	}
	if err != nil {
		return nil, err
	}
	if err := s.events.TouchEdited(event.ID); err != nil {
		return nil, err
	}
	return s.invitations.GetByID(inv.ID)
}

// Delete removes the invitation and returns the parent event id so the
// caller can redirect back to the event page.
func (s *InvitationService) Delete(userID, invitationID int64) (int64, error) {
	inv, event, err := s.GetOwned(userID, invitationID)
	if err != nil {
		return 0, err
	}
	if err := s.invitations.Delete(inv.ID); err != nil {
		return 0, err
	}
	if err := s.events.TouchEdited(event.ID); err != nil {
		return 0, err
	}
	return event.ID, nil
}

// ListByEvent returns the event's invitations after an ownership check.
func (s *InvitationService) ListByEvent(userID, eventID int64) ([]model.Invitation, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	if event.UserID != userID {
		return nil, ErrForbidden
	}
	return s.invitations.ListByEvent(eventID)
}

// AvailableGuests lists the user's guests not yet invited to the event,
// ordered by first name for the picker.
func (s *InvitationService) AvailableGuests(userID, eventID int64) ([]model.Guest, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	if event.UserID != userID {
		return nil, ErrForbidden
	}

	invitations, err := s.invitations.ListByEvent(eventID)
	if err != nil {
		return nil, err
	}
	invited := make(map[int64]bool, len(invitations))
	for _, inv := range invitations {
		invited[inv.GuestID] = true
	}

	all, err := s.guests.ListByUserByFirstName(userID)
	if err != nil {
		return nil, err
	}
	var available []model.Guest
	for _, g := range all {
		if !invited[g.ID] {
			available = append(available, g)
		}
	}
	return available, nil
}

// BulkAddGuests invites existing guests to the event. Ids that are already
// invited, missing, or owned by someone else are skipped. The event is
// stamped only when at least one invitation was added.
func (s *InvitationService) BulkAddGuests(userID, eventID int64, guestIDs []int64) ([]model.Invitation, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	if event.UserID != userID {
		return nil, ErrForbidden
	}

	var added []model.Invitation
	for _, guestID := range guestIDs {
		guest, err := s.guests.GetByID(guestID)
		if err != nil {
			return added, err
		}
		if guest == nil || guest.UserID != userID {
			continue
		}
		existing, err := s.invitations.GetByEventAndGuest(eventID, guestID)
		if err != nil {
			return added, err
		}
		if existing != nil {
			continue
		}
		inv, err := s.invitations.Create(eventID, guestID, model.StatusNotSent, nil, nil)
		if err != nil {
			return added, err
		}
		added = append(added, *inv)
	}

	if len(added) > 0 {
		if err := s.events.TouchEdited(eventID); err != nil {
			return added, err
		}
	}
	return added, nil
}

// BulkCreateAndInvite creates new guests and invites each to the event in one
// pass. Entries with an empty first name are skipped, gender defaults to
// Male.
func (s *InvitationService) BulkCreateAndInvite(userID, eventID int64, entries []GuestInput) ([]model.Invitation, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	if event.UserID != userID {
		return nil, ErrForbidden
	}

	var added []model.Invitation
	for _, in := range entries {
		first := strings.TrimSpace(in.FirstName)
		if first == "" {
			continue
		}
		gender := in.Gender
		if gender == "" {
			gender = "Male"
		}
		guest, err := s.guests.Create(userID, first, truncateLastName(in.LastName), gender, false, in.Notes)
		if err != nil {
			return added, err
		}
		inv, err := s.invitations.Create(eventID, guest.ID, model.StatusNotSent, nil, nil)
		if err != nil {
			return added, err
		}
		added = append(added, *inv)
	}

	if len(added) > 0 {
		if err := s.events.TouchEdited(eventID); err != nil {
			return added, err
		}
	}
	return added, nil
}
