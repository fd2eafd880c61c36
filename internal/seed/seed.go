// Package seed loads the demo dataset behind the settings page, so a new
// account has something to click around in.
package seed

import (
	"fmt"
	"time"

	"github.com/dmaguire/rsvp/internal/model"
	"github.com/dmaguire/rsvp/internal/store"
)

type Seeder struct {
	events      *store.EventStore
	guests      *store.GuestStore
	invitations *store.InvitationStore
}

func New(events *store.EventStore, guests *store.GuestStore, invitations *store.InvitationStore) *Seeder {
	return &Seeder{events: events, guests: guests, invitations: invitations}
}

type sampleGuest struct {
	first, last, gender, notes string
}

var sampleGuests = []sampleGuest{
	{"Alice", "Smith", "Female", "vegetarian"},
	{"Bob", "Jones", "Male", ""},
	{"Carol", "White", "Female", "plus one likely"},
	{"Dan", "Brown", "Male", "allergic to nuts"},
	{"Eve", "Taylor", "Female", ""},
	{"Frank", "Wilson", "Male", "prefers WhatsApp"},
}

type sampleEvent struct {
	name, eventType, location, notes string
	daysAhead                        int
	target                           int64
}

var sampleEvents = []sampleEvent{
	{"Summer Dinner", "Dinner", "Home", "menu TBD", 30, 8},
	{"Garden Party", "Party", "Back garden", "", 60, 25},
	{"Autumn Hunt", "Hunt", "North woods", "early start", 90, 0},
}

// Load inserts the sample events, guests, and a spread of invitations in
// different states. Calling it twice duplicates the data; Reset exists for
// that.
func (s *Seeder) Load(userID int64) error {
	var guests []*model.Guest
	for _, sg := range sampleGuests {
		g, err := s.guests.Create(userID, sg.first, sg.last, sg.gender, false, sg.notes)
		if err != nil {
			return fmt.Errorf("seed guest %s: %w", sg.first, err)
		}
		guests = append(guests, g)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i, se := range sampleEvents {
		var target *int64
		if se.target > 0 {
			t := se.target
			target = &t
		}
		event, err := s.events.Create(userID, se.name, se.eventType, se.location,
			today.AddDate(0, 0, se.daysAhead), se.notes, target)
		if err != nil {
			return fmt.Errorf("seed event %s: %w", se.name, err)
		}

		// Invite a different slice of guests to each event, cycling through
		// the four statuses for variety.
		for j, g := range guests {
			if (i+j)%2 == 0 {
				continue
			}
			status, invited, responded := sampleState(j)
			if _, err := s.invitations.Create(event.ID, g.ID, status, invited, responded); err != nil {
				return fmt.Errorf("seed invitation: %w", err)
			}
		}
	}
	return nil
}

func sampleState(n int) (string, *time.Time, *time.Time) {
	invited := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -7)
	responded := invited.AddDate(0, 0, 3)
	switch n % 4 {
	case 0:
		return model.StatusNotSent, nil, nil
	case 1:
		return model.StatusPending, &invited, nil
	case 2:
		return model.StatusAttending, &invited, &responded
	default:
		return model.StatusDeclined, &invited, &responded
	}
}

// Reset wipes the user's events, guests, and invitations, then reloads the
// sample data.
func (s *Seeder) Reset(userID int64) error {
	if err := s.invitations.DeleteByUser(userID); err != nil {
		return err
	}
	if err := s.events.DeleteByUser(userID); err != nil {
		return err
	}
	if err := s.guests.DeleteByUser(userID); err != nil {
		return err
	}
	return s.Load(userID)
}
