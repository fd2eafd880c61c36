package service

import (
	"database/sql"
	"testing"

	"github.com/dmaguire/rsvp/internal/database"
	"github.com/dmaguire/rsvp/internal/model"
	"github.com/dmaguire/rsvp/internal/store"
)

type fixture struct {
	db          *sql.DB
	users       *store.UserStore
	events      *EventService
	guests      *GuestService
	invitations *InvitationService
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	es := store.NewEventStore(db)
	gs := store.NewGuestStore(db)
	is := store.NewInvitationStore(db)

	return &fixture{
		db:          db,
		users:       store.NewUserStore(db),
		events:      NewEventService(es, gs, is),
		guests:      NewGuestService(gs),
		invitations: NewInvitationService(is, es, gs),
	}
}

func (f *fixture) user(t *testing.T, email string) *model.User {
	t.Helper()
	u, err := f.users.Create(email, "hash")
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func (f *fixture) event(t *testing.T, userID int64) *model.Event {
	t.Helper()
	e, err := f.events.Create(userID, EventInput{
		Name:      "Test Event",
		EventType: "Dinner",
		Date:      "2026-06-15",
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

func (f *fixture) guest(t *testing.T, userID int64, first string) *model.Guest {
	t.Helper()
	g, err := f.guests.Create(userID, GuestInput{
		FirstName: first,
		LastName:  "Smith",
		Gender:    "Female",
	})
	if err != nil {
		t.Fatalf("create guest %s: %v", first, err)
	}
	return g
}

func (f *fixture) invite(t *testing.T, userID, eventID int64, guestID int64) *model.Invitation {
	t.Helper()
	added, err := f.invitations.BulkAddGuests(userID, eventID, []int64{guestID})
	if err != nil {
		t.Fatalf("invite guest: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("expected 1 invitation, got %d", len(added))
	}
	return &added[0]
}
