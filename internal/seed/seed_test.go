package seed

import (
	"testing"

	"github.com/dmaguire/rsvp/internal/database"
	"github.com/dmaguire/rsvp/internal/store"
)

func setup(t *testing.T) (*Seeder, *store.EventStore, *store.GuestStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	es := store.NewEventStore(db)
	gs := store.NewGuestStore(db)
	is := store.NewInvitationStore(db)
	us := store.NewUserStore(db)

	u, err := us.Create("alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return New(es, gs, is), es, gs, u.ID
}

func TestLoad(t *testing.T) {
	seeder, es, gs, userID := setup(t)

	if err := seeder.Load(userID); err != nil {
		t.Fatalf("load: %v", err)
	}

	events, err := es.ListByUser(userID, 0, 0)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != len(sampleEvents) {
		t.Errorf("events = %d, want %d", len(events), len(sampleEvents))
	}

	guests, err := gs.ListByUser(userID, 0, 0)
	if err != nil {
		t.Fatalf("list guests: %v", err)
	}
	if len(guests) != len(sampleGuests) {
		t.Errorf("guests = %d, want %d", len(guests), len(sampleGuests))
	}
}

func TestResetIsIdempotent(t *testing.T) {
	seeder, es, gs, userID := setup(t)

	if err := seeder.Load(userID); err != nil {
		t.Fatalf("load: %v", err)
	}
	// Loading twice duplicates; reset restores the baseline.
	if err := seeder.Load(userID); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if err := seeder.Reset(userID); err != nil {
		t.Fatalf("reset: %v", err)
	}

	events, _ := es.ListByUser(userID, 0, 0)
	if len(events) != len(sampleEvents) {
		t.Errorf("events after reset = %d, want %d", len(events), len(sampleEvents))
	}
	guests, _ := gs.ListByUser(userID, 0, 0)
	if len(guests) != len(sampleGuests) {
		t.Errorf("guests after reset = %d, want %d", len(guests), len(sampleGuests))
	}
}
