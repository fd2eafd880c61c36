package service

import (
	"errors"
	"testing"

	"github.com/dmaguire/rsvp/internal/model"
)

// Walks the lifecycle end to end: Not Sent, toggle to Pending, RSVP
// Attending, then toggle back clears everything.
func TestInvitationLifecycle(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice@example.com")
	event := f.event(t, u.ID)
	guest := f.guest(t, u.ID, "Alice")
	inv := f.invite(t, u.ID, event.ID, guest.ID)

	if inv.Status != model.StatusNotSent {
		t.Fatalf("status = %q, want %q", inv.Status, model.StatusNotSent)
	}
	if inv.DateInvited != nil || inv.DateResponded != nil {
		t.Fatal("new invitation should have no dates")
	}

	inv, err := f.invitations.ToggleSend(u.ID, inv.ID)
	if err != nil {
		t.Fatalf("toggle send: %v", err)
	}
	if inv.Status != model.StatusPending {
		t.Errorf("status = %q, want %q", inv.Status, model.StatusPending)
	}
	if inv.DateInvited == nil {
		t.Error("date_invited should be set after send")
	}
	if inv.DateResponded != nil {
		t.Error("date_responded should still be unset")
	}

	inv, err = f.invitations.SetStatus(u.ID, inv.ID, model.StatusAttending)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if inv.Status != model.StatusAttending {
		t.Errorf("status = %q, want %q", inv.Status, model.StatusAttending)
	}
	if inv.DateResponded == nil {
		t.Error("date_responded should be set for Attending")
	}
	if inv.DateInvited == nil {
		t.Error("date_invited should survive the RSVP")
	}

	inv, err = f.invitations.ToggleSend(u.ID, inv.ID)
	if err != nil {
		t.Fatalf("toggle send: %v", err)
	}
	if inv.Status != model.StatusNotSent {
		t.Errorf("status = %q, want %q", inv.Status, model.StatusNotSent)
	}
	if inv.DateInvited != nil || inv.DateResponded != nil {
		t.Error("unsending should clear both dates")
	}
}

// Unsending from Attending or Declined always lands on Not Sent: the toggle
// is only an inverse in the Not Sent / Pending cycle.
func TestToggleSendDiscardsRSVP(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice@example.com")
	event := f.event(t, u.ID)

	for _, status := range []string{model.StatusAttending, model.StatusDeclined} {
		guest := f.guest(t, u.ID, "Guest"+status)
		inv := f.invite(t, u.ID, event.ID, guest.ID)

		if _, err := f.invitations.ToggleSend(u.ID, inv.ID); err != nil {
			t.Fatalf("toggle send: %v", err)
		}
		if _, err := f.invitations.SetStatus(u.ID, inv.ID, status); err != nil {
			t.Fatalf("set status %s: %v", status, err)
		}

		got, err := f.invitations.ToggleSend(u.ID, inv.ID)
		if err != nil {
			t.Fatalf("toggle send from %s: %v", status, err)
		}
		if got.Status != model.StatusNotSent {
			t.Errorf("toggle from %s: status = %q, want %q", status, got.Status, model.StatusNotSent)
		}
		if got.DateInvited != nil || got.DateResponded != nil {
			t.Errorf("toggle from %s should clear both dates", status)
		}
	}
}

func TestSetStatusPendingClearsResponded(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice@example.com")
	event := f.event(t, u.ID)
	guest := f.guest(t, u.ID, "Alice")
	inv := f.invite(t, u.ID, event.ID, guest.ID)

	f.invitations.ToggleSend(u.ID, inv.ID)
	f.invitations.SetStatus(u.ID, inv.ID, model.StatusAttending)

	got, err := f.invitations.SetStatus(u.ID, inv.ID, model.StatusPending)
	if err != nil {
		t.Fatalf("set status pending: %v", err)
	}
	if got.DateResponded != nil {
		t.Error("date_responded should be cleared on Pending")
	}
	if got.DateInvited == nil {
		t.Error("date_invited should be untouched")
	}
}

func TestSetStatusRejectsNotSent(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice@example.com")
	event := f.event(t, u.ID)
	guest := f.guest(t, u.ID, "Alice")
	inv := f.invite(t, u.ID, event.ID, guest.ID)

	var verr *ValidationError
	if _, err := f.invitations.SetStatus(u.ID, inv.ID, model.StatusNotSent); !errors.As(err, &verr) {
		t.Errorf("set status Not Sent: got %v, want validation error", err)
	}
	if _, err := f.invitations.SetStatus(u.ID, inv.ID, "Maybe"); !errors.As(err, &verr) {
		t.Errorf("set status Maybe: got %v, want validation error", err)
	}
}

func TestInvitationMutationsTouchEvent(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice@example.com")
	event := f.event(t, u.ID)
	guest := f.guest(t, u.ID, "Alice")

	if event.DateEdited != nil {
		t.Fatal("fresh event should have no edit timestamp")
	}

	inv := f.invite(t, u.ID, event.ID, guest.ID)

	got, _ := f.events.GetOwned(u.ID, event.ID)
	if got.DateEdited == nil {
		t.Error("bulk add should stamp the event")
	}

	if _, err := f.invitations.SetField(u.ID, inv.ID, "channel", "Email"); err != nil {
		t.Fatalf("set channel: %v", err)
	}
	got, _ = f.events.GetOwned(u.ID, event.ID)
	if got.DateEdited == nil {
		t.Error("field update should stamp the event")
	}
}

func TestInvitationSetFieldRejectsUnknown(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice@example.com")
	event := f.event(t, u.ID)
	guest := f.guest(t, u.ID, "Alice")
	inv := f.invite(t, u.ID, event.ID, guest.ID)

	var verr *ValidationError
	if _, err := f.invitations.SetField(u.ID, inv.ID, "status", "Attending"); !errors.As(err, &verr) {
		t.Errorf("set field status: got %v, want validation error", err)
	}
}

func TestInvitationDeleteReturnsEventID(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice@example.com")
	event := f.event(t, u.ID)
	guest := f.guest(t, u.ID, "Alice")
	inv := f.invite(t, u.ID, event.ID, guest.ID)

	eventID, err := f.invitations.Delete(u.ID, inv.ID)
	if err != nil {
		t.Fatalf("delete invitation: %v", err)
	}
	if eventID != event.ID {
		t.Errorf("returned event id = %d, want %d", eventID, event.ID)
	}
	if _, _, err := f.invitations.GetOwned(u.ID, inv.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted invitation: got %v, want ErrNotFound", err)
	}
}

func TestBulkAddSkipsDuplicates(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice@example.com")
	event := f.event(t, u.ID)
	guest := f.guest(t, u.ID, "Alice")
	f.invite(t, u.ID, event.ID, guest.ID)

	added, err := f.invitations.BulkAddGuests(u.ID, event.ID, []int64{guest.ID, guest.ID, guest.ID})
	if err != nil {
		t.Fatalf("bulk add: %v", err)
	}
	if len(added) != 0 {
		t.Errorf("expected empty added list, got %d", len(added))
	}

	invitations, _ := f.invitations.ListByEvent(u.ID, event.ID)
	if len(invitations) != 1 {
		t.Errorf("expected exactly 1 invitation row, got %d", len(invitations))
	}
}

func TestBulkAddSkipsForeignAndMissingGuests(t *testing.T) {
	f := setup(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	event := f.event(t, alice.ID)
	mine := f.guest(t, alice.ID, "Amy")
	theirs := f.guest(t, bob.ID, "Ben")

	added, err := f.invitations.BulkAddGuests(alice.ID, event.ID, []int64{mine.ID, theirs.ID, 9999})
	if err != nil {
		t.Fatalf("bulk add: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("expected 1 added, got %d", len(added))
	}
	if added[0].GuestID != mine.ID {
		t.Errorf("added guest id = %d, want %d", added[0].GuestID, mine.ID)
	}
}

func TestBulkCreateAndInvite(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice@example.com")
	event := f.event(t, u.ID)

	added, err := f.invitations.BulkCreateAndInvite(u.ID, event.ID, []GuestInput{
		{FirstName: "Carol", LastName: "White"},
		{FirstName: "   "},
		{FirstName: "Dan", Gender: "Male"},
	})
	if err != nil {
		t.Fatalf("bulk create and invite: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("expected 2 invitations, got %d", len(added))
	}
	for _, inv := range added {
		if inv.Status != model.StatusNotSent {
			t.Errorf("status = %q, want %q", inv.Status, model.StatusNotSent)
		}
	}

	guests, _ := f.guests.ListAll(u.ID)
	if len(guests) != 2 {
		t.Errorf("expected 2 guests created, got %d", len(guests))
	}
}

func TestAvailableGuestsExcludesInvited(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice@example.com")
	event := f.event(t, u.ID)
	invited := f.guest(t, u.ID, "Amy")
	free := f.guest(t, u.ID, "Zoe")
	f.invite(t, u.ID, event.ID, invited.ID)

	available, err := f.invitations.AvailableGuests(u.ID, event.ID)
	if err != nil {
		t.Fatalf("available guests: %v", err)
	}
	if len(available) != 1 || available[0].ID != free.ID {
		t.Errorf("available = %v, want only guest %d", available, free.ID)
	}
}

func TestInvitationOwnershipGuard(t *testing.T) {
	f := setup(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	event := f.event(t, alice.ID)
	guest := f.guest(t, alice.ID, "Amy")
	inv := f.invite(t, alice.ID, event.ID, guest.ID)

	if _, err := f.invitations.ToggleSend(bob.ID, inv.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("toggle send as non-owner: got %v, want ErrForbidden", err)
	}
	if _, err := f.invitations.SetStatus(bob.ID, inv.ID, model.StatusAttending); !errors.Is(err, ErrForbidden) {
		t.Errorf("set status as non-owner: got %v, want ErrForbidden", err)
	}
	if _, err := f.invitations.Delete(bob.ID, inv.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("delete as non-owner: got %v, want ErrForbidden", err)
	}
	if _, err := f.invitations.ListByEvent(bob.ID, event.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("list as non-owner: got %v, want ErrForbidden", err)
	}
	if _, _, err := f.invitations.GetOwned(alice.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: got %v, want ErrNotFound", err)
	}
}
