package store

import (
	"testing"
	"time"
)

func TestGuestCRUD(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	gs := NewGuestStore(db)

	u := createTestUser(t, us, "alice@example.com")

	// Create
	guest, err := gs.Create(u.ID, "Bob", "Jones", "Male", false, "likes fish")
	if err != nil {
		t.Fatalf("create guest: %v", err)
	}
	if guest.FirstName != "Bob" {
		t.Errorf("first_name = %q, want %q", guest.FirstName, "Bob")
	}
	if guest.IsMe {
		t.Error("is_me should be false")
	}
	if guest.FullName() != "Bob Jones" {
		t.Errorf("full name = %q, want %q", guest.FullName(), "Bob Jones")
	}

	// Get
	got, err := gs.GetByID(guest.ID)
	if err != nil {
		t.Fatalf("get guest: %v", err)
	}
	if got.Notes != "likes fish" {
		t.Errorf("notes = %q, want %q", got.Notes, "likes fish")
	}

	// Update
	updated, err := gs.Update(guest.ID, "Robert", "Jones", "Male", false, "")
	if err != nil {
		t.Fatalf("update guest: %v", err)
	}
	if updated.FirstName != "Robert" {
		t.Errorf("updated first_name = %q, want %q", updated.FirstName, "Robert")
	}
	if updated.DateEdited == nil {
		t.Error("date_edited should be set after update")
	}

	// Delete
	if err := gs.Delete(guest.ID); err != nil {
		t.Fatalf("delete guest: %v", err)
	}
	got, _ = gs.GetByID(guest.ID)
	if got != nil {
		t.Error("expected nil for deleted guest")
	}
}

func TestGuestFullNameNoLastName(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	gs := NewGuestStore(db)

	u := createTestUser(t, us, "alice@example.com")
	guest, _ := gs.Create(u.ID, "Cher", "", "Female", false, "")
	if guest.FullName() != "Cher" {
		t.Errorf("full name = %q, want %q", guest.FullName(), "Cher")
	}
}

func TestGuestListByUserOrdering(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	gs := NewGuestStore(db)

	u := createTestUser(t, us, "alice@example.com")
	gs.Create(u.ID, "Zed", "Adams", "Male", false, "")
	gs.Create(u.ID, "Amy", "Brown", "Female", false, "")

	guests, err := gs.ListByUser(u.ID, 0, 0)
	if err != nil {
		t.Fatalf("list guests: %v", err)
	}
	if len(guests) != 2 {
		t.Fatalf("expected 2 guests, got %d", len(guests))
	}
	// Ordered by last name first
	if guests[0].LastName != "Adams" {
		t.Errorf("first guest last name = %q, want %q", guests[0].LastName, "Adams")
	}

	byFirst, err := gs.ListByUserByFirstName(u.ID)
	if err != nil {
		t.Fatalf("list by first name: %v", err)
	}
	if byFirst[0].FirstName != "Amy" {
		t.Errorf("first by first-name = %q, want %q", byFirst[0].FirstName, "Amy")
	}
}

func TestGuestIsMe(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	gs := NewGuestStore(db)

	u := createTestUser(t, us, "alice@example.com")

	me, _ := gs.Create(u.ID, "Alice", "", "Female", true, "")

	got, err := gs.GetMe(u.ID)
	if err != nil {
		t.Fatalf("get me: %v", err)
	}
	if got == nil || got.ID != me.ID {
		t.Fatalf("get me = %v, want id %d", got, me.ID)
	}

	if err := gs.ClearIsMe(u.ID); err != nil {
		t.Fatalf("clear is_me: %v", err)
	}
	got, _ = gs.GetMe(u.ID)
	if got != nil {
		t.Error("expected nil after clearing is_me")
	}
}

func TestGuestFieldUpdates(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	gs := NewGuestStore(db)

	u := createTestUser(t, us, "alice@example.com")
	guest, _ := gs.Create(u.ID, "Bob", "Jones", "Male", false, "")

	if err := gs.UpdateName(guest.ID, "Rob", "Johnson"); err != nil {
		t.Fatalf("update name: %v", err)
	}
	if err := gs.UpdateGender(guest.ID, "Female"); err != nil {
		t.Fatalf("update gender: %v", err)
	}
	if err := gs.UpdateNotes(guest.ID, "new notes"); err != nil {
		t.Fatalf("update notes: %v", err)
	}
	if err := gs.UpdateIsMe(guest.ID, true); err != nil {
		t.Fatalf("update is_me: %v", err)
	}

	got, _ := gs.GetByID(guest.ID)
	if got.FirstName != "Rob" || got.LastName != "Johnson" {
		t.Errorf("name = %q %q, want Rob Johnson", got.FirstName, got.LastName)
	}
	if got.Gender != "Female" {
		t.Errorf("gender = %q, want Female", got.Gender)
	}
	if got.Notes != "new notes" {
		t.Errorf("notes = %q, want %q", got.Notes, "new notes")
	}
	if !got.IsMe {
		t.Error("is_me should be true")
	}
	if got.DateEdited == nil {
		t.Error("date_edited should be set")
	}
}

func TestGuestDeleteCascadesInvitations(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	es := NewEventStore(db)
	gs := NewGuestStore(db)
	is := NewInvitationStore(db)

	u := createTestUser(t, us, "alice@example.com")
	event, _ := es.Create(u.ID, "Dinner", "Dinner", "", time.Now(), "", nil)
	guest, _ := gs.Create(u.ID, "Bob", "", "Male", false, "")
	is.Create(event.ID, guest.ID, "Not Sent", nil, nil)

	if err := gs.Delete(guest.ID); err != nil {
		t.Fatalf("delete guest: %v", err)
	}

	invitations, _ := is.ListByEvent(event.ID)
	if len(invitations) != 0 {
		t.Errorf("expected 0 invitations after cascade, got %d", len(invitations))
	}
}
