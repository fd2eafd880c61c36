package store

import (
	"testing"
	"time"
)

func TestEventCRUD(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	es := NewEventStore(db)

	u := createTestUser(t, us, "alice@example.com")
	date := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	// Create
	event, err := es.Create(u.ID, "Summer Party", "Party", "The Garden", date, "bring drinks", nil)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if event.Name != "Summer Party" {
		t.Errorf("name = %q, want %q", event.Name, "Summer Party")
	}
	if event.EventType != "Party" {
		t.Errorf("event_type = %q, want %q", event.EventType, "Party")
	}
	if !event.Date.Equal(date) {
		t.Errorf("date = %v, want %v", event.Date, date)
	}
	if event.DateEdited != nil {
		t.Error("date_edited should be nil on create")
	}
	if event.TargetAttendees != nil {
		t.Errorf("target_attendees should be nil, got %d", *event.TargetAttendees)
	}

	// Get
	got, err := es.GetByID(event.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.Name != "Summer Party" {
		t.Errorf("got name = %q, want %q", got.Name, "Summer Party")
	}

	// Update
	target := int64(25)
	updated, err := es.Update(event.ID, "Summer Bash", "Party", "The Garden", date, "bring drinks", &target)
	if err != nil {
		t.Fatalf("update event: %v", err)
	}
	if updated.Name != "Summer Bash" {
		t.Errorf("updated name = %q, want %q", updated.Name, "Summer Bash")
	}
	if updated.TargetAttendees == nil || *updated.TargetAttendees != 25 {
		t.Errorf("target_attendees = %v, want 25", updated.TargetAttendees)
	}
	if updated.DateEdited == nil {
		t.Error("date_edited should be set after update")
	}

	// Delete
	if err := es.Delete(event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	got, err = es.GetByID(event.ID)
	if err != nil {
		t.Fatalf("get deleted event: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted event")
	}
}

func TestEventGetByIDNotFound(t *testing.T) {
	es := NewEventStore(setupTestDB(t))

	got, err := es.GetByID(9999)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got != nil {
		t.Error("expected nil for nonexistent event")
	}
}

func TestEventListByUserOrderedByDate(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	es := NewEventStore(db)

	u := createTestUser(t, us, "alice@example.com")
	other := createTestUser(t, us, "bob@example.com")

	later := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	es.Create(u.ID, "Later", "Other", "", later, "", nil)
	es.Create(u.ID, "Earlier", "Other", "", earlier, "", nil)
	es.Create(other.ID, "Not mine", "Other", "", earlier, "", nil)

	events, err := es.ListByUser(u.ID, 0, 0)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Name != "Earlier" {
		t.Errorf("first event = %q, want %q", events[0].Name, "Earlier")
	}

	n, err := es.CountByUser(u.ID)
	if err != nil {
		t.Fatalf("count events: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestEventListPagination(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	es := NewEventStore(db)

	u := createTestUser(t, us, "alice@example.com")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		es.Create(u.ID, "Event", "Other", "", base.AddDate(0, 0, i), "", nil)
	}

	page, err := es.ListByUser(u.ID, 2, 2)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 events on page, got %d", len(page))
	}
	if !page[0].Date.Equal(base.AddDate(0, 0, 2)) {
		t.Errorf("first on page = %v, want %v", page[0].Date, base.AddDate(0, 0, 2))
	}
}

func TestEventTouchEdited(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	es := NewEventStore(db)

	u := createTestUser(t, us, "alice@example.com")
	event, _ := es.Create(u.ID, "Dinner", "Dinner", "", time.Now(), "", nil)

	if err := es.TouchEdited(event.ID); err != nil {
		t.Fatalf("touch event: %v", err)
	}
	got, _ := es.GetByID(event.ID)
	if got.DateEdited == nil {
		t.Error("date_edited should be set after touch")
	}
}

func TestEventDeleteCascadesInvitations(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	es := NewEventStore(db)
	gs := NewGuestStore(db)
	is := NewInvitationStore(db)

	u := createTestUser(t, us, "alice@example.com")
	event, _ := es.Create(u.ID, "Dinner", "Dinner", "", time.Now(), "", nil)
	guest, _ := gs.Create(u.ID, "Bob", "", "Male", false, "")
	is.Create(event.ID, guest.ID, "Not Sent", nil, nil)

	if err := es.Delete(event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	invitations, _ := is.ListByEvent(event.ID)
	if len(invitations) != 0 {
		t.Errorf("expected 0 invitations after cascade, got %d", len(invitations))
	}
}
