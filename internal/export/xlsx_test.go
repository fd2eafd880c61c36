package export

import (
	"testing"
	"time"

	"github.com/dmaguire/rsvp/internal/model"
)

func TestEventsWorkbook(t *testing.T) {
	date := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	target := int64(20)
	f, err := EventsWorkbook([]EventSummary{
		{
			Event: model.Event{
				Name: "Summer Party", EventType: "Party", Location: "Garden",
				Date: date, Notes: "bring sunscreen", TargetAttendees: &target,
			},
			Invited:   12,
			Attending: 7,
		},
	})
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Events")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][4] != "Invited" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	got := rows[1]
	if got[0] != "Summer Party" || got[1] != "Party" {
		t.Errorf("unexpected data row: %v", got)
	}
	if got[2] != "15 Jun 2026" {
		t.Errorf("date = %q, want 15 Jun 2026", got[2])
	}
	if got[4] != "12" || got[5] != "7" {
		t.Errorf("counts = %q/%q, want 12/7", got[4], got[5])
	}
}

func TestGuestsWorkbook(t *testing.T) {
	f, err := GuestsWorkbook([]model.Guest{
		{FirstName: "Alice", LastName: "Smith", Gender: "Female", Notes: "vegetarian"},
		{FirstName: "Bob", Gender: "Male"},
	})
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Guests")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "Smith" || rows[1][1] != "Alice" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
}

func TestEventGuestsWorkbook(t *testing.T) {
	invited := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	responded := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	event := &model.Event{Name: "Hunt: Autumn/Winter?"}

	f, err := EventGuestsWorkbook(event, []EventGuestRow{
		{
			Guest: model.Guest{FirstName: "Alice", LastName: "Smith", Gender: "Female", Notes: "gn"},
			Invitation: model.Invitation{
				Status: model.StatusAttending, Channel: "Email",
				DateInvited: &invited, DateResponded: &responded, Notes: "in",
			},
		},
		{
			Guest:      model.Guest{FirstName: "Bob", Gender: "Male"},
			Invitation: model.Invitation{Status: model.StatusNotSent},
		},
	})
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	// Sheet name has the forbidden characters stripped.
	sheet := SanitizeSheetName(event.Name)
	if sheet != "Hunt AutumnWinter" {
		t.Fatalf("sheet name = %q", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	alice := rows[1]
	if alice[3] != "Yes" {
		t.Errorf("sent = %q, want Yes", alice[3])
	}
	if alice[5] != "01 Mar 2026" || alice[7] != "05 Mar 2026" {
		t.Errorf("dates = %q/%q", alice[5], alice[7])
	}

	bob := rows[2]
	if bob[3] != "No" {
		t.Errorf("sent = %q, want No", bob[3])
	}
	// Not Sent rows have no dates.
	if len(bob) > 5 && bob[5] != "" {
		t.Errorf("invited-on should be empty, got %q", bob[5])
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"Summer Party":      "Summer_Party",
		"a/b\\c:d":          "abcd",
		"   ":               "export",
		"  Summer Party  ":  "Summer_Party",
		"Event-2026_final!": "Event-2026_final",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeSheetName(t *testing.T) {
	long := SanitizeSheetName("This event name is far longer than thirty-one characters")
	if len(long) != 31 {
		t.Errorf("length = %d, want 31", len(long))
	}
	if SanitizeSheetName("???") != "Sheet1" {
		t.Error("all-invalid name should fall back to Sheet1")
	}
}
