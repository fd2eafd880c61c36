// Package export builds the XLSX downloads for events, guests, and one
// event's guest list.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dmaguire/rsvp/internal/model"
)

const dateLayout = "02 Jan 2006"

// EventSummary is one export row for the events workbook: the event plus its
// invitation tallies.
type EventSummary struct {
	Event     model.Event
	Invited   int
	Attending int
}

// EventGuestRow is one export row for a single event's guest list.
type EventGuestRow struct {
	Guest      model.Guest
	Invitation model.Invitation
}

// SanitizeSheetName strips the characters Excel forbids in sheet names and
// clamps to the 31-character limit.
func SanitizeSheetName(name string) string {
	replacer := strings.NewReplacer(":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "")
	name = strings.TrimSpace(replacer.Replace(name))
	if name == "" {
		name = "Sheet1"
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// SanitizeFileName reduces a user-supplied name to a safe download filename.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "export"
	}
	return b.String()
}

func newWorkbook(sheetName string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("delete default sheet: %w", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", endCell, style); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	endCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(sheetName, "A", endCol, 18); err != nil {
		return nil, fmt.Errorf("set column widths: %w", err)
	}
	return f, nil
}

// EventsWorkbook lists every event with its invitation tallies.
func EventsWorkbook(summaries []EventSummary) (*excelize.File, error) {
	const sheet = "Events"
	f, err := newWorkbook(sheet, []string{"Name", "Type", "Date", "Location", "Invited", "Attending", "Notes"})
	if err != nil {
		return nil, err
	}

	for i, s := range summaries {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.Event.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.Event.EventType)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), s.Event.Date.Format(dateLayout))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), s.Event.Location)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), s.Invited)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), s.Attending)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), s.Event.Notes)
	}
	return f, nil
}

// GuestsWorkbook lists the full address book.
func GuestsWorkbook(guests []model.Guest) (*excelize.File, error) {
	const sheet = "Guests"
	f, err := newWorkbook(sheet, []string{"Last Name", "First Name", "Gender", "Notes"})
	if err != nil {
		return nil, err
	}

	for i, g := range guests {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), g.LastName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), g.FirstName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), g.Gender)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), g.Notes)
	}
	return f, nil
}

// EventGuestsWorkbook lists one event's invitations with per-guest detail.
// The sheet is named after the event.
func EventGuestsWorkbook(event *model.Event, rows []EventGuestRow) (*excelize.File, error) {
	sheet := SanitizeSheetName(event.Name)
	f, err := newWorkbook(sheet, []string{
		"Last Name", "First Name", "Gender", "Sent", "Channel",
		"Invited On", "Status", "Responded On", "Invitation Notes", "Guest Notes",
	})
	if err != nil {
		return nil, err
	}

	for i, r := range rows {
		row := i + 2
		sent := "No"
		if r.Invitation.Status != model.StatusNotSent {
			sent = "Yes"
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Guest.LastName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Guest.FirstName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Guest.Gender)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), sent)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Invitation.Channel)
		if r.Invitation.DateInvited != nil {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.Invitation.DateInvited.Format(dateLayout))
		}
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.Invitation.Status)
		if r.Invitation.DateResponded != nil {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.Invitation.DateResponded.Format(dateLayout))
		}
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), r.Invitation.Notes)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), r.Guest.Notes)
	}
	return f, nil
}
