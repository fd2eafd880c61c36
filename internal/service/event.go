package service

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmaguire/rsvp/internal/model"
	"github.com/dmaguire/rsvp/internal/store"
)

// EventsPerPage is the page size for event listings.
const EventsPerPage = 20

type EventService struct {
	events      *store.EventStore
	guests      *store.GuestStore
	invitations *store.InvitationStore
}

func NewEventService(events *store.EventStore, guests *store.GuestStore, invitations *store.InvitationStore) *EventService {
	return &EventService{events: events, guests: guests, invitations: invitations}
}

// EventInput carries the raw form or JSON fields of an event create/update.
// Date is a calendar date string; TargetAttendees is kept raw so the
// normalization rule below can treat "0" and garbage alike.
type EventInput struct {
	Name            string
	EventType       string
	Location        string
	Date            string
	Notes           string
	TargetAttendees string
	IncludeMe       bool
}

const eventDateLayout = "2006-01-02"

// normalizeTarget parses the raw target-attendee value. Non-positive or
// unparsable values mean absent, never an error.
func normalizeTarget(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// truncateLocation caps the free-text location at 200 characters.
func truncateLocation(location string) string {
	location = strings.TrimSpace(location)
	if utf8.RuneCountInString(location) > 200 {
		return string([]rune(location)[:200])
	}
	return location
}

func (s *EventService) validate(in EventInput) (time.Time, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return time.Time{}, validationf("Event name is required")
	}
	if utf8.RuneCountInString(name) > 200 {
		return time.Time{}, validationf("Event name must be 200 characters or less")
	}
	if !model.ValidEventType(in.EventType) {
		return time.Time{}, validationf("Invalid event type: %s", in.EventType)
	}
	date, err := time.Parse(eventDateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return time.Time{}, validationf("Invalid date format. Use YYYY-MM-DD")
	}
	return date, nil
}

// GetOwned resolves the event and verifies ownership.
func (s *EventService) GetOwned(userID, eventID int64) (*model.Event, error) {
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
	return event, nil
}

func (s *EventService) Create(userID int64, in EventInput) (*model.Event, error) {
	date, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	event, err := s.events.Create(userID, strings.TrimSpace(in.Name), in.EventType,
		truncateLocation(in.Location), date, in.Notes, normalizeTarget(in.TargetAttendees))
	if err != nil {
		return nil, err
	}

	if in.IncludeMe {
		me, err := s.guests.GetMe(userID)
		if err != nil {
			return nil, err
		}
		if me != nil {
			now := today()
			if _, err := s.invitations.Create(event.ID, me.ID, model.StatusAttending, &now, &now); err != nil {
				return nil, err
			}
		}
	}
	return event, nil
}

func (s *EventService) Update(userID, eventID int64, in EventInput) (*model.Event, error) {
	if _, err := s.GetOwned(userID, eventID); err != nil {
		return nil, err
	}
	date, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	return s.events.Update(eventID, strings.TrimSpace(in.Name), in.EventType,
		truncateLocation(in.Location), date, in.Notes, normalizeTarget(in.TargetAttendees))
}

// UpdateNotes is the notes-only fast path: no other field is validated or
// touched.
func (s *EventService) UpdateNotes(userID, eventID int64, notes string) (*model.Event, error) {
	if _, err := s.GetOwned(userID, eventID); err != nil {
		return nil, err
	}
	if err := s.events.UpdateNotes(eventID, notes); err != nil {
		return nil, err
	}
	return s.events.GetByID(eventID)
}

func (s *EventService) Delete(userID, eventID int64) error {
	if _, err := s.GetOwned(userID, eventID); err != nil {
		return err
	}
	return s.events.Delete(eventID)
}

// List returns one page of the user's events plus the total count.
func (s *EventService) List(userID int64, page int) ([]model.Event, int, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.events.CountByUser(userID)
	if err != nil {
		return nil, 0, err
	}
	events, err := s.events.ListByUser(userID, EventsPerPage, (page-1)*EventsPerPage)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListAll returns every event the user owns, for the exports.
func (s *EventService) ListAll(userID int64) ([]model.Event, error) {
	return s.events.ListByUser(userID, 0, 0)
}
