package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dmaguire/rsvp/internal/model"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func scanEvent(scanner interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var dateEdited sql.NullTime
	var target sql.NullInt64

	err := scanner.Scan(
		&e.ID, &e.UserID, &e.Name, &e.EventType, &e.Location,
		&e.Date, &e.DateCreated, &dateEdited, &e.Notes, &target,
	)
	if err != nil {
		return nil, err
	}

	if dateEdited.Valid {
		e.DateEdited = &dateEdited.Time
	}
	if target.Valid {
		e.TargetAttendees = &target.Int64
	}
	return &e, nil
}

const eventCols = `id, user_id, name, event_type, location, date, date_created, date_edited, notes, target_attendees`

func (s *EventStore) Create(userID int64, name, eventType, location string, date time.Time, notes string, targetAttendees *int64) (*model.Event, error) {
	var target sql.NullInt64
	if targetAttendees != nil {
		target = sql.NullInt64{Int64: *targetAttendees, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO events (user_id, name, event_type, location, date, notes, target_attendees) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, name, eventType, location, date.UTC(), notes, target,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *EventStore) GetByID(id int64) (*model.Event, error) {
	row := s.db.QueryRow(`SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListByUser returns one page of the user's events ordered by event date.
// limit <= 0 disables pagination.
func (s *EventStore) ListByUser(userID int64, limit, offset int) ([]model.Event, error) {
	query := `SELECT ` + eventCols + ` FROM events WHERE user_id = ? ORDER BY date ASC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (s *EventStore) CountByUser(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM events WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func (s *EventStore) Update(id int64, name, eventType, location string, date time.Time, notes string, targetAttendees *int64) (*model.Event, error) {
	var target sql.NullInt64
	if targetAttendees != nil {
		target = sql.NullInt64{Int64: *targetAttendees, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE events SET name = ?, event_type = ?, location = ?, date = ?, notes = ?, target_attendees = ?, date_edited = ? WHERE id = ?`,
		name, eventType, location, date.UTC(), notes, target, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.GetByID(id)
}

func (s *EventStore) UpdateNotes(id int64, notes string) error {
	_, err := s.db.Exec(
		`UPDATE events SET notes = ?, date_edited = ? WHERE id = ?`,
		notes, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update event notes: %w", err)
	}
	return nil
}

// TouchEdited stamps the event's last-edited timestamp. Invitation mutations
// use it as a coarse "something under this event changed" signal.
func (s *EventStore) TouchEdited(id int64) error {
	_, err := s.db.Exec(`UPDATE events SET date_edited = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touch event: %w", err)
	}
	return nil
}

func (s *EventStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *EventStore) DeleteByUser(userID int64) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete user events: %w", err)
	}
	return nil
}
