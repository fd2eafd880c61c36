package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dmaguire/rsvp/internal/model"
)

type InvitationStore struct {
	db *sql.DB
}

func NewInvitationStore(db *sql.DB) *InvitationStore {
	return &InvitationStore{db: db}
}

func scanInvitation(scanner interface{ Scan(...any) error }) (*model.Invitation, error) {
	var inv model.Invitation
	var dateInvited, dateResponded sql.NullTime

	err := scanner.Scan(
		&inv.ID, &inv.EventID, &inv.GuestID, &inv.Status, &inv.Channel,
		&dateInvited, &dateResponded, &inv.Notes,
	)
	if err != nil {
		return nil, err
	}

	if dateInvited.Valid {
		inv.DateInvited = &dateInvited.Time
	}
	if dateResponded.Valid {
		inv.DateResponded = &dateResponded.Time
	}
	return &inv, nil
}

const invitationCols = `id, event_id, guest_id, status, channel, date_invited, date_responded, notes`

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func (s *InvitationStore) Create(eventID, guestID int64, status string, dateInvited, dateResponded *time.Time) (*model.Invitation, error) {
	result, err := s.db.Exec(
		`INSERT INTO invitations (event_id, guest_id, status, date_invited, date_responded) VALUES (?, ?, ?, ?, ?)`,
		eventID, guestID, status, nullTime(dateInvited), nullTime(dateResponded),
	)
	if err != nil {
		return nil, fmt.Errorf("insert invitation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *InvitationStore) GetByID(id int64) (*model.Invitation, error) {
	row := s.db.QueryRow(`SELECT `+invitationCols+` FROM invitations WHERE id = ?`, id)
	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

// GetByEventAndGuest returns the invitation for the (event, guest) pair, or
// nil. The bulk paths use it to skip duplicates.
func (s *InvitationStore) GetByEventAndGuest(eventID, guestID int64) (*model.Invitation, error) {
	row := s.db.QueryRow(
		`SELECT `+invitationCols+` FROM invitations WHERE event_id = ? AND guest_id = ? LIMIT 1`,
		eventID, guestID,
	)
	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invitation by event and guest: %w", err)
	}
	return inv, nil
}

func (s *InvitationStore) ListByEvent(eventID int64) ([]model.Invitation, error) {
	rows, err := s.db.Query(
		`SELECT `+invitationCols+` FROM invitations WHERE event_id = ? ORDER BY id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invitations by event: %w", err)
	}
	defer rows.Close()

	var invitations []model.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

func (s *InvitationStore) ListByGuest(guestID int64) ([]model.Invitation, error) {
	rows, err := s.db.Query(
		`SELECT `+invitationCols+` FROM invitations WHERE guest_id = ? ORDER BY id ASC`,
		guestID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invitations by guest: %w", err)
	}
	defer rows.Close()

	var invitations []model.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

// UpdateStatus writes the status together with both derived date fields. The
// service layer owns the derivation rules; the store persists them as given.
func (s *InvitationStore) UpdateStatus(id int64, status string, dateInvited, dateResponded *time.Time) (*model.Invitation, error) {
	_, err := s.db.Exec(
		`UPDATE invitations SET status = ?, date_invited = ?, date_responded = ? WHERE id = ?`,
		status, nullTime(dateInvited), nullTime(dateResponded), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update invitation status: %w", err)
	}
	return s.GetByID(id)
}

func (s *InvitationStore) UpdateChannel(id int64, channel string) error {
	_, err := s.db.Exec(`UPDATE invitations SET channel = ? WHERE id = ?`, channel, id)
	if err != nil {
		return fmt.Errorf("update invitation channel: %w", err)
	}
	return nil
}

func (s *InvitationStore) UpdateNotes(id int64, notes string) error {
	_, err := s.db.Exec(`UPDATE invitations SET notes = ? WHERE id = ?`, notes, id)
	if err != nil {
		return fmt.Errorf("update invitation notes: %w", err)
	}
	return nil
}

func (s *InvitationStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM invitations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	return nil
}

// DeleteByUser removes every invitation under the user's events. Used by the
// sample-data reset.
func (s *InvitationStore) DeleteByUser(userID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM invitations WHERE event_id IN (SELECT id FROM events WHERE user_id = ?)`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete user invitations: %w", err)
	}
	return nil
}
