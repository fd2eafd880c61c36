package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dmaguire/rsvp/internal/model"
)

type GuestStore struct {
	db *sql.DB
}

func NewGuestStore(db *sql.DB) *GuestStore {
	return &GuestStore{db: db}
}

func scanGuest(scanner interface{ Scan(...any) error }) (*model.Guest, error) {
	var g model.Guest
	var isMe int
	var dateEdited sql.NullTime

	err := scanner.Scan(
		&g.ID, &g.UserID, &g.FirstName, &g.LastName, &g.Gender,
		&isMe, &g.Notes, &g.DateCreated, &dateEdited,
	)
	if err != nil {
		return nil, err
	}

	g.IsMe = isMe != 0
	if dateEdited.Valid {
		g.DateEdited = &dateEdited.Time
	}
	return &g, nil
}

const guestCols = `id, user_id, first_name, last_name, gender, is_me, notes, date_created, date_edited`

func (s *GuestStore) Create(userID int64, firstName, lastName, gender string, isMe bool, notes string) (*model.Guest, error) {
	var isMeInt int
	if isMe {
		isMeInt = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO guests (user_id, first_name, last_name, gender, is_me, notes) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, firstName, lastName, gender, isMeInt, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert guest: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GuestStore) GetByID(id int64) (*model.Guest, error) {
	row := s.db.QueryRow(`SELECT `+guestCols+` FROM guests WHERE id = ?`, id)
	g, err := scanGuest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get guest: %w", err)
	}
	return g, nil
}

// ListByUser returns one page of the user's guests ordered by last then first
// name. limit <= 0 disables pagination.
func (s *GuestStore) ListByUser(userID int64, limit, offset int) ([]model.Guest, error) {
	query := `SELECT ` + guestCols + ` FROM guests WHERE user_id = ? ORDER BY last_name ASC, first_name ASC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	defer rows.Close()

	var guests []model.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		guests = append(guests, *g)
	}
	return guests, rows.Err()
}

// ListByUserByFirstName orders by first then last name, the ordering the
// available-guests picker uses.
func (s *GuestStore) ListByUserByFirstName(userID int64) ([]model.Guest, error) {
	rows, err := s.db.Query(
		`SELECT `+guestCols+` FROM guests WHERE user_id = ? ORDER BY first_name ASC, last_name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list guests by first name: %w", err)
	}
	defer rows.Close()

	var guests []model.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		guests = append(guests, *g)
	}
	return guests, rows.Err()
}

func (s *GuestStore) CountByUser(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM guests WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count guests: %w", err)
	}
	return n, nil
}

// GetMe returns the user's is_me guest, or nil if none is flagged.
func (s *GuestStore) GetMe(userID int64) (*model.Guest, error) {
	row := s.db.QueryRow(`SELECT `+guestCols+` FROM guests WHERE user_id = ? AND is_me = 1 LIMIT 1`, userID)
	g, err := scanGuest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get me guest: %w", err)
	}
	return g, nil
}

// ClearIsMe unsets the is_me flag on all of the user's guests.
func (s *GuestStore) ClearIsMe(userID int64) error {
	_, err := s.db.Exec(`UPDATE guests SET is_me = 0 WHERE user_id = ? AND is_me = 1`, userID)
	if err != nil {
		return fmt.Errorf("clear is_me: %w", err)
	}
	return nil
}

func (s *GuestStore) Update(id int64, firstName, lastName, gender string, isMe bool, notes string) (*model.Guest, error) {
	var isMeInt int
	if isMe {
		isMeInt = 1
	}

	_, err := s.db.Exec(
		`UPDATE guests SET first_name = ?, last_name = ?, gender = ?, is_me = ?, notes = ?, date_edited = ? WHERE id = ?`,
		firstName, lastName, gender, isMeInt, notes, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update guest: %w", err)
	}
	return s.GetByID(id)
}

func (s *GuestStore) UpdateName(id int64, firstName, lastName string) error {
	_, err := s.db.Exec(
		`UPDATE guests SET first_name = ?, last_name = ?, date_edited = ? WHERE id = ?`,
		firstName, lastName, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update guest name: %w", err)
	}
	return nil
}

func (s *GuestStore) UpdateGender(id int64, gender string) error {
	_, err := s.db.Exec(
		`UPDATE guests SET gender = ?, date_edited = ? WHERE id = ?`,
		gender, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update guest gender: %w", err)
	}
	return nil
}

func (s *GuestStore) UpdateNotes(id int64, notes string) error {
	_, err := s.db.Exec(
		`UPDATE guests SET notes = ?, date_edited = ? WHERE id = ?`,
		notes, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update guest notes: %w", err)
	}
	return nil
}

func (s *GuestStore) UpdateIsMe(id int64, isMe bool) error {
	var isMeInt int
	if isMe {
		isMeInt = 1
	}
	_, err := s.db.Exec(
		`UPDATE guests SET is_me = ?, date_edited = ? WHERE id = ?`,
		isMeInt, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update guest is_me: %w", err)
	}
	return nil
}

func (s *GuestStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM guests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	return nil
}

func (s *GuestStore) DeleteByUser(userID int64) error {
	_, err := s.db.Exec(`DELETE FROM guests WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete user guests: %w", err)
	}
	return nil
}
