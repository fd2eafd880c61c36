package service

import (
	"strings"
	"unicode/utf8"

	"github.com/dmaguire/rsvp/internal/model"
	"github.com/dmaguire/rsvp/internal/store"
)

// GuestsPerPage is the page size for guest listings.
const GuestsPerPage = 50

type GuestService struct {
	guests *store.GuestStore
}

func NewGuestService(guests *store.GuestStore) *GuestService {
	return &GuestService{guests: guests}
}

type GuestInput struct {
	FirstName string
	LastName  string
	Gender    string
	IsMe      bool
	Notes     string
}

func validateGuestName(first string) (string, error) {
	first = strings.TrimSpace(first)
	if first == "" {
		return "", validationf("First name is required")
	}
	if utf8.RuneCountInString(first) > 100 {
		return "", validationf("First name must be 100 characters or less")
	}
	return first, nil
}

func truncateLastName(last string) string {
	last = strings.TrimSpace(last)
	if utf8.RuneCountInString(last) > 100 {
		return string([]rune(last)[:100])
	}
	return last
}

// GetOwned resolves the guest and verifies ownership.
func (s *GuestService) GetOwned(userID, guestID int64) (*model.Guest, error) {
	guest, err := s.guests.GetByID(guestID)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, ErrNotFound
	}
	if guest.UserID != userID {
		return nil, ErrForbidden
	}
	return guest, nil
}

func (s *GuestService) Create(userID int64, in GuestInput) (*model.Guest, error) {
	first, err := validateGuestName(in.FirstName)
	if err != nil {
		return nil, err
	}
	if !model.ValidGender(in.Gender) {
		return nil, validationf("Invalid gender: %s", in.Gender)
	}
	if in.IsMe {
		if err := s.guests.ClearIsMe(userID); err != nil {
			return nil, err
		}
	}
	return s.guests.Create(userID, first, truncateLastName(in.LastName), in.Gender, in.IsMe, in.Notes)
}

func (s *GuestService) Update(userID, guestID int64, in GuestInput) (*model.Guest, error) {
	guest, err := s.GetOwned(userID, guestID)
	if err != nil {
		return nil, err
	}
	first, err := validateGuestName(in.FirstName)
	if err != nil {
		return nil, err
	}
	if !model.ValidGender(in.Gender) {
		return nil, validationf("Invalid gender: %s", in.Gender)
	}
	// Exclusivity only matters on the false-to-true transition.
	if in.IsMe && !guest.IsMe {
		if err := s.guests.ClearIsMe(userID); err != nil {
			return nil, err
		}
	}
	return s.guests.Update(guestID, first, truncateLastName(in.LastName), in.Gender, in.IsMe, in.Notes)
}

func (s *GuestService) SetName(userID, guestID int64, firstName, lastName string) (*model.Guest, error) {
	if _, err := s.GetOwned(userID, guestID); err != nil {
		return nil, err
	}
	first, err := validateGuestName(firstName)
	if err != nil {
		return nil, err
	}
	if err := s.guests.UpdateName(guestID, first, truncateLastName(lastName)); err != nil {
		return nil, err
	}
	return s.guests.GetByID(guestID)
}

// SetGender accepts any string. The create and edit forms restrict gender to
// the two-value set; this field endpoint never did, and callers depend on
// that.
func (s *GuestService) SetGender(userID, guestID int64, gender string) (*model.Guest, error) {
	if _, err := s.GetOwned(userID, guestID); err != nil {
		return nil, err
	}
	if err := s.guests.UpdateGender(guestID, gender); err != nil {
		return nil, err
	}
	return s.guests.GetByID(guestID)
}

func (s *GuestService) SetNotes(userID, guestID int64, notes string) (*model.Guest, error) {
	if _, err := s.GetOwned(userID, guestID); err != nil {
		return nil, err
	}
	if err := s.guests.UpdateNotes(guestID, notes); err != nil {
		return nil, err
	}
	return s.guests.GetByID(guestID)
}

func (s *GuestService) SetIsMe(userID, guestID int64, isMe bool) (*model.Guest, error) {
	guest, err := s.GetOwned(userID, guestID)
	if err != nil {
		return nil, err
	}
	if isMe && !guest.IsMe {
		if err := s.guests.ClearIsMe(userID); err != nil {
			return nil, err
		}
	}
	if err := s.guests.UpdateIsMe(guestID, isMe); err != nil {
		return nil, err
	}
	return s.guests.GetByID(guestID)
}

func (s *GuestService) Delete(userID, guestID int64) error {
	if _, err := s.GetOwned(userID, guestID); err != nil {
		return err
	}
	return s.guests.Delete(guestID)
}

// List returns one page of the user's guests plus the total count.
func (s *GuestService) List(userID int64, page int) ([]model.Guest, int, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.guests.CountByUser(userID)
	if err != nil {
		return nil, 0, err
	}
	guests, err := s.guests.ListByUser(userID, GuestsPerPage, (page-1)*GuestsPerPage)
	if err != nil {
		return nil, 0, err
	}
	return guests, total, nil
}

// ListAll returns every guest the user owns, for the exports.
func (s *GuestService) ListAll(userID int64) ([]model.Guest, error) {
	return s.guests.ListByUser(userID, 0, 0)
}

// BulkCreate creates guests from the given entries, skipping any whose first
// name trims to empty. Gender defaults to Male when unspecified; entries are
// not validated beyond the name check, so a partial batch never fails the
// whole call.
func (s *GuestService) BulkCreate(userID int64, entries []GuestInput) ([]model.Guest, error) {
	var created []model.Guest
	for _, in := range entries {
		first := strings.TrimSpace(in.FirstName)
		if first == "" {
			continue
		}
		gender := in.Gender
		if gender == "" {
			gender = "Male"
		}
		guest, err := s.guests.Create(userID, first, truncateLastName(in.LastName), gender, false, in.Notes)
		if err != nil {
			return created, err
		}
		created = append(created, *guest)
	}
	return created, nil
}
