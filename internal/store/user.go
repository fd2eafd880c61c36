package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dmaguire/rsvp/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var apiToken, verifyToken, resetToken sql.NullString
	var verified int
	var verifySentAt, resetSentAt sql.NullTime

	err := scanner.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &apiToken, &verified,
		&verifyToken, &verifySentAt, &resetToken, &resetSentAt, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.EmailVerified = verified != 0
	if apiToken.Valid {
		u.APIToken = &apiToken.String
	}
	if verifyToken.Valid {
		u.EmailVerificationToken = &verifyToken.String
	}
	if verifySentAt.Valid {
		u.EmailVerificationSentAt = &verifySentAt.Time
	}
	if resetToken.Valid {
		u.PasswordResetToken = &resetToken.String
	}
	if resetSentAt.Valid {
		u.PasswordResetSentAt = &resetSentAt.Time
	}
	return &u, nil
}

const userCols = `id, email, password_hash, api_token, email_verified, email_verification_token, email_verification_sent_at, password_reset_token, password_reset_sent_at, created_at`

func (s *UserStore) Create(email, passwordHash string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (email, password_hash) VALUES (?, ?)`,
		email, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByAPIToken(token string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE api_token = ?`, token)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by api token: %w", err)
	}
	return u, nil
}

func (s *UserStore) SetAPIToken(id int64, token string) error {
	_, err := s.db.Exec(`UPDATE users SET api_token = ? WHERE id = ?`, token, id)
	if err != nil {
		return fmt.Errorf("set api token: %w", err)
	}
	return nil
}

func (s *UserStore) UpdatePassword(id int64, passwordHash string) error {
	_, err := s.db.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// --- Email verification ---

func (s *UserStore) SetVerificationToken(id int64, token string, sentAt time.Time) error {
	_, err := s.db.Exec(
		`UPDATE users SET email_verification_token = ?, email_verification_sent_at = ? WHERE id = ?`,
		token, sentAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set verification token: %w", err)
	}
	return nil
}

func (s *UserStore) GetByVerificationToken(token string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email_verification_token = ?`, token)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by verification token: %w", err)
	}
	return u, nil
}

func (s *UserStore) MarkEmailVerified(id int64) error {
	_, err := s.db.Exec(
		`UPDATE users SET email_verified = 1, email_verification_token = NULL, email_verification_sent_at = NULL WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	return nil
}

// --- Password reset ---

func (s *UserStore) SetPasswordResetToken(id int64, token string, sentAt time.Time) error {
	_, err := s.db.Exec(
		`UPDATE users SET password_reset_token = ?, password_reset_sent_at = ? WHERE id = ?`,
		token, sentAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set password reset token: %w", err)
	}
	return nil
}

func (s *UserStore) GetByPasswordResetToken(token string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE password_reset_token = ?`, token)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by reset token: %w", err)
	}
	return u, nil
}

func (s *UserStore) ClearPasswordResetToken(id int64) error {
	_, err := s.db.Exec(
		`UPDATE users SET password_reset_token = NULL, password_reset_sent_at = NULL WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("clear password reset token: %w", err)
	}
	return nil
}

func (s *UserStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
