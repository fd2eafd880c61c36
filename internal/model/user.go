package model

import "time"

type User struct {
	ID                      int64      `json:"id"`
	Email                   string     `json:"email"`
	PasswordHash            string     `json:"-"`
	APIToken                *string    `json:"-"`
	EmailVerified           bool       `json:"email_verified"`
	EmailVerificationToken  *string    `json:"-"`
	EmailVerificationSentAt *time.Time `json:"-"`
	PasswordResetToken      *string    `json:"-"`
	PasswordResetSentAt     *time.Time `json:"-"`
	CreatedAt               time.Time  `json:"created_at"`
}
