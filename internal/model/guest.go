package model

import "time"

// Genders is the two-value set enforced on the guest create/edit forms.
var Genders = []string{"Male", "Female"}

func ValidGender(g string) bool {
	return g == "Male" || g == "Female"
}

type Guest struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Gender      string     `json:"gender"`
	IsMe        bool       `json:"is_me"`
	Notes       string     `json:"notes"`
	DateCreated time.Time  `json:"date_created"`
	DateEdited  *time.Time `json:"date_edited"`
}

// FullName joins first and last name, omitting the last name when empty.
func (g *Guest) FullName() string {
	if g.LastName != "" {
		return g.FirstName + " " + g.LastName
	}
	return g.FirstName
}
