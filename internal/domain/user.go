package domain

import "time"

// User is an internal operator of the CRM. Role strings live only at
// the persistence boundary; core code works with the parsed Role.
type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	PasswordHash    string    `json:"-"`
	Role            Role      `json:"-"`
	AccessibleMenus []string  `json:"accessibleMenus"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}
