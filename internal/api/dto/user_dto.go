package dto

import "time"

// CreateUserRequest payload. Role is the stored role string, e.g.
// "manager" or "lead of sales".
type CreateUserRequest struct {
	Username        string   `json:"username"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Password        string   `json:"password"`
	Role            string   `json:"role"`
	AccessibleMenus []string `json:"accessible_menus"`
}

// UpdateUserRequest payload. Absent fields stay untouched.
type UpdateUserRequest struct {
	FirstName       *string  `json:"first_name"`
	LastName        *string  `json:"last_name"`
	Role            *string  `json:"role"`
	AccessibleMenus []string `json:"accessible_menus"`
}

// UserResponse is the wire form of a staff member.
type UserResponse struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Role            string    `json:"role"`
	AccessibleMenus []string  `json:"accessible_menus"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
