// Package users is the staff-management resource: the people who can log in
// to a shop, each carrying a role name resolved against the roles resource.
package users

import "time"

// User is the identity the backend returns both from the profile endpoint and
// from the staff CRUD endpoints.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Phone     *string   `json:"phone,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateUser struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Phone    *string `json:"phone,omitempty"`
}

// UpdateUser is a partial update; nil fields are left untouched.
type UpdateUser struct {
	Name   *string `json:"name,omitempty"`
	Role   *string `json:"role,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}
