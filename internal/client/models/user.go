package models

import "time"

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// User is an entry of the admin user directory. Enabled is informational:
// the client never toggles it.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Picture     string `json:"picture,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        string `json:"role,omitempty"`
	Enabled     bool   `json:"enabled"`
	Verified    bool   `json:"verified"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

func (u User) CreatedTime() (time.Time, bool) {
	return parseTimestamp(u.CreatedAt)
}

// Profile is the signed-in account as seen by its owner.
type Profile struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Picture     string `json:"picture,omitempty"`
	Role        string `json:"role,omitempty"`
	Enabled     bool   `json:"enabled,omitempty"`
	Verified    bool   `json:"verified,omitempty"`
}
