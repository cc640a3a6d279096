package models

import "time"

// Role tags what a user may do on the marketplace
type Role string

// Role constants
const (
	RoleFarmer Role = "farmer"
	RoleTrader Role = "trader"
	RoleUser   Role = "user"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleTrader, RoleUser:
		return true
	}
	return false
}

// User is the stored profile of a signed-in marketplace participant
type User struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Phone              string    `json:"phone"`
	Email              string    `json:"email,omitempty"`
	Role               Role      `json:"role"`
	Address            string    `json:"address,omitempty"`
	VerificationStatus string    `json:"verificationStatus,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// IsTrader reports whether the user may join bidding rooms
func (u *User) IsTrader() bool {
	return u != nil && u.Role == RoleTrader
}
