package models

import (
	"time"
)

// Role is the coarse authorization tier of a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents an account on the platform. Accounts have no password:
// they authenticate by exchanging an emailed confirmation code for a token.
type User struct {
	ID          uint   `json:"-" gorm:"primaryKey"`
	Username    string `json:"username" gorm:"uniqueIndex;type:varchar(150);not null"`
	Email       string `json:"email" gorm:"uniqueIndex;type:varchar(254);not null"`
	FirstName   string `json:"first_name" gorm:"type:varchar(150)"`
	LastName    string `json:"last_name" gorm:"type:varchar(150)"`
	Bio         string `json:"bio" gorm:"type:text"`
	Role        Role   `json:"role" gorm:"type:varchar(30);not null;default:user"`
	IsSuperuser bool   `json:"-" gorm:"not null;default:false"`
	// ConfirmationCode holds the bcrypt hash of the last issued code.
	ConfirmationCode *string    `json:"-" gorm:"type:varchar(100)"`
	CodeIssuedAt     *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`
}
