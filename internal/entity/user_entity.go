package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleEndUser    UserRole = "end_user"
	UserRoleSupport    UserRole = "support"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "super_admin"

	UserStatusActive   UserStatus = "active"
	UserStatusBlocked  UserStatus = "blocked"
	UserStatusTrial    UserStatus = "trial"
	UserStatusInactive UserStatus = "inactive"
)

// User mirrors the profile row kept next to the auth provider's identity.
type User struct {
	Id        uuid.UUID
	Email     string
	FullName  *string
	Role      UserRole
	Status    UserStatus
	Currency  string
	Locale    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin || u.Role == UserRoleSuperAdmin
}
