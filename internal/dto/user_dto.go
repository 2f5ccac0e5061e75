package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"fullName"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Currency  string    `json:"currency"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"createdAt"`
}
