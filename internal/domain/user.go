package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	FarmType     string    `json:"farm_type,omitempty"`
	Crops        []string  `json:"crops"`
	Following    []string  `json:"following"`
	Followers    []string  `json:"followers"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsFollowing reports whether the user already follows username.
func (u *User) IsFollowing(username string) bool {
	for _, f := range u.Following {
		if f == username {
			return true
		}
	}
	return false
}
