// Package model defines domain entities for the application.
package model

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	IsAdmin      bool      `json:"isAdmin"`
	Bio          *string   `json:"bio"`
	AvatarURL    *string   `json:"avatar_url"`
	Location     *string   `json:"location"`
	Website      *string   `json:"website"`
	JoinedAt     time.Time `json:"joined_at"`
}

// ProfileUpdate lists the profile fields a user may change. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Name      *string
	Bio       *string
	AvatarURL *string
	Location  *string
	Website   *string
}

// IsEmpty reports whether the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Bio == nil && u.AvatarURL == nil && u.Location == nil && u.Website == nil
}

// Apply copies the set fields onto user.
func (u ProfileUpdate) Apply(user *User) {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Bio != nil {
		user.Bio = u.Bio
	}
	if u.AvatarURL != nil {
		user.AvatarURL = u.AvatarURL
	}
	if u.Location != nil {
		user.Location = u.Location
	}
	if u.Website != nil {
		user.Website = u.Website
	}
}
