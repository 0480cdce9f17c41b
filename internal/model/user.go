package model

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         *string   `db:"name"`
	CreatedAt    time.Time `db:"created_at"`
}

// AuthUser is the public view of a signed-in user.
type AuthUser struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

func (u *User) Public() *AuthUser {
	return &AuthUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}
