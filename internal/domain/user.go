package domain

import (
	"net/mail"
	"strings"
)

// MaxPasswordLength is bcrypt's input limit in bytes.
const MaxPasswordLength = 72

// User represents a registered account.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"-"` // plaintext, only set between registration and hashing
	HashedPassword string `json:"-"`
	IsActive       bool   `json:"is_active"`
	IsAdmin        bool   `json:"is_admin"`
}

// NewUser creates an active, non-admin user with the given credentials.
// The store hashes Password when the user is created.
func NewUser(username, email, password string) (*User, error) {
	u := &User{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
		IsActive: true,
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}

	if _, err := mail.ParseAddress(u.Email); err != nil || strings.ContainsAny(u.Email, "<> ") {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}
