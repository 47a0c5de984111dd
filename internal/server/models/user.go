// Package models defines server-side data models persisted in the database.
package models

import "time"

// Session is the token triple a user holds at any one time.
type Session struct {
	Token       string
	Expiration  time.Time
	UpdateToken string
}

// User is an account row. The session triple lives on the row itself, so a
// user has exactly one live session.
type User struct {
	ID                string
	Email             string
	DisplayName       string
	PasswordDigest    string
	SessionToken      string
	SessionExpiration time.Time
	UpdateToken       string
	CreatedAt         time.Time
}

// Session returns the user's current token triple.
func (u *User) Session() Session {
	return Session{
		Token:       u.SessionToken,
		Expiration:  u.SessionExpiration,
		UpdateToken: u.UpdateToken,
	}
}

// SetSession replaces the token triple on the in-memory user.
func (u *User) SetSession(s Session) {
	u.SessionToken = s.Token
	u.SessionExpiration = s.Expiration
	u.UpdateToken = s.UpdateToken
}
