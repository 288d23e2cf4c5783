// Package models defines the persistent row types shared by repositories
// and services.
package models

import (
	"database/sql"
	"time"
)

// User is one registered principal.
//
// PasswordHash is only ever set through auth.HashPassword and never leaves
// the server. LastLogin is NULL until the first successful login.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	IsStaff      bool
	DateJoined   time.Time
	LastLogin    sql.NullTime
}

// UserProjection is the public view of a User returned over HTTP.
// It deliberately omits the password hash and the staff/active flags
// are informational only.
type UserProjection struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	IsActive   bool       `json:"is_active"`
	IsStaff    bool       `json:"is_staff"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login"`
}

// Projection converts a stored User into its public representation.
func (u *User) Projection() UserProjection {
	p := UserProjection{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsActive:   u.IsActive,
		IsStaff:    u.IsStaff,
		DateJoined: u.DateJoined,
	}
	if u.LastLogin.Valid {
		t := u.LastLogin.Time
		p.LastLogin = &t
	}
	return p
}
