// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"_id"`
	UserName     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TypeCount is one row of the per-type content statistics shown on the profile.
type TypeCount struct {
	Type  ContentType `json:"_id"`
	Count int64       `json:"count"`
}
