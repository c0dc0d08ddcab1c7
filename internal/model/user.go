// Package model defines domain entities for the application.
package model

import "time"

// User represents an account that owns QR code records.
// The email is unique and immutable after registration.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
