// Package models defines the persistent records of the tracker and the
// validated input types the boundary layer produces for them.
package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
