package models

import "time"

// User is a registered account. Username is unique and immutable; the
// remaining profile fields are editable through the account service.
type User struct {
	ID           int64
	Username     string
	DisplayName  string
	Bio          string
	Email        string
	Color        int // hue, 0–359
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}
