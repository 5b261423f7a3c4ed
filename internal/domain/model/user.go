package model

import "time"

// User is a registered wallet holder of the cashback network.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
