package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // никогда не отдаём наружу
	CreatedAt    time.Time `json:"created_at"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
