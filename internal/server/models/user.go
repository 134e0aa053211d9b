package models

// User is an account able to log in. PasswordHash embeds its own salt.
type User struct {
	ID           int64
	UserName     string
	PasswordHash string
}
