package entities

import "time"

// Role separates administrators from quiz takers.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an account of the application.
type User struct {
	ID          int64
	Username    string
	PasskeyHash string
	Role        Role
	Remarks     string
	CreatedAt   time.Time
}

func NewUser(username, passkeyHash string, role Role, remarks string) *User {
	return &User{
		Username:    username,
		PasskeyHash: passkeyHash,
		Role:        role,
		Remarks:     remarks,
	}
}
