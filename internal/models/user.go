// internal/models/user.go
package models

// User roles as persisted in the users table.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
