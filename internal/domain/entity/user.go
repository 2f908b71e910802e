package entity

import "time"

// Roles de usuario de la aplicación.
const (
	RoleAdmin  = "admin"
	RoleGestor = "gestor"
)

// User representa un usuario del backoffice.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
