package users

import "time"

// User is a registered account. HashedPassword never leaves this package.
type User struct {
	ID             string
	Email          string
	FullName       string
	HashedPassword string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Roles assignable at registration. Default is RoleClient.
const (
	RoleClient    = "client"
	RoleLawyer    = "lawyer"
	RoleAdmin     = "admin"
	RoleParaLegal = "paralegal"
)

func validRole(role string) bool {
	switch role {
	case RoleClient, RoleLawyer, RoleAdmin, RoleParaLegal:
		return true
	default:
		return false
	}
}
