package models

import "github.com/golang-jwt/jwt/v5"

// UserRole labels the acting operator's role.
type UserRole string

// Roles accepted on operator endpoints. Tokens are issued by the external
// auth service; this API only verifies them.
const (
	RoleAdmin       UserRole = "ADMIN"
	RoleCoordinator UserRole = "COORDINATOR"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
