package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role represents the access level of the signed-in user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
	RoleNone    Role = "none"
)

// IsAdmin reports whether the role may use the data management surface.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// LoginRequest holds credentials for the fixed user table.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and session info.
type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int64       `json:"expiresIn"`
	IssuedAt    time.Time   `json:"issuedAt"`
	Session     SessionInfo `json:"session"`
}

// SessionInfo describes the authenticated user.
type SessionInfo struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}
