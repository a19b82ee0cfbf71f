package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// User is the platform account that owns integrations. Sign-in/sign-up is
// handled elsewhere; this core only needs the lookup for session checks.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserClaims are the JWT claims carried by the caller session.
type UserClaims struct {
	UserName string `json:"user_name"`
	jwt.StandardClaims
}
