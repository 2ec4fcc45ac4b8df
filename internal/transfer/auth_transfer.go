package transfer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims mirrors the access token issued by Supabase Auth.
type SessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
