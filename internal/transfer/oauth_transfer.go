package transfer

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OAuthState is the correlation payload carried through the provider redirect.
type OAuthState struct {
	BusinessID  string `json:"business_id"`
	RedirectURI string `json:"redirect_uri"`
}

type StateClaims struct {
	BusinessID  string `json:"business_id"`
	RedirectURI string `json:"redirect_uri"`
	jwt.RegisteredClaims
}

type CallbackParams struct {
	Code  string
	State string
	Error string
}

// Profile is the provider-side identity of the connecting user.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Page is an asset (e.g. a Facebook page) managed by the connecting user.
type Page struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	AccessToken string   `json:"-"`
	Tasks       []string `json:"tasks"`
}

// RefreshedToken is what a provider hands back after a token refresh.
type RefreshedToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}

type SocialAccountView struct {
	ID             string                 `json:"id"`
	BusinessID     string                 `json:"business_id"`
	Platform       string                 `json:"platform"`
	AccountName    string                 `json:"account_name"`
	AccountID      string                 `json:"account_id,omitempty"`
	TokenExpiresAt *time.Time             `json:"token_expires_at,omitempty"`
	IsActive       bool                   `json:"is_active"`
	Permissions    map[string]interface{} `json:"permissions"`
	CreatedAt      time.Time              `json:"created_at"`
}
