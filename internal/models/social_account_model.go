package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

const (
	PlatformFacebook  = "facebook"
	PlatformTwitter   = "twitter"
	PlatformInstagram = "instagram"
	PlatformLinkedIn  = "linkedin"
)

var Platforms = []string{PlatformFacebook, PlatformTwitter, PlatformInstagram, PlatformLinkedIn}

var platformNames = map[string]string{
	PlatformFacebook:  "Facebook",
	PlatformTwitter:   "Twitter",
	PlatformInstagram: "Instagram",
	PlatformLinkedIn:  "LinkedIn",
}

// PlatformName is the display name of a platform, e.g. "LinkedIn".
func PlatformName(p string) string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return p
}

func IsPlatform(p string) bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

type SocialAccount struct {
	ID             string     `db:"id" json:"id"`
	BusinessID     string     `db:"business_id" json:"business_id"`
	Platform       string     `db:"platform" json:"platform"`
	AccountName    string     `db:"account_name" json:"account_name"`
	AccountID      *string    `db:"account_id" json:"account_id"`
	AccessToken    *string    `db:"access_token" json:"access_token"`
	RefreshToken   *string    `db:"refresh_token" json:"refresh_token"`
	TokenExpiresAt *time.Time `db:"token_expires_at" json:"token_expires_at"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	Permissions    JSONMap    `db:"permissions" json:"permissions"`
	Metadata       JSONMap    `db:"metadata" json:"metadata"`
	LastSyncAt     *time.Time `db:"last_sync_at" json:"last_sync_at"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// JSONMap is an opaque jsonb column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = JSONMap{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for JSONMap")
	}
	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}
