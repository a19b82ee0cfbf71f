package model

import "time"

// Platform identifies a supported external media platform.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
)

// Known reports whether p is one of the supported platforms.
func (p Platform) Known() bool {
	return p == PlatformYouTube || p == PlatformInstagram
}

// IntegrationAccount is a linked external platform account for an artist.
// At most one record exists per (owner_id, platform).
type IntegrationAccount struct {
	ID                  int64      `json:"id"`
	OwnerID             string     `json:"owner_id"`
	Platform            Platform   `json:"platform"`
	ExternalAccountID   string     `json:"external_account_id"`
	ExternalDisplayName string     `json:"external_display_name"`
	AccessToken         string     `json:"-"`
	RefreshToken        string     `json:"-"`
	TokenExpiry         *time.Time `json:"token_expiry,omitempty"`
	ConnectedAt         time.Time  `json:"connected_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TokenValid reports whether the stored access token is still usable at now.
func (a *IntegrationAccount) TokenValid(now time.Time) bool {
	return a.TokenExpiry != nil && a.TokenExpiry.After(now)
}

// ExternalProfile is the identity returned by a platform after a
// successful token exchange.
type ExternalProfile struct {
	ExternalID  string `json:"external_id"`
	DisplayName string `json:"display_name"`
}

// ShortLivedToken is the stage-one exchange result.
type ShortLivedToken struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	ExpiresInSeconds int64  `json:"expires_in,omitempty"`
}

// LongLivedToken is the stage-two exchange result.
type LongLivedToken struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	ExpiresInSeconds int64  `json:"expires_in"`
}
