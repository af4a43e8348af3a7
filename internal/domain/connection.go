package domain

import "time"

// Platform identifies one of the supported ad-serving platforms.
type Platform string

const (
	PlatformMeta    Platform = "META"
	PlatformTikTok  Platform = "TIKTOK"
	PlatformYouTube Platform = "YOUTUBE"
)

// ValidPlatform reports whether p is one of the known platforms.
func ValidPlatform(p Platform) bool {
	switch p {
	case PlatformMeta, PlatformTikTok, PlatformYouTube:
		return true
	}
	return false
}

// SyncStatus is the operator-visible health of a connection.
type SyncStatus string

const (
	SyncStatusActive  SyncStatus = "ACTIVE"
	SyncStatusPending SyncStatus = "PENDING"
	SyncStatusExpired SyncStatus = "EXPIRED"
	SyncStatusError   SyncStatus = "ERROR"
)

// Connection is one external ad account linked to an organization.
// Connections are never deleted, only deactivated.
type Connection struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`

	Platform      Platform `json:"platform"`
	AdAccountID   string   `json:"ad_account_id"`
	AdAccountName string   `json:"ad_account_name"`
	Currency      string   `json:"currency"`
	Timezone      string   `json:"timezone"`

	AccessTokenEncrypted  string     `json:"-"`
	RefreshTokenEncrypted string     `json:"-"`
	TokenExpiry           *time.Time `json:"token_expiry,omitempty"`

	SyncStatus              SyncStatus `json:"sync_status"`
	LastSyncedAt            *time.Time `json:"last_synced_at,omitempty"`
	InitialSyncCompleted    bool       `json:"initial_sync_completed"`
	HistoricalSyncCompleted bool       `json:"historical_sync_completed"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Organization owns connections and defines the reporting currency all
// harmonized metrics are converted into.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}
