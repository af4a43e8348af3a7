package domain

import "time"

const (
	AssetFormatImage    = "IMAGE"
	AssetFormatVideo    = "VIDEO"
	AssetFormatCarousel = "CAROUSEL"
)

// CreativeAsset is the canonical creative record, deduplicated across
// platforms and ad accounts by (organization, platform, ad id, ad account).
type CreativeAsset struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	ConnectionID   string `json:"connection_id"`

	Platform          Platform `json:"platform"`
	AdID              string   `json:"ad_id"`
	AdName            string   `json:"ad_name"`
	AdGroupID         string   `json:"ad_group_id"`
	AdGroupName       string   `json:"ad_group_name"`
	CampaignID        string   `json:"campaign_id"`
	CampaignName      string   `json:"campaign_name"`
	CampaignObjective string   `json:"campaign_objective"`
	AdAccountID       string   `json:"ad_account_id"`

	CreativeID    string   `json:"creative_id"`
	AssetFormat   string   `json:"asset_format"`
	ThumbnailURL  string   `json:"thumbnail_url"`
	AssetURL      string   `json:"asset_url"`
	VideoDuration *float64 `json:"video_duration,omitempty"`
	Placement     string   `json:"placement"`

	// Scoring payload attached once at creation; opaque to the resolver.
	AceScore           *float64       `json:"ace_score,omitempty"`
	AceScoreConfidence string         `json:"ace_score_confidence,omitempty"`
	ScoringMetadata    map[string]any `json:"scoring_metadata,omitempty"`

	IsActive    bool      `json:"is_active"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AssetAttributes carries everything a raw record knows about its creative
// when the resolver is asked to ensure the asset exists.
type AssetAttributes struct {
	AdName            string
	AdGroupID         string
	AdGroupName       string
	CampaignID        string
	CampaignName      string
	CampaignObjective string
	AdAccountID       string

	CreativeID    string
	AssetFormat   string
	ThumbnailURL  string
	AssetURL      string
	VideoDuration *float64
	Placement     string

	// SeenAt is the report date presented with this observation; it widens the
	// asset's first/last-seen bounds.
	SeenAt time.Time
}
