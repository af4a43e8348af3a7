package domain

import "time"

// RawPerformance is one platform-native daily performance row, stored in the
// platform's original currency. Each platform has its own table but the shape
// is shared; the natural key is (connection, report date, ad id, ad account).
type RawPerformance struct {
	ID           string  `json:"id"`
	ConnectionID string  `json:"connection_id"`
	SyncJobID    *string `json:"sync_job_id,omitempty"`

	ReportDate  time.Time `json:"report_date"`
	AdAccountID string    `json:"ad_account_id"`

	CampaignID        string `json:"campaign_id"`
	CampaignName      string `json:"campaign_name"`
	CampaignObjective string `json:"campaign_objective"`
	AdGroupID         string `json:"ad_group_id"`
	AdGroupName       string `json:"ad_group_name"`
	AdID              string `json:"ad_id"`
	AdName            string `json:"ad_name"`

	// Creative metadata, backfilled after the performance pass.
	CreativeID    string `json:"creative_id"`
	AssetFormat   string `json:"asset_format"`
	ThumbnailURL  string `json:"thumbnail_url"`
	AssetURL      string `json:"asset_url"`
	PlacementType string `json:"placement_type"`

	// Metrics in the platform's original currency.
	Currency        string   `json:"currency"`
	Spend           float64  `json:"spend"`
	Impressions     int64    `json:"impressions"`
	Clicks          int64    `json:"clicks"`
	CTR             float64  `json:"ctr"`
	CPM             float64  `json:"cpm"`
	CPC             float64  `json:"cpc"`
	Conversions     int64    `json:"conversions"`
	ConversionValue float64  `json:"conversion_value"`
	CVR             *float64 `json:"cvr,omitempty"`
	ROAS            *float64 `json:"roas,omitempty"`

	VideoViews          *int64   `json:"video_views,omitempty"`
	VideoViewRate       *float64 `json:"video_view_rate,omitempty"`
	VideoCompletionRate *float64 `json:"video_completion_rate,omitempty"`
	CostPerView         *float64 `json:"cost_per_view,omitempty"`

	// Platform-specific metrics with no dedicated column (reach, frequency,
	// quartiles, engagement rate, ...). Carried into the harmonized extras so
	// nothing is silently dropped.
	ExtraMetrics map[string]float64 `json:"extra_metrics,omitempty"`

	RetrievedAt time.Time `json:"retrieved_at"`
	IsProcessed bool      `json:"is_processed"`
}

// CreativeUpdate is the secondary creative-metadata backfill applied to raw
// rows after ingestion. Nil fields are left untouched.
type CreativeUpdate struct {
	CreativeID   *string
	AssetFormat  *string
	ThumbnailURL *string
	AssetURL     *string
}
