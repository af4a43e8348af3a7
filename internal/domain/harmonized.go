package domain

import "time"

// HarmonizedPerformance is the canonical, currency-normalized daily row that
// all reporting reads from. Monetary fields are in the organization's
// reporting currency; the applied rate and original currency are kept for
// audit. The natural key mirrors the raw one: (connection, report date,
// ad id, ad account).
type HarmonizedPerformance struct {
	ID           string `json:"id"`
	AssetID      string `json:"asset_id"`
	ConnectionID string `json:"connection_id"`

	ReportDate  time.Time `json:"report_date"`
	Platform    Platform  `json:"platform"`
	AdAccountID string    `json:"ad_account_id"`

	CampaignID        string `json:"campaign_id"`
	CampaignName      string `json:"campaign_name"`
	CampaignObjective string `json:"campaign_objective"`
	AdGroupID         string `json:"ad_group_id"`
	AdGroupName       string `json:"ad_group_name"`
	AdID              string `json:"ad_id"`
	AdName            string `json:"ad_name"`
	AssetFormat       string `json:"asset_format"`

	OrgCurrency      string  `json:"org_currency"`
	OriginalCurrency string  `json:"original_currency"`
	ExchangeRate     float64 `json:"exchange_rate"`

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
	VTR                 *float64 `json:"vtr,omitempty"`
	VideoCompletionRate *float64 `json:"video_completion_rate,omitempty"`
	CostPerView         *float64 `json:"cost_per_view,omitempty"`

	PlatformExtras map[string]any `json:"platform_extras,omitempty"`

	HarmonizedAt time.Time `json:"harmonized_at"`
}
