package domain

// ActionValue is one entry of the Graph API action lists: a typed counter or
// monetary value, serialized as a string.
type ActionValue struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// Insight is one ad-level daily row from the insights endpoint. All numeric
// fields arrive as strings.
type Insight struct {
	DateStart    string `json:"date_start"`
	DateStop     string `json:"date_stop"`
	AccountID    string `json:"account_id"`
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	Objective    string `json:"objective"`
	AdsetID      string `json:"adset_id"`
	AdsetName    string `json:"adset_name"`
	AdID         string `json:"ad_id"`
	AdName       string `json:"ad_name"`

	Spend       string `json:"spend"`
	Impressions string `json:"impressions"`
	Clicks      string `json:"clicks"`
	CTR         string `json:"ctr"`
	Reach       string `json:"reach"`
	Frequency   string `json:"frequency"`
	CPM         string `json:"cpm"`
	CPC         string `json:"cpc"`

	Actions      []ActionValue `json:"actions"`
	ActionValues []ActionValue `json:"action_values"`

	VideoP25Watched  []ActionValue `json:"video_p25_watched_actions"`
	VideoP50Watched  []ActionValue `json:"video_p50_watched_actions"`
	VideoP75Watched  []ActionValue `json:"video_p75_watched_actions"`
	VideoP100Watched []ActionValue `json:"video_p100_watched_actions"`
	VideoPlayActions []ActionValue `json:"video_play_actions"`
}

type Paging struct {
	Cursors struct {
		Before string `json:"before"`
		After  string `json:"after"`
	} `json:"cursors"`
	Next string `json:"next"`
}

type InsightsResponse struct {
	Data   []Insight `json:"data"`
	Paging Paging    `json:"paging"`
}
