package domain

// Result is one GAQL search row. The REST transport serializes int64 metrics
// as strings and doubles as numbers.
type Result struct {
	Campaign  Campaign  `json:"campaign"`
	AdGroup   AdGroup   `json:"adGroup"`
	AdGroupAd AdGroupAd `json:"adGroupAd"`
	Metrics   Metrics   `json:"metrics"`
	Segments  Segments  `json:"segments"`
}

type Campaign struct {
	ID                        string `json:"id"`
	Name                      string `json:"name"`
	AdvertisingChannelType    string `json:"advertisingChannelType"`
	AdvertisingChannelSubType string `json:"advertisingChannelSubType"`
}

type AdGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AdGroupAd struct {
	Ad Ad `json:"ad"`
}

type Ad struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	VideoAd *VideoAd `json:"videoAd"`
	ImageAd *ImageAd `json:"imageAd"`
}

type VideoAd struct {
	Video struct {
		ResourceName string `json:"resourceName"`
	} `json:"video"`
}

type ImageAd struct {
	ImageURL string `json:"imageUrl"`
}

type Metrics struct {
	CostMicros  string `json:"costMicros"`
	Impressions string `json:"impressions"`
	Clicks      string `json:"clicks"`
	VideoViews  string `json:"videoViews"`
	Engagements string `json:"engagements"`

	CTR                   float64 `json:"ctr"`
	AverageCPM            float64 `json:"averageCpm"`
	Conversions           float64 `json:"conversions"`
	ConversionsValue      float64 `json:"conversionsValue"`
	VideoViewRate         float64 `json:"videoViewRate"`
	VideoQuartileP25Rate  float64 `json:"videoQuartileP25Rate"`
	VideoQuartileP50Rate  float64 `json:"videoQuartileP50Rate"`
	VideoQuartileP75Rate  float64 `json:"videoQuartileP75Rate"`
	VideoQuartileP100Rate float64 `json:"videoQuartileP100Rate"`
	EngagementRate        float64 `json:"engagementRate"`
}

type Segments struct {
	Date string `json:"date"`
}

type SearchResponse struct {
	Results       []Result `json:"results"`
	NextPageToken string   `json:"nextPageToken"`
}

// TokenResponse is the OAuth refresh-grant answer.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}
