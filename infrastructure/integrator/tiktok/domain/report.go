package domain

// ReportRow is one entry of the integrated report: dimensions identify the
// (ad, day) cell, metrics hold the requested values as strings.
type ReportRow struct {
	Dimensions Dimensions        `json:"dimensions"`
	Metrics    map[string]string `json:"metrics"`
}

type Dimensions struct {
	AdID        string `json:"ad_id"`
	StatTimeDay string `json:"stat_time_day"`
}

type PageInfo struct {
	Page        int `json:"page"`
	PageSize    int `json:"page_size"`
	TotalNumber int `json:"total_number"`
	TotalPage   int `json:"total_page"`
}

// ReportResponse is the Marketing API envelope: code 0 means success,
// anything else carries a message.
type ReportResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		List     []ReportRow `json:"list"`
		PageInfo PageInfo    `json:"page_info"`
	} `json:"data"`
}

// AdInfo is the creative detail of one ad from the ad/get endpoint.
type AdInfo struct {
	AdID       string   `json:"ad_id"`
	AdName     string   `json:"ad_name"`
	AdFormat   string   `json:"ad_format"`
	VideoID    string   `json:"video_id"`
	ImageIDs   []string `json:"image_ids"`
	CampaignID string   `json:"campaign_id"`
	AdgroupID  string   `json:"adgroup_id"`
	Status     string   `json:"status"`
}

type AdGetResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		List     []AdInfo `json:"list"`
		PageInfo PageInfo `json:"page_info"`
	} `json:"data"`
}
