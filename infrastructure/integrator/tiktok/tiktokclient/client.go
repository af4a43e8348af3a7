package tiktokclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"

	tiktokdomain "github.com/vfg2006/creative-performance-api/infrastructure/integrator/tiktok/domain"
)

var reportMetrics = []string{
	"spend",
	"impressions",
	"clicks",
	"ctr",
	"cpm",
	"reach",
	"conversion",
	"cost_per_conversion",
	"conversion_rate",
	"real_time_conversion",
	"total_purchase_value",
	"total_sales_lead_value",
	"video_play_actions",
	"video_watched_2s",
	"video_watched_6s",
	"average_video_play",
	"video_views_p25",
	"video_views_p50",
	"video_views_p75",
	"video_views_p100",
	"profile_visits",
	"likes",
	"comments",
	"shares",
	"follows",
	"engagements",
	"engagement_rate",
}

type Client interface {
	GetAdReports(accessToken, advertiserID string, dateRange utils.DateRange) ([]tiktokdomain.ReportRow, error)
	GetAdInfo(accessToken, advertiserID string, adIDs []string) ([]tiktokdomain.AdInfo, error)
}

type TikTokClient struct {
	Cfg        *config.Config
	httpClient *http.Client
	cooldown   time.Duration
}

func NewClient(cfg *config.Config) Client {
	return &TikTokClient{
		Cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		cooldown: time.Duration(cfg.Sync.RateLimitCooldownSecs) * time.Second,
	}
}

// GetAdReports fetches ad-level daily rows, walking the page counter until
// total_page is reached.
func (c *TikTokClient) GetAdReports(accessToken, advertiserID string, dateRange utils.DateRange) ([]tiktokdomain.ReportRow, error) {
	quoted := make([]string, 0, len(reportMetrics))
	for _, m := range reportMetrics {
		quoted = append(quoted, fmt.Sprintf("%q", m))
	}

	rows := make([]tiktokdomain.ReportRow, 0)
	page := 1

	for {
		params := url.Values{}
		params.Set("advertiser_id", advertiserID)
		params.Set("report_type", "BASIC")
		params.Set("data_level", "AUCTION_AD")
		params.Set("dimensions", `["ad_id","stat_time_day"]`)
		params.Set("metrics", "["+strings.Join(quoted, ",")+"]")
		params.Set("start_date", dateRange.From.Format(utils.DateLayout))
		params.Set("end_date", dateRange.To.Format(utils.DateLayout))
		params.Set("page", strconv.Itoa(page))
		params.Set("page_size", strconv.Itoa(c.Cfg.TikTok.PageSize))

		requestURL := fmt.Sprintf("%s/report/integrated/get/?%s", c.Cfg.TikTok.URL, params.Encode())
		req, err := http.NewRequest(http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, errors.Wrap(err, "building report request")
		}
		req.Header.Set("Access-Token", accessToken)

		body, err := integrator.Do(c.httpClient, domain.PlatformTikTok, req, c.cooldown)
		if err != nil {
			return nil, err
		}

		var response tiktokdomain.ReportResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, errors.Wrap(err, "decoding report response")
		}
		if response.Code != 0 {
			return nil, errors.Errorf("TIKTOK report error code %d: %s", response.Code, response.Message)
		}

		rows = append(rows, response.Data.List...)

		if page >= response.Data.PageInfo.TotalPage {
			break
		}
		page++
	}

	return rows, nil
}

// GetAdInfo fetches creative details for up to 100 ads per call.
func (c *TikTokClient) GetAdInfo(accessToken, advertiserID string, adIDs []string) ([]tiktokdomain.AdInfo, error) {
	if len(adIDs) == 0 {
		return nil, nil
	}
	if len(adIDs) > 100 {
		adIDs = adIDs[:100]
	}

	quoted := make([]string, 0, len(adIDs))
	for _, id := range adIDs {
		quoted = append(quoted, fmt.Sprintf("%q", id))
	}

	params := url.Values{}
	params.Set("advertiser_id", advertiserID)
	params.Set("filtering", fmt.Sprintf(`{"ad_ids":[%s]}`, strings.Join(quoted, ",")))
	params.Set("fields", `["ad_id","ad_name","ad_format","video_id","image_ids","campaign_id","adgroup_id","status"]`)
	params.Set("page_size", "100")

	requestURL := fmt.Sprintf("%s/ad/get/?%s", c.Cfg.TikTok.URL, params.Encode())
	req, err := http.NewRequest(http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building ad info request")
	}
	req.Header.Set("Access-Token", accessToken)

	body, err := integrator.Do(c.httpClient, domain.PlatformTikTok, req, c.cooldown)
	if err != nil {
		return nil, err
	}

	var response tiktokdomain.AdGetResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "decoding ad info response")
	}
	if response.Code != 0 {
		return nil, errors.Errorf("TIKTOK ad info error code %d: %s", response.Code, response.Message)
	}

	return response.Data.List, nil
}
