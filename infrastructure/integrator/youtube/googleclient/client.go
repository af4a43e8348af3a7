package googleclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"

	youtubedomain "github.com/vfg2006/creative-performance-api/infrastructure/integrator/youtube/domain"
)

type Client interface {
	GetAdPerformance(accessToken, customerID string, dateRange utils.DateRange) ([]youtubedomain.Result, error)
	RefreshAccessToken(refreshToken string) (*youtubedomain.TokenResponse, error)
}

type GoogleClient struct {
	Cfg        *config.Config
	httpClient *http.Client
	cooldown   time.Duration
}

func NewClient(cfg *config.Config) Client {
	return &GoogleClient{
		Cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		cooldown: time.Duration(cfg.Sync.RateLimitCooldownSecs) * time.Second,
	}
}

const performanceQuery = `
	SELECT
		campaign.id,
		campaign.name,
		campaign.advertising_channel_type,
		campaign.advertising_channel_sub_type,
		ad_group.id,
		ad_group.name,
		ad_group_ad.ad.id,
		ad_group_ad.ad.name,
		ad_group_ad.ad.type,
		ad_group_ad.ad.video_ad.video.resource_name,
		ad_group_ad.ad.image_ad.image_url,
		segments.date,
		metrics.cost_micros,
		metrics.impressions,
		metrics.clicks,
		metrics.ctr,
		metrics.average_cpm,
		metrics.conversions,
		metrics.conversions_value,
		metrics.video_views,
		metrics.video_view_rate,
		metrics.video_quartile_p25_rate,
		metrics.video_quartile_p50_rate,
		metrics.video_quartile_p75_rate,
		metrics.video_quartile_p100_rate,
		metrics.engagements,
		metrics.engagement_rate
	FROM ad_group_ad
	WHERE
		segments.date BETWEEN '%s' AND '%s'
		AND campaign.advertising_channel_type IN ('VIDEO', 'DISPLAY')
		AND ad_group_ad.status != 'REMOVED'
	ORDER BY segments.date DESC`

// GetAdPerformance runs the GAQL search for the date range, following the
// page token until the last page.
func (c *GoogleClient) GetAdPerformance(accessToken, customerID string, dateRange utils.DateRange) ([]youtubedomain.Result, error) {
	query := fmt.Sprintf(
		performanceQuery,
		dateRange.From.Format(utils.DateLayout),
		dateRange.To.Format(utils.DateLayout),
	)

	searchURL := fmt.Sprintf("%s/customers/%s/googleAds:search", c.Cfg.GoogleAds.URL, customerID)
	results := make([]youtubedomain.Result, 0)
	pageToken := ""

	for {
		requestBody := map[string]string{"query": query}
		if pageToken != "" {
			requestBody["pageToken"] = pageToken
		}

		payload, err := json.Marshal(requestBody)
		if err != nil {
			return nil, errors.Wrap(err, "encoding search request")
		}

		req, err := http.NewRequest(http.MethodPost, searchURL, bytes.NewReader(payload))
		if err != nil {
			return nil, errors.Wrap(err, "building search request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("developer-token", c.Cfg.GoogleAds.DeveloperToken)
		req.Header.Set("login-customer-id", customerID)

		body, err := integrator.Do(c.httpClient, domain.PlatformYouTube, req, c.cooldown)
		if err != nil {
			return nil, err
		}

		var response youtubedomain.SearchResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, errors.Wrap(err, "decoding search response")
		}

		results = append(results, response.Results...)

		if response.NextPageToken == "" {
			break
		}
		pageToken = response.NextPageToken
	}

	return results, nil
}
