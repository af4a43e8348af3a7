package metaclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"

	metadomain "github.com/vfg2006/creative-performance-api/infrastructure/integrator/meta/domain"
)

var insightFields = []string{
	"date_start",
	"date_stop",
	"account_id",
	"campaign_id",
	"campaign_name",
	"objective",
	"adset_id",
	"adset_name",
	"ad_id",
	"ad_name",
	"spend",
	"impressions",
	"clicks",
	"ctr",
	"reach",
	"frequency",
	"cpm",
	"cpc",
	"actions",
	"action_values",
	"video_p25_watched_actions",
	"video_p50_watched_actions",
	"video_p75_watched_actions",
	"video_p100_watched_actions",
	"video_play_actions",
}

// GetAdInsights fetches ad-level daily rows for the date range, following
// the after-cursor until the last page.
func (c *MetaClient) GetAdInsights(accessToken, accountID string, dateRange utils.DateRange) ([]metadomain.Insight, error) {
	baseURL := fmt.Sprintf("%s/act_%s/insights", c.Cfg.Meta.URL, accountID)
	timeRange := fmt.Sprintf(
		`{"since":"%s","until":"%s"}`,
		dateRange.From.Format(utils.DateLayout),
		dateRange.To.Format(utils.DateLayout),
	)

	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("level", "ad")
	params.Set("fields", strings.Join(insightFields, ","))
	params.Set("time_range", timeRange)
	params.Set("time_increment", "1")
	params.Set("limit", strconv.Itoa(c.Cfg.Meta.PageSize))

	insights := make([]metadomain.Insight, 0)

	for {
		req, err := http.NewRequest(http.MethodGet, baseURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, errors.Wrap(err, "building insights request")
		}

		body, err := integrator.Do(c.httpClient, domain.PlatformMeta, req, c.cooldown)
		if err != nil {
			return nil, err
		}

		var response metadomain.InsightsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, errors.Wrap(err, "decoding insights response")
		}

		insights = append(insights, response.Data...)

		if response.Paging.Next == "" || response.Paging.Cursors.After == "" {
			break
		}

		params.Set("after", response.Paging.Cursors.After)
	}

	return insights, nil
}
