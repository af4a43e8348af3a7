package tiktok

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator/tiktok/tiktokclient"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"

	tiktokdomain "github.com/vfg2006/creative-performance-api/infrastructure/integrator/tiktok/domain"
)

// Metrics carried into the extras map verbatim; they have no canonical
// column but must not be dropped.
var extraMetricKeys = []string{
	"reach",
	"cost_per_conversion",
	"real_time_conversion",
	"total_sales_lead_value",
	"video_watched_2s",
	"video_watched_6s",
	"average_video_play",
	"video_views_p25",
	"video_views_p50",
	"video_views_p75",
	"profile_visits",
	"likes",
	"comments",
	"shares",
	"follows",
	"engagements",
	"engagement_rate",
}

type TikTokIntegrator struct {
	cfg    *config.Config
	client tiktokclient.Client
}

var _ integrator.Ingestor = (*TikTokIntegrator)(nil)

func New(cfg *config.Config, client tiktokclient.Client) *TikTokIntegrator {
	return &TikTokIntegrator{
		cfg:    cfg,
		client: client,
	}
}

func (s *TikTokIntegrator) Platform() domain.Platform {
	return domain.PlatformTikTok
}

func (s *TikTokIntegrator) FetchPerformance(conn *domain.Connection, accessToken string, dateRange utils.DateRange) ([]*domain.RawPerformance, error) {
	reportRows, err := s.client.GetAdReports(accessToken, conn.AdAccountID, dateRange)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.RawPerformance, 0, len(reportRows))
	now := time.Now().UTC()

	for _, reportRow := range reportRows {
		reportDate, err := parseStatTime(reportRow.Dimensions.StatTimeDay)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"ad_id":         reportRow.Dimensions.AdID,
				"stat_time_day": reportRow.Dimensions.StatTimeDay,
			}).Warn("ingest: skipping report row with unparseable date")
			continue
		}

		rows = append(rows, s.mapRow(conn, reportRow, reportDate, now))
	}

	return rows, nil
}

func (s *TikTokIntegrator) mapRow(conn *domain.Connection, reportRow tiktokdomain.ReportRow, reportDate, retrievedAt time.Time) *domain.RawPerformance {
	metrics := reportRow.Metrics

	spend := metricFloat(metrics, "spend")
	conversions := metricInt(metrics, "conversion")
	conversionValue := metricFloat(metrics, "total_purchase_value")

	row := &domain.RawPerformance{
		ConnectionID:    conn.ID,
		ReportDate:      reportDate,
		AdAccountID:     conn.AdAccountID,
		AdID:            reportRow.Dimensions.AdID,
		Currency:        conn.Currency,
		Spend:           spend,
		Impressions:     metricInt(metrics, "impressions"),
		Clicks:          metricInt(metrics, "clicks"),
		CTR:             metricFloat(metrics, "ctr"),
		CPM:             metricFloat(metrics, "cpm"),
		Conversions:     conversions,
		ConversionValue: conversionValue,
		ExtraMetrics:    map[string]float64{},
		RetrievedAt:     retrievedAt,
	}

	if cvr := metricFloat(metrics, "conversion_rate"); cvr > 0 {
		row.CVR = &cvr
	}
	if spend > 0 && conversionValue > 0 {
		roas := conversionValue / spend
		row.ROAS = &roas
	}

	if views := metricFloat(metrics, "video_play_actions"); views > 0 {
		videoViews := int64(views)
		row.VideoViews = &videoViews

		if completed := metricFloat(metrics, "video_views_p100"); completed > 0 {
			completionRate := completed / views * 100
			row.VideoCompletionRate = &completionRate
		}
	}

	for _, key := range extraMetricKeys {
		if v := metricFloat(metrics, key); v != 0 {
			row.ExtraMetrics[key] = v
		}
	}

	return row
}

// BackfillCreatives resolves ad names, formats and creative ids via the
// ad/get endpoint. The Marketing API exposes media ids rather than URLs, so
// no assets are downloaded here.
func (s *TikTokIntegrator) BackfillCreatives(conn *domain.Connection, accessToken string, adIDs []string) (map[string]domain.CreativeUpdate, error) {
	updates := make(map[string]domain.CreativeUpdate)

	const batchSize = 100
	for start := 0; start < len(adIDs); start += batchSize {
		end := start + batchSize
		if end > len(adIDs) {
			end = len(adIDs)
		}

		ads, err := s.client.GetAdInfo(accessToken, conn.AdAccountID, adIDs[start:end])
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"connection_id": conn.ID,
				"batch_size":    end - start,
				"error":         err.Error(),
			}).Error("ingest: failed to fetch ad info batch")
			continue
		}

		for _, ad := range ads {
			update := domain.CreativeUpdate{}

			format := formatFromAdFormat(ad.AdFormat)
			update.AssetFormat = &format

			creativeID := ad.VideoID
			if creativeID == "" && len(ad.ImageIDs) > 0 {
				creativeID = ad.ImageIDs[0]
			}
			if creativeID != "" {
				update.CreativeID = &creativeID
			}

			updates[ad.AdID] = update
		}
	}

	return updates, nil
}

func formatFromAdFormat(adFormat string) string {
	upper := strings.ToUpper(adFormat)
	switch {
	case strings.Contains(upper, "CAROUSEL"):
		return domain.AssetFormatCarousel
	case strings.Contains(upper, "VIDEO"):
		return domain.AssetFormatVideo
	default:
		return domain.AssetFormatImage
	}
}

// parseStatTime accepts both plain dates and "2006-01-02 15:04:05" stamps.
func parseStatTime(statTime string) (time.Time, error) {
	if len(statTime) > len(utils.DateLayout) {
		statTime = statTime[:len(utils.DateLayout)]
	}
	return time.Parse(utils.DateLayout, statTime)
}

func metricFloat(metrics map[string]string, key string) float64 {
	raw, ok := metrics[key]
	if !ok || raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func metricInt(metrics map[string]string, key string) int64 {
	return int64(metricFloat(metrics, key))
}
