package youtube

import (
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator/youtube/googleclient"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"

	youtubedomain "github.com/vfg2006/creative-performance-api/infrastructure/integrator/youtube/domain"
)

const microsPerUnit = 1_000_000

type YouTubeIntegrator struct {
	cfg    *config.Config
	client googleclient.Client
}

var _ integrator.Ingestor = (*YouTubeIntegrator)(nil)

func New(cfg *config.Config, client googleclient.Client) *YouTubeIntegrator {
	return &YouTubeIntegrator{
		cfg:    cfg,
		client: client,
	}
}

func (s *YouTubeIntegrator) Platform() domain.Platform {
	return domain.PlatformYouTube
}

func (s *YouTubeIntegrator) FetchPerformance(conn *domain.Connection, accessToken string, dateRange utils.DateRange) ([]*domain.RawPerformance, error) {
	results, err := s.client.GetAdPerformance(accessToken, conn.AdAccountID, dateRange)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.RawPerformance, 0, len(results))
	now := time.Now().UTC()

	for _, result := range results {
		reportDate, err := utils.ParseDate(result.Segments.Date)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"ad_id": result.AdGroupAd.Ad.ID,
				"date":  result.Segments.Date,
			}).Warn("ingest: skipping result with unparseable date")
			continue
		}

		rows = append(rows, s.mapResult(conn, result, *reportDate, now))
	}

	return rows, nil
}

func (s *YouTubeIntegrator) mapResult(conn *domain.Connection, result youtubedomain.Result, reportDate, retrievedAt time.Time) *domain.RawPerformance {
	metrics := result.Metrics
	ad := result.AdGroupAd.Ad

	spend := float64(parseInt64(metrics.CostMicros)) / microsPerUnit
	clicks := parseInt64(metrics.Clicks)
	conversions := int64(metrics.Conversions)
	conversionValue := metrics.ConversionsValue

	row := &domain.RawPerformance{
		ConnectionID:      conn.ID,
		ReportDate:        reportDate,
		AdAccountID:       conn.AdAccountID,
		CampaignID:        result.Campaign.ID,
		CampaignName:      result.Campaign.Name,
		CampaignObjective: result.Campaign.AdvertisingChannelSubType,
		AdGroupID:         result.AdGroup.ID,
		AdGroupName:       result.AdGroup.Name,
		AdID:              ad.ID,
		AdName:            ad.Name,
		PlacementType:     result.Campaign.AdvertisingChannelType,
		Currency:          conn.Currency,
		Spend:             spend,
		Impressions:       parseInt64(metrics.Impressions),
		Clicks:            clicks,
		CTR:               metrics.CTR,
		CPM:               metrics.AverageCPM / microsPerUnit,
		Conversions:       conversions,
		ConversionValue:   conversionValue,
		ExtraMetrics:      map[string]float64{},
		RetrievedAt:       retrievedAt,
	}

	// Creative identity comes inline with the GAQL row; there is no
	// secondary metadata pass for this platform.
	if ad.VideoAd != nil && ad.VideoAd.Video.ResourceName != "" {
		row.CreativeID = ad.VideoAd.Video.ResourceName
		row.AssetFormat = domain.AssetFormatVideo
	} else if ad.ImageAd != nil && ad.ImageAd.ImageURL != "" {
		row.ThumbnailURL = ad.ImageAd.ImageURL
		row.AssetFormat = domain.AssetFormatImage
	}

	if clicks > 0 && metrics.Conversions > 0 {
		cvr := metrics.Conversions / float64(clicks)
		row.CVR = &cvr
	}
	if spend > 0 && conversionValue > 0 {
		roas := conversionValue / spend
		row.ROAS = &roas
	}

	if views := parseInt64(metrics.VideoViews); views > 0 {
		row.VideoViews = &views
	}
	if metrics.VideoViewRate > 0 {
		rate := metrics.VideoViewRate
		row.VideoViewRate = &rate
	}
	if metrics.VideoQuartileP100Rate > 0 {
		completionRate := metrics.VideoQuartileP100Rate
		row.VideoCompletionRate = &completionRate
	}

	for key, value := range map[string]float64{
		"video_quartile_p25":  metrics.VideoQuartileP25Rate,
		"video_quartile_p50":  metrics.VideoQuartileP50Rate,
		"video_quartile_p75":  metrics.VideoQuartileP75Rate,
		"video_quartile_p100": metrics.VideoQuartileP100Rate,
		"engagements":         float64(parseInt64(metrics.Engagements)),
		"engagement_rate":     metrics.EngagementRate,
	} {
		if value != 0 {
			row.ExtraMetrics[key] = value
		}
	}

	return row
}

// BackfillCreatives is a no-op: the GAQL row already carries the creative
// identity, so there is nothing left to look up.
func (s *YouTubeIntegrator) BackfillCreatives(_ *domain.Connection, _ string, _ []string) (map[string]domain.CreativeUpdate, error) {
	return map[string]domain.CreativeUpdate{}, nil
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
