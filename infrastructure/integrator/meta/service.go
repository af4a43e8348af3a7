package meta

import (
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/infrastructure/assetstore"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"

	metadomain "github.com/vfg2006/creative-performance-api/infrastructure/integrator/meta/domain"
)

// Action types counted as conversions. Purchase-type actions additionally
// contribute to conversion value; keeping the two lists separate avoids
// double counting purchases against generic conversions.
var (
	conversionActionTypes = map[string]bool{
		"purchase":                             true,
		"offsite_conversion.fb_pixel_purchase": true,
		"lead":                                 true,
		"complete_registration":                true,
	}
	conversionValueActionTypes = map[string]bool{
		"purchase":                             true,
		"offsite_conversion.fb_pixel_purchase": true,
	}
)

type MetaIntegrator struct {
	cfg    *config.Config
	client metaclient.Client
	assets assetstore.Store
}

var _ integrator.Ingestor = (*MetaIntegrator)(nil)

func New(cfg *config.Config, client metaclient.Client, assets assetstore.Store) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		client: client,
		assets: assets,
	}
}

func (s *MetaIntegrator) Platform() domain.Platform {
	return domain.PlatformMeta
}

func (s *MetaIntegrator) FetchPerformance(conn *domain.Connection, accessToken string, dateRange utils.DateRange) ([]*domain.RawPerformance, error) {
	insights, err := s.client.GetAdInsights(accessToken, conn.AdAccountID, dateRange)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.RawPerformance, 0, len(insights))
	now := time.Now().UTC()

	for _, insight := range insights {
		reportDate, err := utils.ParseDate(insight.DateStart)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"ad_id":      insight.AdID,
				"date_start": insight.DateStart,
			}).Warn("ingest: skipping insight with unparseable date")
			continue
		}

		rows = append(rows, s.mapInsight(conn, insight, *reportDate, now))
	}

	return rows, nil
}

func (s *MetaIntegrator) mapInsight(conn *domain.Connection, insight metadomain.Insight, reportDate, retrievedAt time.Time) *domain.RawPerformance {
	spend := parseFloat(insight.Spend)
	impressions := parseInt(insight.Impressions)
	clicks := parseInt(insight.Clicks)

	var conversions int64
	for _, action := range insight.Actions {
		if conversionActionTypes[action.ActionType] {
			conversions += parseInt(action.Value)
		}
	}

	var conversionValue float64
	for _, action := range insight.ActionValues {
		if conversionValueActionTypes[action.ActionType] {
			conversionValue += parseFloat(action.Value)
		}
	}

	row := &domain.RawPerformance{
		ConnectionID:      conn.ID,
		ReportDate:        reportDate,
		AdAccountID:       conn.AdAccountID,
		CampaignID:        insight.CampaignID,
		CampaignName:      insight.CampaignName,
		CampaignObjective: insight.Objective,
		AdGroupID:         insight.AdsetID,
		AdGroupName:       insight.AdsetName,
		AdID:              insight.AdID,
		AdName:            insight.AdName,
		Currency:          conn.Currency,
		Spend:             spend,
		Impressions:       impressions,
		Clicks:            clicks,
		CTR:               parseFloat(insight.CTR),
		CPM:               parseFloat(insight.CPM),
		CPC:               parseFloat(insight.CPC),
		Conversions:       conversions,
		ConversionValue:   conversionValue,
		ExtraMetrics:      map[string]float64{},
		RetrievedAt:       retrievedAt,
	}

	if conversions > 0 {
		denominator := clicks
		if denominator == 0 {
			denominator = 1
		}
		cvr := float64(conversions) / float64(denominator)
		row.CVR = &cvr
	}

	if spend > 0 && conversionValue > 0 {
		roas := conversionValue / spend
		row.ROAS = &roas
	}

	if views := firstActionValue(insight.VideoPlayActions); views > 0 {
		videoViews := int64(views)
		row.VideoViews = &videoViews

		if impressions > 0 {
			rate := views / float64(impressions) * 100
			row.VideoViewRate = &rate
		}

		if completed := firstActionValue(insight.VideoP100Watched); completed > 0 {
			completionRate := completed / views * 100
			row.VideoCompletionRate = &completionRate
		}
	}

	if reach := parseFloat(insight.Reach); reach > 0 {
		row.ExtraMetrics["reach"] = reach
	}
	if frequency := parseFloat(insight.Frequency); frequency > 0 {
		row.ExtraMetrics["frequency"] = frequency
	}
	for key, actions := range map[string][]metadomain.ActionValue{
		"video_p25_watched": insight.VideoP25Watched,
		"video_p50_watched": insight.VideoP50Watched,
		"video_p75_watched": insight.VideoP75Watched,
	} {
		if v := firstActionValue(actions); v > 0 {
			row.ExtraMetrics[key] = v
		}
	}

	return row
}

// BackfillCreatives resolves creative metadata in batches, downloading media
// through the asset store. Ads that fail any step are skipped, not fatal.
func (s *MetaIntegrator) BackfillCreatives(conn *domain.Connection, accessToken string, adIDs []string) (map[string]domain.CreativeUpdate, error) {
	updates := make(map[string]domain.CreativeUpdate)

	batchSize := s.cfg.Sync.CreativeBatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	for start := 0; start < len(adIDs); start += batchSize {
		end := start + batchSize
		if end > len(adIDs) {
			end = len(adIDs)
		}

		ads, err := s.client.GetAdCreatives(accessToken, conn.AdAccountID, adIDs[start:end])
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"connection_id": conn.ID,
				"batch_size":    end - start,
				"error":         err.Error(),
			}).Error("ingest: failed to fetch creative batch")
			continue
		}

		for adID, ad := range ads {
			updates[adID] = s.resolveCreative(conn, accessToken, adID, ad.Creative)
		}
	}

	return updates, nil
}

func (s *MetaIntegrator) resolveCreative(conn *domain.Connection, accessToken, adID string, creative metadomain.Creative) domain.CreativeUpdate {
	videoID := creative.VideoID
	if videoID == "" && creative.ObjectStorySpec != nil && creative.ObjectStorySpec.VideoData != nil {
		videoID = creative.ObjectStorySpec.VideoData.VideoID
	}

	isVideo := creative.ObjectType == "VIDEO" || videoID != ""
	thumbnailURL := creative.ThumbnailURL
	assetURL := ""

	if !isVideo {
		imageHash := creative.ImageHash
		if imageHash == "" && creative.AssetFeedSpec != nil {
			if len(creative.AssetFeedSpec.Images) > 0 {
				imageHash = creative.AssetFeedSpec.Images[0].Hash
			} else if len(creative.AssetFeedSpec.Videos) > 0 && creative.AssetFeedSpec.Videos[0].VideoID != "" {
				// Dynamic creatives hide the video behind the feed spec.
				isVideo = true
				videoID = creative.AssetFeedSpec.Videos[0].VideoID
			}
		}

		if !isVideo {
			imageURL := ""
			if imageHash != "" {
				if resolved, err := s.client.GetImageURL(accessToken, conn.AdAccountID, imageHash); err == nil {
					imageURL = resolved
				}
			}
			if imageURL == "" && creative.ObjectStorySpec != nil {
				imageURL = imageURLFromStorySpec(creative.ObjectStorySpec)
			}
			if imageURL == "" {
				imageURL = creative.ImageURL
			}

			if imageURL != "" {
				if served, err := s.assets.Fetch(imageURL, conn.OrganizationID, adID, "img"); err == nil {
					assetURL = served
				} else {
					logrus.WithFields(logrus.Fields{"ad_id": adID, "error": err.Error()}).
						Warn("ingest: failed to cache image asset")
				}
			}
		}
	}

	if isVideo && videoID != "" {
		video, err := s.client.GetVideoInfo(accessToken, videoID)
		if err != nil {
			logrus.WithFields(logrus.Fields{"ad_id": adID, "video_id": videoID, "error": err.Error()}).
				Warn("ingest: failed to fetch video info")
		} else {
			if video.Source != "" {
				if served, fetchErr := s.assets.Fetch(video.Source, conn.OrganizationID, adID, "vid"); fetchErr == nil {
					assetURL = served
				} else {
					logrus.WithFields(logrus.Fields{"ad_id": adID, "error": fetchErr.Error()}).
						Warn("ingest: failed to cache video asset")
				}
			}
			if thumbnailURL == "" && len(video.Thumbnails.Data) > 0 {
				thumbnailURL = video.Thumbnails.Data[0].URI
			}
		}
	}

	if thumbnailURL != "" {
		if served, err := s.assets.Fetch(thumbnailURL, conn.OrganizationID, adID, "thumb"); err == nil {
			thumbnailURL = served
		}
	}

	format := domain.AssetFormatImage
	if isVideo {
		format = domain.AssetFormatVideo
	}

	update := domain.CreativeUpdate{
		AssetFormat: &format,
	}
	if creative.ID != "" {
		update.CreativeID = &creative.ID
	}
	if thumbnailURL != "" {
		update.ThumbnailURL = &thumbnailURL
	}
	if assetURL != "" {
		update.AssetURL = &assetURL
	}

	return update
}

func imageURLFromStorySpec(spec *metadomain.StorySpec) string {
	if spec.LinkData != nil && spec.LinkData.Picture != "" {
		return spec.LinkData.Picture
	}
	if spec.PhotoData != nil && spec.PhotoData.URL != "" {
		return spec.PhotoData.URL
	}
	return ""
}

func firstActionValue(actions []metadomain.ActionValue) float64 {
	if len(actions) == 0 {
		return 0
	}
	return parseFloat(actions[0].Value)
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some counters arrive as decimals.
		return int64(parseFloat(s))
	}
	return v
}
